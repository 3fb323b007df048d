package service

import (
	"context"
	"fmt"
	"strings"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrdemServicoService interface {
	Criar(ctx context.Context, ator Ator, req dto.CriarOrdemRequest) (*dto.OrdemResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.OrdemResponse, error)
	Listar(ctx context.Context, filter dto.OrdemFilter) (*dto.OrdemListResponse, error)
	AlterarStatus(ctx context.Context, ator Ator, id uuid.UUID, req dto.AlterarStatusRequest) (*dto.OrdemResponse, error)
	AdicionarItem(ctx context.Context, ator Ator, id uuid.UUID, req dto.ItemRequest) (*dto.OrdemResponse, error)
	RemoverItem(ctx context.Context, ator Ator, id, itemID uuid.UUID) (*dto.OrdemResponse, error)
	Historico(ctx context.Context, id uuid.UUID) ([]dto.HistoricoResponse, error)
	Excluir(ctx context.Context, ator Ator, id uuid.UUID) error
}

type ordemServicoService struct {
	repo         repository.OrdemServicoRepository
	clienteRepo  repository.ClienteRepository
	veiculoRepo  repository.VeiculoRepository
	catalogo     *catalogo
	efeitos      *efeitosTerminais
	cache        EstoqueCache
	fluxoEstrito bool
}

func NewOrdemServicoService(
	repo repository.OrdemServicoRepository,
	clienteRepo repository.ClienteRepository,
	veiculoRepo repository.VeiculoRepository,
	pecaRepo repository.PecaRepository,
	servicoRepo repository.ServicoRepository,
	movRepo repository.MovimentoEstoqueRepository,
	lancRepo repository.LancamentoRepository,
	outboxRepo repository.OutboxRepository,
	cache EstoqueCache,
	fluxoEstrito bool,
) OrdemServicoService {
	return &ordemServicoService{
		repo:         repo,
		clienteRepo:  clienteRepo,
		veiculoRepo:  veiculoRepo,
		catalogo:     &catalogo{pecaRepo: pecaRepo, servicoRepo: servicoRepo},
		efeitos:      newEfeitosTerminais(pecaRepo, movRepo, lancRepo, outboxRepo),
		cache:        cache,
		fluxoEstrito: fluxoEstrito,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Criar ─────────────────────────────────────────────────────────────────────

func (s *ordemServicoService) Criar(ctx context.Context, ator Ator, req dto.CriarOrdemRequest) (*dto.OrdemResponse, error) {
	if !ator.pode(rolesOrdem) {
		return nil, ErrNaoAutorizado
	}
	base, err := s.prepararOrdem(ctx, req.ClienteID, req.VeiculoID, req.VendedorID)
	if err != nil {
		return nil, err
	}
	base.KM = req.KM
	base.Observacoes = req.Observacoes
	base.Desconto = req.Desconto

	for _, it := range req.Itens {
		item, err := s.catalogo.montarItem(ctx, it)
		if err != nil {
			return nil, err
		}
		base.Itens = append(base.Itens, item)
	}
	base.RecalcularTotais()

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		base.Numero = numero
		base.Status = model.StatusAberta
		if err := s.repo.Create(ctx, tx, base); err != nil {
			return err
		}
		return s.repo.CreateHistoricoTx(tx, &model.HistoricoStatus{
			OrdemServicoID: base.ID,
			StatusNovo:     model.StatusAberta,
			UsuarioID:      ator.ID,
			Observacao:     "Ordem de serviço aberta",
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int("numero", base.Numero).Str("ordem_id", base.ID.String()).Msg("ordem de serviço criada")
	return s.Obter(ctx, base.ID)
}

// prepararOrdem validates customer, vehicle and seller references shared by
// Criar and the PDV path.
func (s *ordemServicoService) prepararOrdem(ctx context.Context, clienteID string, veiculoID, vendedorID *string) (*model.OrdemServico, error) {
	return prepararOrdem(ctx, s.clienteRepo, s.veiculoRepo, clienteID, veiculoID, vendedorID)
}

func prepararOrdem(
	ctx context.Context,
	clienteRepo repository.ClienteRepository,
	veiculoRepo repository.VeiculoRepository,
	clienteID string, veiculoID, vendedorID *string,
) (*model.OrdemServico, error) {
	cid, err := uuid.Parse(clienteID)
	if err != nil {
		return nil, fmt.Errorf("%w: cliente_id inválido", ErrValidacao)
	}
	if _, err := clienteRepo.FindByID(ctx, cid); err != nil {
		return nil, notFound(err, "cliente")
	}
	o := &model.OrdemServico{ClienteID: cid}

	if veiculoID != nil && *veiculoID != "" {
		vid, err := uuid.Parse(*veiculoID)
		if err != nil {
			return nil, fmt.Errorf("%w: veiculo_id inválido", ErrValidacao)
		}
		v, err := veiculoRepo.FindByID(ctx, vid)
		if err != nil {
			return nil, notFound(err, "veículo")
		}
		if v.ClienteID != cid {
			return nil, fmt.Errorf("%w: veículo não pertence ao cliente", ErrValidacao)
		}
		o.VeiculoID = &vid
	}
	if vendedorID != nil && *vendedorID != "" {
		uid, err := uuid.Parse(*vendedorID)
		if err != nil {
			return nil, fmt.Errorf("%w: vendedor_id inválido", ErrValidacao)
		}
		o.VendedorID = &uid
	}
	return o, nil
}

// ── AlterarStatus ─────────────────────────────────────────────────────────────
// One transaction:
//   1. lock the order row (FOR UPDATE) and load its items
//   2. terminal → terminal is rejected before any write
//   3. status update + history row
//   4. seller update when the field is present
//   5. terminal entry / exit side effects

func (s *ordemServicoService) AlterarStatus(ctx context.Context, ator Ator, id uuid.UUID, req dto.AlterarStatusRequest) (*dto.OrdemResponse, error) {
	if !ator.pode(rolesOrdem) {
		return nil, ErrNaoAutorizado
	}

	var novo *model.StatusOS
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		st := model.StatusOS(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !st.Valido() {
			return nil, fmt.Errorf("%w: status %q desconhecido", ErrValidacao, *req.Status)
		}
		novo = &st
	}
	metodo, ok := normalizarMetodo(req.MetodoPagamento)
	if !ok {
		return nil, fmt.Errorf("%w: método de pagamento %q não aceito", ErrValidacao, *req.MetodoPagamento)
	}
	var vendedor *uuid.UUID
	if req.VendedorID.Presente && req.VendedorID.Valor != nil {
		uid, err := uuid.Parse(*req.VendedorID.Valor)
		if err != nil {
			return nil, fmt.Errorf("%w: vendedor_id inválido", ErrValidacao)
		}
		vendedor = &uid
	}
	if novo == nil && !req.VendedorID.Presente {
		return nil, fmt.Errorf("%w: nada a alterar", ErrValidacao)
	}

	movimentou := false
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ordem, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "ordem de serviço")
		}

		if novo != nil {
			atual := ordem.Status
			if atual.Terminal() && novo.Terminal() {
				return fmt.Errorf("%w: OS #%d está em %s", ErrJaFinalizada, ordem.Numero, atual)
			}
			if s.fluxoEstrito && !transicaoPermitida(atual, *novo) {
				return fmt.Errorf("%w: %s → %s", ErrTransicaoInvalida, atual, *novo)
			}

			if err := s.repo.UpdateStatusTx(tx, ordem.ID, *novo); err != nil {
				return err
			}
			obs := fmt.Sprintf("Status alterado de %s para %s", atual, *novo)
			if req.Observacao != nil && strings.TrimSpace(*req.Observacao) != "" {
				obs = strings.TrimSpace(*req.Observacao)
			}
			if err := s.repo.CreateHistoricoTx(tx, &model.HistoricoStatus{
				OrdemServicoID: ordem.ID,
				StatusAnterior: atual,
				StatusNovo:     *novo,
				UsuarioID:      ator.ID,
				Observacao:     obs,
			}); err != nil {
				return err
			}
			ordem.Status = *novo

			switch {
			case !atual.Terminal() && novo.Terminal():
				if err := s.efeitos.entradaTerminal(tx, ordem, metodo); err != nil {
					return err
				}
				movimentou = true
			case atual.Terminal() && !novo.Terminal():
				if err := s.efeitos.estorno(tx, ordem); err != nil {
					return err
				}
				movimentou = true
			}
		}

		if req.VendedorID.Presente {
			if err := s.repo.UpdateVendedorTx(tx, ordem.ID, vendedor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if movimentou && s.cache != nil {
		s.cache.Invalidar(ctx)
	}
	if novo != nil {
		log.Info().
			Str("ordem_id", id.String()).
			Str("status", string(*novo)).
			Str("usuario_id", ator.ID.String()).
			Msg("status da ordem alterado")
	}
	return s.Obter(ctx, id)
}

// ── Itens ─────────────────────────────────────────────────────────────────────

func (s *ordemServicoService) AdicionarItem(ctx context.Context, ator Ator, id uuid.UUID, req dto.ItemRequest) (*dto.OrdemResponse, error) {
	if !ator.pode(rolesOrdem) {
		return nil, ErrNaoAutorizado
	}
	item, err := s.catalogo.montarItem(ctx, req)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ordem, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "ordem de serviço")
		}
		if ordem.Status.Terminal() {
			return fmt.Errorf("%w: itens de OS #%d não podem ser alterados", ErrJaFinalizada, ordem.Numero)
		}
		item.OrdemServicoID = ordem.ID
		if err := s.repo.CreateItemTx(tx, &item); err != nil {
			return err
		}
		ordem.Itens = append(ordem.Itens, item)
		ordem.RecalcularTotais()
		return s.repo.UpdateTotaisTx(tx, ordem)
	})
	if err != nil {
		return nil, err
	}
	return s.Obter(ctx, id)
}

func (s *ordemServicoService) RemoverItem(ctx context.Context, ator Ator, id, itemID uuid.UUID) (*dto.OrdemResponse, error) {
	if !ator.pode(rolesOrdem) {
		return nil, ErrNaoAutorizado
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ordem, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "ordem de serviço")
		}
		if ordem.Status.Terminal() {
			return fmt.Errorf("%w: itens de OS #%d não podem ser alterados", ErrJaFinalizada, ordem.Numero)
		}
		if err := s.repo.DeleteItemTx(tx, ordem.ID, itemID); err != nil {
			return notFound(err, "item")
		}
		restantes := make([]model.OrdemServicoItem, 0, len(ordem.Itens))
		for _, it := range ordem.Itens {
			if it.ID != itemID {
				restantes = append(restantes, it)
			}
		}
		ordem.Itens = restantes
		ordem.RecalcularTotais()
		return s.repo.UpdateTotaisTx(tx, ordem)
	})
	if err != nil {
		return nil, err
	}
	return s.Obter(ctx, id)
}

// ── Leitura ───────────────────────────────────────────────────────────────────

func (s *ordemServicoService) Obter(ctx context.Context, id uuid.UUID) (*dto.OrdemResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "ordem de serviço")
	}
	return ordemToResponse(o), nil
}

func (s *ordemServicoService) Listar(ctx context.Context, filter dto.OrdemFilter) (*dto.OrdemListResponse, error) {
	rf := repository.OrdemFilter{
		Status: strings.ToUpper(filter.Status),
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.ClienteID != "" {
		cid, err := uuid.Parse(filter.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("%w: cliente_id inválido", ErrValidacao)
		}
		rf.ClienteID = &cid
	}
	if filter.VeiculoID != "" {
		vid, err := uuid.Parse(filter.VeiculoID)
		if err != nil {
			return nil, fmt.Errorf("%w: veiculo_id inválido", ErrValidacao)
		}
		rf.VeiculoID = &vid
	}
	if rf.Page < 1 {
		rf.Page = 1
	}
	if rf.Limit < 1 {
		rf.Limit = 50
	}

	ordens, total, err := s.repo.List(ctx, rf)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrdemResponse, len(ordens))
	for i := range ordens {
		data[i] = *ordemToResponse(&ordens[i])
	}
	return &dto.OrdemListResponse{Data: data, Total: total, Page: rf.Page, Limit: rf.Limit}, nil
}

func (s *ordemServicoService) Historico(ctx context.Context, id uuid.UUID) ([]dto.HistoricoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "ordem de serviço")
	}
	hs, err := s.repo.ListHistorico(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoricoResponse, len(hs))
	for i, h := range hs {
		out[i] = historicoToResponse(&h)
	}
	return out, nil
}

// Excluir soft-deletes an order. Billed orders cannot be deleted because
// their ledger entry and stock movements reference them.
func (s *ordemServicoService) Excluir(ctx context.Context, ator Ator, id uuid.UUID) error {
	if ator.Rol != model.RolAdmin && ator.Rol != model.RolGerente {
		return ErrNaoAutorizado
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ordem, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "ordem de serviço")
		}
		if ordem.Status.Terminal() {
			return fmt.Errorf("%w: OS #%d não pode ser excluída", ErrJaFinalizada, ordem.Numero)
		}
		return s.repo.SoftDeleteTx(tx, id)
	})
}

// ── catálogo ──────────────────────────────────────────────────────────────────

// catalogo resolves item lines against the parts and labor catalogs.
type catalogo struct {
	pecaRepo    repository.PecaRepository
	servicoRepo repository.ServicoRepository
}

// montarItem builds an order line from the request. Linked lines default
// their description and unit price from the catalog.
func (c *catalogo) montarItem(ctx context.Context, req dto.ItemRequest) (model.OrdemServicoItem, error) {
	item := model.OrdemServicoItem{
		Tipo:        model.TipoItem(strings.ToUpper(req.Tipo)),
		Descricao:   strings.TrimSpace(req.Descricao),
		Quantidade:  req.Quantidade,
		DescontoPct: req.DescontoPct,
	}
	if item.Quantidade < 1 {
		return item, fmt.Errorf("%w: quantidade deve ser positiva", ErrValidacao)
	}
	if item.DescontoPct.IsNegative() || item.DescontoPct.GreaterThan(decimal.NewFromInt(100)) {
		return item, fmt.Errorf("%w: desconto_pct fora de 0..100", ErrValidacao)
	}

	var precoCatalogo *decimal.Decimal
	switch item.Tipo {
	case model.ItemPeca:
		if req.ServicoID != nil && *req.ServicoID != "" {
			return item, fmt.Errorf("%w: item PECA não aceita servico_id", ErrValidacao)
		}
		if req.PecaID != nil && *req.PecaID != "" {
			pid, err := uuid.Parse(*req.PecaID)
			if err != nil {
				return item, fmt.Errorf("%w: peca_id inválido", ErrValidacao)
			}
			p, err := c.pecaRepo.FindByID(ctx, pid)
			if err != nil {
				return item, notFound(err, "peça")
			}
			if !p.Ativo {
				return item, fmt.Errorf("%w: peça %s inativa", ErrValidacao, p.Codigo)
			}
			item.PecaID = &pid
			precoCatalogo = &p.PrecoVenda
			if item.Descricao == "" {
				item.Descricao = p.Nome
			}
		}
	case model.ItemServico:
		if req.PecaID != nil && *req.PecaID != "" {
			return item, fmt.Errorf("%w: item SERVICO não aceita peca_id", ErrValidacao)
		}
		if req.ServicoID != nil && *req.ServicoID != "" {
			sid, err := uuid.Parse(*req.ServicoID)
			if err != nil {
				return item, fmt.Errorf("%w: servico_id inválido", ErrValidacao)
			}
			sv, err := c.servicoRepo.FindByID(ctx, sid)
			if err != nil {
				return item, notFound(err, "serviço")
			}
			item.ServicoID = &sid
			precoCatalogo = &sv.Preco
			if item.Descricao == "" {
				item.Descricao = sv.Nome
			}
		}
	default:
		return item, fmt.Errorf("%w: tipo de item %q", ErrValidacao, req.Tipo)
	}

	switch {
	case req.PrecoUnitario != nil:
		item.PrecoUnitario = *req.PrecoUnitario
	case precoCatalogo != nil:
		item.PrecoUnitario = *precoCatalogo
	default:
		return item, fmt.Errorf("%w: preco_unitario obrigatório para item avulso", ErrValidacao)
	}
	if item.PrecoUnitario.IsNegative() {
		return item, fmt.Errorf("%w: preco_unitario negativo", ErrValidacao)
	}
	if item.Descricao == "" {
		return item, fmt.Errorf("%w: descricao obrigatória", ErrValidacao)
	}
	item.CalcularTotal()
	return item, nil
}
