package service

import (
	"context"
	"fmt"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PDVService is the counter-sale entry point. A sale is an OrdemServico
// created directly as ORCAMENTO (quote) or FINALIZADA (paid sale).
type PDVService interface {
	FinalizarVenda(ctx context.Context, ator Ator, req dto.FinalizarVendaRequest) (*dto.OrdemResponse, error)
}

type pdvService struct {
	repo        repository.OrdemServicoRepository
	clienteRepo repository.ClienteRepository
	veiculoRepo repository.VeiculoRepository
	catalogo    *catalogo
	efeitos     *efeitosTerminais
	cache       EstoqueCache
}

func NewPDVService(
	repo repository.OrdemServicoRepository,
	clienteRepo repository.ClienteRepository,
	veiculoRepo repository.VeiculoRepository,
	pecaRepo repository.PecaRepository,
	servicoRepo repository.ServicoRepository,
	movRepo repository.MovimentoEstoqueRepository,
	lancRepo repository.LancamentoRepository,
	outboxRepo repository.OutboxRepository,
	cache EstoqueCache,
) PDVService {
	return &pdvService{
		repo:        repo,
		clienteRepo: clienteRepo,
		veiculoRepo: veiculoRepo,
		catalogo:    &catalogo{pecaRepo: pecaRepo, servicoRepo: servicoRepo},
		efeitos:     newEfeitosTerminais(pecaRepo, movRepo, lancRepo, outboxRepo),
		cache:       cache,
	}
}

// FinalizarVenda creates the order, its items and the first history row in
// one transaction. When req.Finalizar is set the terminal-entry effects run
// in that same transaction.
func (s *pdvService) FinalizarVenda(ctx context.Context, ator Ator, req dto.FinalizarVendaRequest) (*dto.OrdemResponse, error) {
	if !ator.pode(rolesPDV) {
		return nil, ErrNaoAutorizado
	}
	if len(req.Itens) == 0 {
		return nil, fmt.Errorf("%w: a venda precisa de ao menos um item", ErrValidacao)
	}
	if req.Desconto.IsNegative() {
		return nil, fmt.Errorf("%w: desconto negativo", ErrValidacao)
	}
	metodo, ok := normalizarMetodo(req.MetodoPagamento)
	if !ok {
		return nil, fmt.Errorf("%w: método de pagamento %q não aceito", ErrValidacao, *req.MetodoPagamento)
	}

	ordem, err := prepararOrdem(ctx, s.clienteRepo, s.veiculoRepo, req.ClienteID, req.VeiculoID, req.VendedorID)
	if err != nil {
		return nil, err
	}
	if ordem.VendedorID == nil {
		vendedor := ator.ID
		ordem.VendedorID = &vendedor
	}
	ordem.Observacoes = req.Observacoes
	ordem.Desconto = req.Desconto
	for _, it := range req.Itens {
		item, err := s.catalogo.montarItem(ctx, it)
		if err != nil {
			return nil, err
		}
		ordem.Itens = append(ordem.Itens, item)
	}
	ordem.RecalcularTotais()

	status, obs := model.StatusOrcamento, "Orçamento registrado no PDV"
	if req.Finalizar {
		status, obs = model.StatusFinalizada, "Venda finalizada no PDV ("+metodo+")"
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		ordem.Numero = numero
		ordem.Status = status
		if err := s.repo.Create(ctx, tx, ordem); err != nil {
			return err
		}
		if err := s.repo.CreateHistoricoTx(tx, &model.HistoricoStatus{
			OrdemServicoID: ordem.ID,
			StatusNovo:     status,
			UsuarioID:      ator.ID,
			Observacao:     obs,
		}); err != nil {
			return err
		}
		if req.Finalizar {
			return s.efeitos.entradaTerminal(tx, ordem, metodo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Finalizar && s.cache != nil {
		s.cache.Invalidar(ctx)
	}
	log.Info().
		Int("numero", ordem.Numero).
		Str("status", string(status)).
		Str("valor_total", ordem.ValorTotal.StringFixed(2)).
		Msg("pdv: venda registrada")

	o, err := s.repo.FindByID(ctx, ordem.ID)
	if err != nil {
		return nil, notFound(err, "ordem de serviço")
	}
	return ordemToResponse(o), nil
}
