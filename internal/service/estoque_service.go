package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EstoqueCache caches the low-stock alert list. Backend failures surface
// as a cache miss, never as an error.
type EstoqueCache interface {
	Alertas(ctx context.Context) ([]dto.AlertaEstoqueResponse, bool)
	SalvarAlertas(ctx context.Context, alertas []dto.AlertaEstoqueResponse)
	Invalidar(ctx context.Context)
}

// EstoqueService manages the parts catalog, manual adjustments, the
// movement ledger and low-stock alerts.
type EstoqueService interface {
	CriarPeca(ctx context.Context, ator Ator, req dto.CriarPecaRequest) (*dto.PecaResponse, error)
	ObterPeca(ctx context.Context, id uuid.UUID) (*dto.PecaResponse, error)
	ListarPecas(ctx context.Context, filter dto.PecaFilter) (*dto.PecaListResponse, error)
	AtualizarPeca(ctx context.Context, id uuid.UUID, req dto.AtualizarPecaRequest) (*dto.PecaResponse, error)
	AjustarEstoque(ctx context.Context, ator Ator, id uuid.UUID, req dto.AjusteEstoqueRequest) (*dto.MovimentoResponse, error)
	ListarMovimentos(ctx context.Context, filter dto.MovimentoFilter) (*dto.MovimentoListResponse, error)
	Alertas(ctx context.Context) ([]dto.AlertaEstoqueResponse, error)
	ImportarPecas(ctx context.Context, ator Ator, r io.Reader) (*dto.ImportarPecasResponse, error)
}

type estoqueService struct {
	pecaRepo repository.PecaRepository
	movRepo  repository.MovimentoEstoqueRepository
	cache    EstoqueCache
}

func NewEstoqueService(pecaRepo repository.PecaRepository, movRepo repository.MovimentoEstoqueRepository, cache EstoqueCache) EstoqueService {
	return &estoqueService{pecaRepo: pecaRepo, movRepo: movRepo, cache: cache}
}

func (s *estoqueService) CriarPeca(ctx context.Context, ator Ator, req dto.CriarPecaRequest) (*dto.PecaResponse, error) {
	codigo := strings.ToUpper(strings.TrimSpace(req.Codigo))
	if _, err := s.pecaRepo.FindByCodigo(ctx, codigo); err == nil {
		return nil, fmt.Errorf("%w: código %s já cadastrado", ErrConflito, codigo)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.Peca{
		Codigo:        codigo,
		Nome:          strings.TrimSpace(req.Nome),
		Descricao:     req.Descricao,
		Marca:         req.Marca,
		PrecoCusto:    req.PrecoCusto,
		PrecoVenda:    req.PrecoVenda,
		EstoqueMinimo: req.EstoqueMinimo,
		Ativo:         true,
	}
	err := runTx(ctx, s.pecaRepo.DB(), func(tx *gorm.DB) error {
		if err := s.pecaRepo.CreateTx(tx, p); err != nil {
			return err
		}
		if req.Estoque > 0 {
			return registrarMovimento(tx, s.pecaRepo, s.movRepo, nil, p, model.MovimentoEntrada, req.Estoque, "ESTOQUE INICIAL")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	log.Info().Str("codigo", p.Codigo).Str("usuario_id", ator.ID.String()).Msg("peça cadastrada")
	resp := pecaToResponse(p)
	return &resp, nil
}

func (s *estoqueService) ObterPeca(ctx context.Context, id uuid.UUID) (*dto.PecaResponse, error) {
	p, err := s.pecaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "peça")
	}
	resp := pecaToResponse(p)
	return &resp, nil
}

func (s *estoqueService) ListarPecas(ctx context.Context, filter dto.PecaFilter) (*dto.PecaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pecas, total, err := s.pecaRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PecaResponse, len(pecas))
	for i := range pecas {
		data[i] = pecaToResponse(&pecas[i])
	}
	return &dto.PecaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// AtualizarPeca edits catalog data only; Estoque changes go through
// AjustarEstoque so every change leaves a movement.
func (s *estoqueService) AtualizarPeca(ctx context.Context, id uuid.UUID, req dto.AtualizarPecaRequest) (*dto.PecaResponse, error) {
	p, err := s.pecaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "peça")
	}
	if req.Nome != nil {
		p.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.Marca != nil {
		p.Marca = req.Marca
	}
	if req.PrecoCusto != nil {
		if req.PrecoCusto.IsNegative() {
			return nil, fmt.Errorf("%w: preco_custo negativo", ErrValidacao)
		}
		p.PrecoCusto = *req.PrecoCusto
	}
	if req.PrecoVenda != nil {
		if !req.PrecoVenda.IsPositive() {
			return nil, fmt.Errorf("%w: preco_venda deve ser positivo", ErrValidacao)
		}
		p.PrecoVenda = *req.PrecoVenda
	}
	minimoMudou := false
	if req.EstoqueMinimo != nil {
		minimoMudou = *req.EstoqueMinimo != p.EstoqueMinimo
		p.EstoqueMinimo = *req.EstoqueMinimo
	}
	if req.Ativo != nil {
		minimoMudou = minimoMudou || *req.Ativo != p.Ativo
		p.Ativo = *req.Ativo
	}
	if err := s.pecaRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	if minimoMudou {
		s.invalidar(ctx)
	}
	resp := pecaToResponse(p)
	return &resp, nil
}

func (s *estoqueService) AjustarEstoque(ctx context.Context, ator Ator, id uuid.UUID, req dto.AjusteEstoqueRequest) (*dto.MovimentoResponse, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: delta não pode ser zero", ErrValidacao)
	}
	motivo := strings.TrimSpace(req.Motivo)
	if motivo == "" {
		return nil, fmt.Errorf("%w: motivo obrigatório", ErrValidacao)
	}
	tipo, qtd := model.MovimentoEntrada, req.Delta
	if req.Delta < 0 {
		tipo, qtd = model.MovimentoSaida, -req.Delta
	}

	var mov *model.MovimentoEstoque
	err := runTx(ctx, s.pecaRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.pecaRepo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "peça")
		}
		mov, err = novoMovimento(tx, s.pecaRepo, s.movRepo, nil, p, tipo, qtd, "AJUSTE: "+motivo)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	log.Info().
		Str("peca_id", id.String()).
		Int("delta", req.Delta).
		Str("usuario_id", ator.ID.String()).
		Msg("ajuste manual de estoque")
	resp := movimentoToResponse(mov)
	return &resp, nil
}

func (s *estoqueService) ListarMovimentos(ctx context.Context, filter dto.MovimentoFilter) (*dto.MovimentoListResponse, error) {
	rf := repository.MovimentoFilter{Tipo: filter.Tipo, Page: filter.Page, Limit: filter.Limit}
	if filter.PecaID != "" {
		pid, err := uuid.Parse(filter.PecaID)
		if err != nil {
			return nil, fmt.Errorf("%w: peca_id inválido", ErrValidacao)
		}
		rf.PecaID = &pid
	}
	if filter.OrdemID != "" {
		oid, err := uuid.Parse(filter.OrdemID)
		if err != nil {
			return nil, fmt.Errorf("%w: ordem_id inválido", ErrValidacao)
		}
		rf.OrdemID = &oid
	}
	if rf.Page < 1 {
		rf.Page = 1
	}
	if rf.Limit < 1 {
		rf.Limit = 100
	}
	movs, total, err := s.movRepo.List(ctx, rf)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimentoResponse, len(movs))
	for i := range movs {
		data[i] = movimentoToResponse(&movs[i])
	}
	return &dto.MovimentoListResponse{Data: data, Total: total, Page: rf.Page, Limit: rf.Limit}, nil
}

// Alertas returns active parts at or below their minimum, served from the
// cache when possible.
func (s *estoqueService) Alertas(ctx context.Context) ([]dto.AlertaEstoqueResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Alertas(ctx); ok {
			return cached, nil
		}
	}
	pecas, err := s.pecaRepo.ListAbaixoMinimo(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertaEstoqueResponse, len(pecas))
	for i, p := range pecas {
		out[i] = dto.AlertaEstoqueResponse{
			PecaID:        p.ID.String(),
			Codigo:        p.Codigo,
			Nome:          p.Nome,
			Estoque:       p.Estoque,
			EstoqueMinimo: p.EstoqueMinimo,
			Deficit:       p.EstoqueMinimo - p.Estoque,
		}
	}
	if s.cache != nil {
		s.cache.SalvarAlertas(ctx, out)
	}
	return out, nil
}

func (s *estoqueService) invalidar(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
}

// registrarMovimento applies a stock change to a locked part and appends
// the matching movement row. Quantidade is always positive; tipo carries
// the direction.
func registrarMovimento(
	tx *gorm.DB,
	pecaRepo repository.PecaRepository,
	movRepo repository.MovimentoEstoqueRepository,
	ordemID *uuid.UUID,
	peca *model.Peca,
	tipo string, qtd int, ref string,
) error {
	_, err := novoMovimento(tx, pecaRepo, movRepo, ordemID, peca, tipo, qtd, ref)
	return err
}

func novoMovimento(
	tx *gorm.DB,
	pecaRepo repository.PecaRepository,
	movRepo repository.MovimentoEstoqueRepository,
	ordemID *uuid.UUID,
	peca *model.Peca,
	tipo string, qtd int, ref string,
) (*model.MovimentoEstoque, error) {
	delta := qtd
	if tipo == model.MovimentoSaida {
		delta = -qtd
	}
	anterior := peca.Estoque
	novo := anterior + delta
	if novo < 0 {
		// Accepted: the parts already left the shop.
		log.Warn().
			Str("peca_id", peca.ID.String()).
			Str("codigo", peca.Codigo).
			Int("estoque", novo).
			Msg("estoque negativo")
	}
	if err := pecaRepo.UpdateEstoqueTx(tx, peca.ID, delta); err != nil {
		return nil, fmt.Errorf("atualizar estoque de %s: %w", peca.Codigo, err)
	}
	mov := &model.MovimentoEstoque{
		PecaID:          peca.ID,
		Tipo:            tipo,
		Quantidade:      qtd,
		EstoqueAnterior: anterior,
		EstoqueNovo:     novo,
		Referencia:      ref,
		OrdemServicoID:  ordemID,
	}
	if err := movRepo.CreateTx(tx, mov); err != nil {
		return nil, fmt.Errorf("registrar movimento de %s: %w", peca.Codigo, err)
	}
	peca.Estoque = novo
	return mov, nil
}
