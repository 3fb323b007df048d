package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"malutoficina/internal/dto"
	"malutoficina/internal/infra"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dataLayout = "2006-01-02"

// maxExportacao caps the rows of one spreadsheet export.
const maxExportacao = repository.MaxLancamentosPorPagina

type FinanceiroService interface {
	Listar(ctx context.Context, filter dto.LancamentoFilter) (*dto.LancamentoListResponse, error)
	CriarDespesa(ctx context.Context, ator Ator, req dto.CriarDespesaRequest) (*dto.LancamentoResponse, error)
	Baixar(ctx context.Context, ator Ator, id uuid.UUID, req dto.BaixarRequest) (*dto.LancamentoResponse, error)
	Resumo(ctx context.Context, desde, ate string) (*dto.ResumoFinanceiro, error)
	Exportar(ctx context.Context, filter dto.LancamentoFilter) (*bytes.Buffer, error)
}

type financeiroService struct {
	repo repository.LancamentoRepository
	now  func() time.Time
}

func NewFinanceiroService(repo repository.LancamentoRepository) FinanceiroService {
	return &financeiroService{repo: repo, now: time.Now}
}

func (s *financeiroService) Listar(ctx context.Context, filter dto.LancamentoFilter) (*dto.LancamentoListResponse, error) {
	rf, err := s.filtro(filter)
	if err != nil {
		return nil, err
	}
	list, total, err := s.repo.List(ctx, rf)
	if err != nil {
		return nil, err
	}
	data := make([]dto.LancamentoResponse, len(list))
	for i := range list {
		data[i] = lancamentoToResponse(&list[i])
	}
	return &dto.LancamentoListResponse{Data: data, Total: total, Page: rf.Page, Limit: rf.Limit}, nil
}

// CriarDespesa records an expense. With a due date it starts PENDENTE,
// otherwise it is considered paid now.
func (s *financeiroService) CriarDespesa(ctx context.Context, ator Ator, req dto.CriarDespesaRequest) (*dto.LancamentoResponse, error) {
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: valor deve ser positivo", ErrValidacao)
	}
	metodo, ok := normalizarMetodo(req.MetodoPagamento)
	if !ok {
		return nil, fmt.Errorf("%w: metodo_pagamento desconhecido", ErrValidacao)
	}
	categoria := strings.ToUpper(strings.TrimSpace(req.Categoria))
	if categoria == "" {
		categoria = "GERAL"
	}
	l := &model.LancamentoFinanceiro{
		Tipo:            model.LancamentoDespesa,
		Descricao:       strings.TrimSpace(req.Descricao),
		Categoria:       categoria,
		Valor:           req.Valor.Round(2),
		ValorCusto:      decimal.Zero,
		MetodoPagamento: metodo,
	}
	if req.Vencimento != nil && *req.Vencimento != "" {
		venc, err := time.ParseInLocation(dataLayout, *req.Vencimento, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: vencimento deve ser AAAA-MM-DD", ErrValidacao)
		}
		l.Vencimento = &venc
		l.Status = model.LancamentoPendente
	} else {
		agora := s.now()
		l.Status = model.LancamentoPago
		l.PagoEm = &agora
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	log.Info().
		Str("lancamento_id", l.ID.String()).
		Str("valor", l.Valor.StringFixed(2)).
		Str("usuario_id", ator.ID.String()).
		Msg("despesa registrada")
	resp := lancamentoToResponse(l)
	return &resp, nil
}

// Baixar settles a pending entry.
func (s *financeiroService) Baixar(ctx context.Context, ator Ator, id uuid.UUID, req dto.BaixarRequest) (*dto.LancamentoResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "lançamento")
	}
	if l.Status == model.LancamentoPago {
		return nil, fmt.Errorf("%w: lançamento já está pago", ErrConflito)
	}
	if req.MetodoPagamento != nil {
		metodo, ok := normalizarMetodo(req.MetodoPagamento)
		if !ok {
			return nil, fmt.Errorf("%w: metodo_pagamento desconhecido", ErrValidacao)
		}
		l.MetodoPagamento = metodo
	}
	agora := s.now()
	l.Status = model.LancamentoPago
	l.PagoEm = &agora
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	log.Info().Str("lancamento_id", l.ID.String()).Str("usuario_id", ator.ID.String()).Msg("lançamento baixado")
	resp := lancamentoToResponse(l)
	return &resp, nil
}

// Resumo aggregates the ledger on an accrual basis: Receita counts every
// RECEITA of the period, ReceitaPendente is the unpaid part of it.
// Empty bounds default to the current month up to today.
func (s *financeiroService) Resumo(ctx context.Context, desde, ate string) (*dto.ResumoFinanceiro, error) {
	ini, fim, err := s.periodo(desde, ate)
	if err != nil {
		return nil, err
	}
	linhas, err := s.repo.Resumo(ctx, ini, fim.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	r := &dto.ResumoFinanceiro{
		Desde:           ini.Format(dataLayout),
		Ate:             fim.Format(dataLayout),
		Receita:         decimal.Zero,
		ReceitaPendente: decimal.Zero,
		Despesa:         decimal.Zero,
		CMV:             decimal.Zero,
	}
	for _, l := range linhas {
		switch l.Tipo {
		case model.LancamentoReceita:
			r.Receita = r.Receita.Add(l.Valor)
			r.CMV = r.CMV.Add(l.ValorCusto)
			if l.Status == model.LancamentoPendente {
				r.ReceitaPendente = r.ReceitaPendente.Add(l.Valor)
			}
		case model.LancamentoDespesa:
			r.Despesa = r.Despesa.Add(l.Valor)
		}
	}
	r.Margem = r.Receita.Sub(r.CMV)
	r.Saldo = r.Receita.Sub(r.Despesa)
	return r, nil
}

func (s *financeiroService) Exportar(ctx context.Context, filter dto.LancamentoFilter) (*bytes.Buffer, error) {
	filter.Page, filter.Limit = 1, maxExportacao
	rf, err := s.filtro(filter)
	if err != nil {
		return nil, err
	}
	list, _, err := s.repo.List(ctx, rf)
	if err != nil {
		return nil, err
	}
	return infra.GerarPlanilhaLancamentos(list)
}

func (s *financeiroService) filtro(f dto.LancamentoFilter) (repository.LancamentoFilter, error) {
	rf := repository.LancamentoFilter{Tipo: f.Tipo, Status: f.Status, Page: f.Page, Limit: f.Limit}
	if rf.Page < 1 {
		rf.Page = 1
	}
	if rf.Limit < 1 {
		rf.Limit = 100
	}
	if rf.Limit > repository.MaxLancamentosPorPagina {
		rf.Limit = repository.MaxLancamentosPorPagina
	}
	if f.OrdemID != "" {
		oid, err := uuid.Parse(f.OrdemID)
		if err != nil {
			return rf, fmt.Errorf("%w: ordem_id inválido", ErrValidacao)
		}
		rf.OrdemID = &oid
	}
	if f.Desde != "" {
		d, err := time.ParseInLocation(dataLayout, f.Desde, time.Local)
		if err != nil {
			return rf, fmt.Errorf("%w: desde deve ser AAAA-MM-DD", ErrValidacao)
		}
		rf.Desde = &d
	}
	if f.Ate != "" {
		a, err := time.ParseInLocation(dataLayout, f.Ate, time.Local)
		if err != nil {
			return rf, fmt.Errorf("%w: ate deve ser AAAA-MM-DD", ErrValidacao)
		}
		a = a.AddDate(0, 0, 1)
		rf.Ate = &a
	}
	return rf, nil
}

func (s *financeiroService) periodo(desde, ate string) (time.Time, time.Time, error) {
	hoje := s.now()
	hoje = time.Date(hoje.Year(), hoje.Month(), hoje.Day(), 0, 0, 0, 0, time.Local)
	ini := time.Date(hoje.Year(), hoje.Month(), 1, 0, 0, 0, 0, time.Local)
	fim := hoje
	var err error
	if desde != "" {
		if ini, err = time.ParseInLocation(dataLayout, desde, time.Local); err != nil {
			return ini, fim, fmt.Errorf("%w: desde deve ser AAAA-MM-DD", ErrValidacao)
		}
	}
	if ate != "" {
		if fim, err = time.ParseInLocation(dataLayout, ate, time.Local); err != nil {
			return ini, fim, fmt.Errorf("%w: ate deve ser AAAA-MM-DD", ErrValidacao)
		}
	}
	if fim.Before(ini) {
		return ini, fim, fmt.Errorf("%w: período inválido", ErrValidacao)
	}
	return ini, fim, nil
}
