package service_test

import (
	"context"
	"errors"
	"testing"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"
	"malutoficina/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmissor records Emitir calls.
type stubEmissor struct {
	err      error
	chamadas int
	metodo   string
}

func (e *stubEmissor) Emitir(_ context.Context, ordemID uuid.UUID, metodo string, _ bool) (*model.CobrancaExterna, error) {
	e.chamadas++
	e.metodo = metodo
	if e.err != nil {
		return nil, e.err
	}
	id := "PED-1"
	return &model.CobrancaExterna{
		ID:             uuid.New(),
		OrdemServicoID: ordemID,
		Tipo:           "PEDIDO",
		IDExterno:      &id,
		Valor:          decimal.NewFromInt(200),
		Estado:         "emitido",
	}, nil
}

var _ service.Emissor = (*stubEmissor)(nil)

func TestFaturar(t *testing.T) {
	f := buildOrdemSvc(t, false)
	emissor := &stubEmissor{}
	svc := service.NewFaturamentoService(f.ordens, newStubCobrancaRepo(), emissor)
	ordem := f.criarOrdem(t)
	id := uuid.MustParse(ordem.ID)

	_, err := svc.Faturar(context.Background(), admin, id, dto.FaturarRequest{})
	assert.ErrorIs(t, err, service.ErrValidacao, "ordem aberta não fatura")
	assert.Equal(t, 0, emissor.chamadas)

	_, err = f.alterar(t, ordem.ID, "FINALIZADA")
	require.NoError(t, err)

	resp, err := svc.Faturar(context.Background(), admin, id, dto.FaturarRequest{GerarBoleto: true})
	require.NoError(t, err)
	assert.Equal(t, "emitido", resp.Estado)
	assert.Equal(t, model.MetodoBoleto, emissor.metodo)

	_, err = svc.Faturar(context.Background(), admin, uuid.New(), dto.FaturarRequest{})
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}

func TestFaturar_FalhaRemotaViraIntegracao(t *testing.T) {
	f := buildOrdemSvc(t, false)
	svc := service.NewFaturamentoService(f.ordens, newStubCobrancaRepo(), &stubEmissor{err: errors.New("503")})
	ordem := f.criarOrdem(t)
	_, err := f.alterar(t, ordem.ID, "FINALIZADA")
	require.NoError(t, err)

	_, err = svc.Faturar(context.Background(), admin, uuid.MustParse(ordem.ID), dto.FaturarRequest{})
	assert.ErrorIs(t, err, service.ErrIntegracao)

	// the order itself is untouched
	o, err := f.svc.Obter(context.Background(), uuid.MustParse(ordem.ID))
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusFinalizada), o.Status)
}

func TestObterCobranca(t *testing.T) {
	cobs := newStubCobrancaRepo()
	svc := service.NewFaturamentoService(newStubOrdemRepo(), cobs, &stubEmissor{})
	ordemID := uuid.New()

	_, err := svc.ObterCobranca(context.Background(), ordemID)
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)

	require.NoError(t, cobs.Create(context.Background(), &model.CobrancaExterna{
		OrdemServicoID: ordemID, Tipo: "PEDIDO", Valor: decimal.NewFromInt(10), Estado: "pendente",
	}))
	resp, err := svc.ObterCobranca(context.Background(), ordemID)
	require.NoError(t, err)
	assert.Equal(t, "pendente", resp.Estado)
}

func TestServicoCatalogo(t *testing.T) {
	svc := service.NewServicoService(newStubServicoRepo())
	ctx := context.Background()

	s, err := svc.Criar(ctx, dto.ServicoRequest{Nome: "Alinhamento", Preco: decimal.NewFromInt(80)})
	require.NoError(t, err)
	assert.True(t, s.Ativo)

	inativo := false
	_, err = svc.Atualizar(ctx, uuid.MustParse(s.ID), dto.ServicoRequest{Nome: "Alinhamento", Preco: decimal.NewFromInt(90), Ativo: &inativo})
	require.NoError(t, err)

	ativos, err := svc.Listar(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, ativos)
	todos, err := svc.Listar(ctx, true)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Preco.Equal(decimal.NewFromInt(90)))

	_, err = svc.Obter(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}
