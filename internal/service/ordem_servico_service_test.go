package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"
	"malutoficina/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixture ───────────────────────────────────────────────────────────────────

type ordemFixture struct {
	svc      service.OrdemServicoService
	pdv      service.PDVService
	ordens   *stubOrdemRepo
	clientes *stubClienteRepo
	veiculos *stubVeiculoRepo
	pecas    *stubPecaRepo
	servicos *stubServicoRepo
	movs     *stubMovRepo
	lancs    *stubLancRepo
	outbox   *stubOutboxRepo
	cache    *stubCache

	cliente *model.Cliente
	veiculo *model.Veiculo
	filtro  *model.Peca // custo 30, venda 50, estoque 10
	revisao *model.ServicoCatalogo
}

func buildOrdemSvc(t *testing.T, fluxoEstrito bool) *ordemFixture {
	t.Helper()
	f := &ordemFixture{
		ordens:   newStubOrdemRepo(),
		clientes: newStubClienteRepo(),
		veiculos: newStubVeiculoRepo(),
		pecas:    newStubPecaRepo(),
		servicos: newStubServicoRepo(),
		movs:     &stubMovRepo{},
		lancs:    newStubLancRepo(),
		outbox:   &stubOutboxRepo{},
		cache:    &stubCache{},
	}
	f.svc = service.NewOrdemServicoService(f.ordens, f.clientes, f.veiculos, f.pecas, f.servicos,
		f.movs, f.lancs, f.outbox, f.cache, fluxoEstrito)
	f.pdv = service.NewPDVService(f.ordens, f.clientes, f.veiculos, f.pecas, f.servicos,
		f.movs, f.lancs, f.outbox, f.cache)

	ctx := context.Background()
	f.cliente = &model.Cliente{Nome: "João da Silva"}
	require.NoError(t, f.clientes.Create(ctx, f.cliente))
	f.veiculo = &model.Veiculo{ClienteID: f.cliente.ID, Placa: "ABC1D23", Marca: "Fiat", Modelo: "Uno"}
	require.NoError(t, f.veiculos.Create(ctx, f.veiculo))
	f.filtro = f.pecas.add("FLT-01", 30, 50, 10, 2)
	f.revisao = &model.ServicoCatalogo{Nome: "Revisão", Preco: decimal.NewFromInt(120), Ativo: true}
	require.NoError(t, f.servicos.Create(ctx, f.revisao))
	return f
}

var (
	admin      = service.Ator{ID: uuid.New(), Rol: model.RolAdmin}
	atendente  = service.Ator{ID: uuid.New(), Rol: model.RolAtendente}
	mecanico   = service.Ator{ID: uuid.New(), Rol: model.RolMecanico}
	financeiro = service.Ator{ID: uuid.New(), Rol: model.RolFinanceiro}
)

func strPtr(s string) *string { return &s }

// itensPadrao: 2 × filtro (50) + 1 × revisão (120).
func (f *ordemFixture) itensPadrao() []dto.ItemRequest {
	return []dto.ItemRequest{
		{Tipo: "PECA", Quantidade: 2, PecaID: strPtr(f.filtro.ID.String())},
		{Tipo: "SERVICO", Quantidade: 1, ServicoID: strPtr(f.revisao.ID.String())},
	}
}

func (f *ordemFixture) criarOrdem(t *testing.T) *dto.OrdemResponse {
	t.Helper()
	resp, err := f.svc.Criar(context.Background(), atendente, dto.CriarOrdemRequest{
		ClienteID: f.cliente.ID.String(),
		VeiculoID: strPtr(f.veiculo.ID.String()),
		Desconto:  decimal.NewFromInt(20),
		Itens:     f.itensPadrao(),
	})
	require.NoError(t, err)
	return resp
}

func (f *ordemFixture) alterar(t *testing.T, id string, status string) (*dto.OrdemResponse, error) {
	t.Helper()
	return f.svc.AlterarStatus(context.Background(), atendente, uuid.MustParse(id),
		dto.AlterarStatusRequest{Status: strPtr(status)})
}

// ── Criar ─────────────────────────────────────────────────────────────────────

func TestCriarOrdem_TotaisEHistorico(t *testing.T) {
	f := buildOrdemSvc(t, false)
	resp := f.criarOrdem(t)

	assert.Equal(t, 1, resp.Numero)
	assert.Equal(t, string(model.StatusAberta), resp.Status)
	assert.True(t, resp.TotalPecas.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.TotalServicos.Equal(decimal.NewFromInt(120)))
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(200)), "100 + 120 - 20")
	require.Len(t, resp.Itens, 2)
	assert.Equal(t, f.filtro.Nome, resp.Itens[0].Descricao, "descrição herdada do catálogo")

	hist, err := f.svc.Historico(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Empty(t, hist[0].StatusAnterior)
	assert.Equal(t, string(model.StatusAberta), hist[0].StatusNovo)

	// Opening an order never touches stock.
	assert.Empty(t, f.movs.movimentos)
	assert.Equal(t, 10, f.filtro.Estoque)
}

func TestCriarOrdem_PapelSemPermissao(t *testing.T) {
	f := buildOrdemSvc(t, false)
	_, err := f.svc.Criar(context.Background(), financeiro, dto.CriarOrdemRequest{ClienteID: f.cliente.ID.String()})
	assert.ErrorIs(t, err, service.ErrNaoAutorizado)
}

func TestCriarOrdem_MecanicoPodeAbrir(t *testing.T) {
	f := buildOrdemSvc(t, false)
	_, err := f.svc.Criar(context.Background(), mecanico, dto.CriarOrdemRequest{ClienteID: f.cliente.ID.String()})
	assert.NoError(t, err)
}

func TestCriarOrdem_VeiculoDeOutroCliente(t *testing.T) {
	f := buildOrdemSvc(t, false)
	outro := &model.Cliente{Nome: "Maria"}
	require.NoError(t, f.clientes.Create(context.Background(), outro))

	_, err := f.svc.Criar(context.Background(), atendente, dto.CriarOrdemRequest{
		ClienteID: outro.ID.String(),
		VeiculoID: strPtr(f.veiculo.ID.String()),
	})
	assert.ErrorIs(t, err, service.ErrValidacao)
}

func TestCriarOrdem_ClienteInexistente(t *testing.T) {
	f := buildOrdemSvc(t, false)
	_, err := f.svc.Criar(context.Background(), atendente, dto.CriarOrdemRequest{ClienteID: uuid.NewString()})
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}

func TestCriarOrdem_ItemAvulsoSemPreco(t *testing.T) {
	f := buildOrdemSvc(t, false)
	_, err := f.svc.Criar(context.Background(), atendente, dto.CriarOrdemRequest{
		ClienteID: f.cliente.ID.String(),
		Itens:     []dto.ItemRequest{{Tipo: "SERVICO", Descricao: "Lavagem", Quantidade: 1}},
	})
	assert.ErrorIs(t, err, service.ErrValidacao)
}

func TestCriarOrdem_PecaComServicoID(t *testing.T) {
	f := buildOrdemSvc(t, false)
	_, err := f.svc.Criar(context.Background(), atendente, dto.CriarOrdemRequest{
		ClienteID: f.cliente.ID.String(),
		Itens: []dto.ItemRequest{{
			Tipo: "PECA", Quantidade: 1,
			PecaID:    strPtr(f.filtro.ID.String()),
			ServicoID: strPtr(f.revisao.ID.String()),
		}},
	})
	assert.ErrorIs(t, err, service.ErrValidacao)
}

// ── Finalização ───────────────────────────────────────────────────────────────

func TestAlterarStatus_FinalizarBaixaEstoqueELanca(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)

	resp, err := f.alterar(t, ordem.ID, "FINALIZADA")
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusFinalizada), resp.Status)

	// stock: 10 - 2
	assert.Equal(t, 8, f.filtro.Estoque)
	saidas := f.movs.doTipo(model.MovimentoSaida)
	require.Len(t, saidas, 1, "só o item PECA vinculado movimenta estoque")
	assert.Equal(t, 2, saidas[0].Quantidade)
	assert.Equal(t, 10, saidas[0].EstoqueAnterior)
	assert.Equal(t, 8, saidas[0].EstoqueNovo)
	assert.Equal(t, "OS #1", saidas[0].Referencia)
	require.NotNil(t, saidas[0].OrdemServicoID)
	assert.Equal(t, ordem.ID, saidas[0].OrdemServicoID.String())

	receitas := f.lancs.receitas()
	require.Len(t, receitas, 1)
	r := receitas[0]
	assert.True(t, r.Valor.Equal(decimal.NewFromInt(200)))
	assert.True(t, r.ValorCusto.Equal(decimal.NewFromInt(60)), "CMV = 2 × 30")
	assert.Equal(t, model.LancamentoPago, r.Status)
	assert.Equal(t, model.MetodoDinheiro, r.MetodoPagamento)
	assert.NotNil(t, r.PagoEm)

	eventos := f.outbox.doTipo(model.EventoOSFinalizada)
	require.Len(t, eventos, 1)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(eventos[0].Payload, &payload))
	assert.Equal(t, ordem.ID, payload["ordem_id"])
	assert.Equal(t, "200.00", payload["valor_total"])
	assert.Equal(t, model.MetodoDinheiro, payload["metodo_pagamento"])
	assert.Equal(t, "pendente", eventos[0].Estado)

	assert.Equal(t, 1, f.cache.invalidacoes)
}

func TestAlterarStatus_BoletoFicaPendente(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)

	_, err := f.svc.AlterarStatus(context.Background(), atendente, uuid.MustParse(ordem.ID), dto.AlterarStatusRequest{
		Status:          strPtr("FINALIZADA"),
		MetodoPagamento: strPtr("BOLETO"),
	})
	require.NoError(t, err)

	receitas := f.lancs.receitas()
	require.Len(t, receitas, 1)
	assert.Equal(t, model.LancamentoPendente, receitas[0].Status)
	assert.Nil(t, receitas[0].PagoEm)
}

func TestAlterarStatus_MetodoLegadoNormalizado(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)

	_, err := f.svc.AlterarStatus(context.Background(), atendente, uuid.MustParse(ordem.ID), dto.AlterarStatusRequest{
		Status:          strPtr("entregue"),
		MetodoPagamento: strPtr("CREDIT_CARD"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.MetodoCartaoCredito, f.lancs.receitas()[0].MetodoPagamento)
}

func TestAlterarStatus_TerminalParaTerminalRejeitado(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.alterar(t, ordem.ID, "FINALIZADA")
	require.NoError(t, err)
	movsAntes := len(f.movs.movimentos)
	histAntes := len(f.ordens.historico)

	_, err = f.alterar(t, ordem.ID, "ENTREGUE")
	assert.ErrorIs(t, err, service.ErrJaFinalizada)

	_, err = f.alterar(t, ordem.ID, "FINALIZADA")
	assert.ErrorIs(t, err, service.ErrJaFinalizada, "repetir o status terminal também é rejeitado")

	assert.Len(t, f.movs.movimentos, movsAntes)
	assert.Len(t, f.ordens.historico, histAntes)
	assert.Len(t, f.lancs.receitas(), 1)
	assert.Equal(t, 8, f.filtro.Estoque)
}

func TestAlterarStatus_ReaberturaEstornaEstoque(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.alterar(t, ordem.ID, "FINALIZADA")
	require.NoError(t, err)

	resp, err := f.alterar(t, ordem.ID, "EM_EXECUCAO")
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusEmExecucao), resp.Status)

	assert.Equal(t, 10, f.filtro.Estoque)
	entradas := f.movs.doTipo(model.MovimentoEntrada)
	require.Len(t, entradas, 1)
	assert.Equal(t, 2, entradas[0].Quantidade)
	assert.Equal(t, "ESTORNO OS #1", entradas[0].Referencia)

	// The ledger entry survives the reopening untouched.
	receitas := f.lancs.receitas()
	require.Len(t, receitas, 1)
	assert.Equal(t, model.LancamentoPago, receitas[0].Status)

	assert.Len(t, f.outbox.doTipo(model.EventoOSReaberta), 1)
}

func TestAlterarStatus_GarantiaDepoisDeEntregueEstorna(t *testing.T) {
	f := buildOrdemSvc(t, true)
	ordem := f.criarOrdem(t)
	for _, st := range []string{"DIAGNOSTICO", "ORCAMENTO", "APROVADA", "EM_EXECUCAO", "ENTREGUE"} {
		_, err := f.alterar(t, ordem.ID, st)
		require.NoError(t, err, st)
	}
	assert.Equal(t, 8, f.filtro.Estoque)

	// GARANTIA is non-terminal: the delivered parts go back to stock.
	resp, err := f.alterar(t, ordem.ID, "GARANTIA")
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusGarantia), resp.Status)
	assert.Equal(t, 10, f.filtro.Estoque)
	require.Len(t, f.movs.doTipo(model.MovimentoEntrada), 1)
	assert.Len(t, f.lancs.receitas(), 1)
	assert.Len(t, f.outbox.doTipo(model.EventoOSReaberta), 1)

	// Delivering again after the warranty job takes the parts once more.
	_, err = f.alterar(t, ordem.ID, "ENTREGUE")
	require.NoError(t, err)
	assert.Equal(t, 8, f.filtro.Estoque)
	assert.Len(t, f.lancs.receitas(), 1)
}

func TestAlterarStatus_RefinalizarNaoDuplicaReceita(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	for _, st := range []string{"FINALIZADA", "EM_EXECUCAO", "ENTREGUE"} {
		_, err := f.alterar(t, ordem.ID, st)
		require.NoError(t, err, st)
	}

	assert.Len(t, f.lancs.receitas(), 1)
	assert.Len(t, f.movs.doTipo(model.MovimentoSaida), 2)
	assert.Len(t, f.movs.doTipo(model.MovimentoEntrada), 1)
	assert.Equal(t, 8, f.filtro.Estoque)
	assert.Len(t, f.outbox.doTipo(model.EventoOSFinalizada), 2)
}

func TestAlterarStatus_NaoTerminalSemEfeitos(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	for _, st := range []string{"DIAGNOSTICO", "ORCAMENTO", "APROVADA", "EM_EXECUCAO"} {
		_, err := f.alterar(t, ordem.ID, st)
		require.NoError(t, err, st)
	}
	assert.Empty(t, f.movs.movimentos)
	assert.Empty(t, f.lancs.lancamentos)
	assert.Empty(t, f.outbox.eventos)
	assert.Len(t, f.ordens.historico, 5)
	assert.Equal(t, 0, f.cache.invalidacoes)
}

func TestAlterarStatus_EstoqueNegativoPermitido(t *testing.T) {
	f := buildOrdemSvc(t, false)
	f.filtro.Estoque = 1
	ordem := f.criarOrdem(t)

	_, err := f.alterar(t, ordem.ID, "FINALIZADA")
	require.NoError(t, err)
	assert.Equal(t, -1, f.filtro.Estoque)
}

func TestAlterarStatus_PecaAvulsaNaoMovimenta(t *testing.T) {
	f := buildOrdemSvc(t, false)
	resp, err := f.svc.Criar(context.Background(), atendente, dto.CriarOrdemRequest{
		ClienteID: f.cliente.ID.String(),
		Itens: []dto.ItemRequest{{
			Tipo: "PECA", Descricao: "Parafuso", Quantidade: 4,
			PrecoUnitario: func() *decimal.Decimal { d := decimal.NewFromInt(2); return &d }(),
		}},
	})
	require.NoError(t, err)

	_, err = f.alterar(t, resp.ID, "FINALIZADA")
	require.NoError(t, err)
	assert.Empty(t, f.movs.movimentos)
	receitas := f.lancs.receitas()
	require.Len(t, receitas, 1)
	assert.True(t, receitas[0].ValorCusto.IsZero())
}

// ── Validação / permissões ───────────────────────────────────────────────────

func TestAlterarStatus_StatusDesconhecido(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.alterar(t, ordem.ID, "CANCELADA")
	assert.ErrorIs(t, err, service.ErrValidacao)
}

func TestAlterarStatus_MetodoInvalido(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.svc.AlterarStatus(context.Background(), atendente, uuid.MustParse(ordem.ID), dto.AlterarStatusRequest{
		Status:          strPtr("FINALIZADA"),
		MetodoPagamento: strPtr("CHEQUE"),
	})
	assert.ErrorIs(t, err, service.ErrValidacao)
	assert.Empty(t, f.lancs.lancamentos)
}

func TestAlterarStatus_NadaAAlterar(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.svc.AlterarStatus(context.Background(), atendente, uuid.MustParse(ordem.ID), dto.AlterarStatusRequest{})
	assert.ErrorIs(t, err, service.ErrValidacao)
}

func TestAlterarStatus_OrdemInexistente(t *testing.T) {
	f := buildOrdemSvc(t, false)
	_, err := f.alterar(t, uuid.NewString(), "FINALIZADA")
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}

func TestAlterarStatus_FinanceiroNaoPode(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.svc.AlterarStatus(context.Background(), financeiro, uuid.MustParse(ordem.ID),
		dto.AlterarStatusRequest{Status: strPtr("FINALIZADA")})
	assert.ErrorIs(t, err, service.ErrNaoAutorizado)
}

func TestAlterarStatus_FluxoEstrito(t *testing.T) {
	f := buildOrdemSvc(t, true)
	ordem := f.criarOrdem(t)

	_, err := f.alterar(t, ordem.ID, "FINALIZADA")
	assert.ErrorIs(t, err, service.ErrTransicaoInvalida)
	assert.Empty(t, f.movs.movimentos)

	for _, st := range []string{"DIAGNOSTICO", "ORCAMENTO", "APROVADA", "EM_EXECUCAO", "FINALIZADA"} {
		_, err := f.alterar(t, ordem.ID, st)
		require.NoError(t, err, st)
	}
	assert.Equal(t, 8, f.filtro.Estoque)
}

func TestAlterarStatus_FluxoLivrePermiteSalto(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.alterar(t, ordem.ID, "FINALIZADA")
	assert.NoError(t, err)
}

// ── Vendedor (tri-state) ─────────────────────────────────────────────────────

func TestAlterarStatus_Vendedor(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	id := uuid.MustParse(ordem.ID)
	vendedor := uuid.New()

	// present with uuid: sets
	resp, err := f.svc.AlterarStatus(context.Background(), atendente, id, dto.AlterarStatusRequest{
		VendedorID: dto.Definir(strPtr(vendedor.String())),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.VendedorID)
	assert.Equal(t, vendedor.String(), *resp.VendedorID)
	assert.Len(t, f.ordens.historico, 1, "só vendedor não gera histórico de status")

	// absent: unchanged
	resp, err = f.alterar(t, ordem.ID, "DIAGNOSTICO")
	require.NoError(t, err)
	require.NotNil(t, resp.VendedorID)
	assert.Equal(t, vendedor.String(), *resp.VendedorID)

	// present with null: clears
	resp, err = f.svc.AlterarStatus(context.Background(), atendente, id, dto.AlterarStatusRequest{
		VendedorID: dto.Definir(nil),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.VendedorID)
}

func TestAlterarStatus_VendedorJSON(t *testing.T) {
	var ausente, nulo, vazio dto.AlterarStatusRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"ABERTA"}`), &ausente))
	require.NoError(t, json.Unmarshal([]byte(`{"vendedor_id":null}`), &nulo))
	require.NoError(t, json.Unmarshal([]byte(`{"vendedor_id":""}`), &vazio))

	assert.False(t, ausente.VendedorID.Presente)
	assert.True(t, nulo.VendedorID.Presente)
	assert.Nil(t, nulo.VendedorID.Valor)
	assert.True(t, vazio.VendedorID.Presente)
	assert.Nil(t, vazio.VendedorID.Valor)
}

func TestAlterarStatus_VendedorInvalido(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.svc.AlterarStatus(context.Background(), atendente, uuid.MustParse(ordem.ID), dto.AlterarStatusRequest{
		VendedorID: dto.Definir(strPtr("não-é-uuid")),
	})
	assert.ErrorIs(t, err, service.ErrValidacao)
}

// ── Itens / exclusão ─────────────────────────────────────────────────────────

func TestAdicionarRemoverItem(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	id := uuid.MustParse(ordem.ID)

	resp, err := f.svc.AdicionarItem(context.Background(), mecanico, id, dto.ItemRequest{
		Tipo: "PECA", Quantidade: 1, PecaID: strPtr(f.filtro.ID.String()),
	})
	require.NoError(t, err)
	require.Len(t, resp.Itens, 3)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(250)))

	resp, err = f.svc.RemoverItem(context.Background(), mecanico, id, uuid.MustParse(resp.Itens[2].ID))
	require.NoError(t, err)
	require.Len(t, resp.Itens, 2)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(200)))

	_, err = f.svc.RemoverItem(context.Background(), mecanico, id, uuid.New())
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}

func TestAdicionarItem_OrdemFinalizada(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.alterar(t, ordem.ID, "FINALIZADA")
	require.NoError(t, err)

	_, err = f.svc.AdicionarItem(context.Background(), atendente, uuid.MustParse(ordem.ID), dto.ItemRequest{
		Tipo: "SERVICO", Quantidade: 1, ServicoID: strPtr(f.revisao.ID.String()),
	})
	assert.ErrorIs(t, err, service.ErrJaFinalizada)
}

func TestAdicionarItem_DescontoPercentual(t *testing.T) {
	f := buildOrdemSvc(t, false)
	resp, err := f.svc.Criar(context.Background(), atendente, dto.CriarOrdemRequest{ClienteID: f.cliente.ID.String()})
	require.NoError(t, err)

	resp, err = f.svc.AdicionarItem(context.Background(), atendente, uuid.MustParse(resp.ID), dto.ItemRequest{
		Tipo: "SERVICO", Quantidade: 1, ServicoID: strPtr(f.revisao.ID.String()),
		DescontoPct: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.True(t, resp.Itens[0].Total.Equal(decimal.NewFromInt(108)))
}

func TestExcluirOrdem(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	id := uuid.MustParse(ordem.ID)

	assert.ErrorIs(t, f.svc.Excluir(context.Background(), atendente, id), service.ErrNaoAutorizado)
	require.NoError(t, f.svc.Excluir(context.Background(), admin, id))
	_, err := f.svc.Obter(context.Background(), id)
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}

func TestExcluirOrdem_Faturada(t *testing.T) {
	f := buildOrdemSvc(t, false)
	ordem := f.criarOrdem(t)
	_, err := f.alterar(t, ordem.ID, "ENTREGUE")
	require.NoError(t, err)

	err = f.svc.Excluir(context.Background(), admin, uuid.MustParse(ordem.ID))
	assert.ErrorIs(t, err, service.ErrJaFinalizada)
}

func TestListarOrdens_FiltroStatus(t *testing.T) {
	f := buildOrdemSvc(t, false)
	a := f.criarOrdem(t)
	f.criarOrdem(t)
	_, err := f.alterar(t, a.ID, "FINALIZADA")
	require.NoError(t, err)

	list, err := f.svc.Listar(context.Background(), dto.OrdemFilter{Status: "finalizada"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, a.ID, list.Data[0].ID)
	assert.Equal(t, 1, list.Page)

	_, err = f.svc.Listar(context.Background(), dto.OrdemFilter{ClienteID: "x"})
	assert.ErrorIs(t, err, service.ErrValidacao)
}
