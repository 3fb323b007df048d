package dto

import "github.com/shopspring/decimal"

// LancamentoFilter is bound from query string of GET /v1/financeiro/lancamentos.
type LancamentoFilter struct {
	Tipo    string `form:"tipo"   validate:"omitempty,oneof=RECEITA DESPESA"`
	Status  string `form:"status" validate:"omitempty,oneof=PAGO PENDENTE"`
	Desde   string `form:"desde"` // YYYY-MM-DD, inclusive
	Ate     string `form:"ate"`   // YYYY-MM-DD, inclusive
	OrdemID string `form:"ordem_id" validate:"omitempty,uuid"`
	Page    int    `form:"page,default=1"    validate:"min=1"`
	Limit   int    `form:"limit,default=100" validate:"min=1,max=1000"`
}

type CriarDespesaRequest struct {
	Descricao       string          `json:"descricao"        validate:"required,min=3,max=255"`
	Categoria       string          `json:"categoria"        validate:"omitempty,max=40"`
	Valor           decimal.Decimal `json:"valor"            validate:"required,gt=0"`
	MetodoPagamento *string         `json:"metodo_pagamento"`
	Vencimento      *string         `json:"vencimento"` // YYYY-MM-DD; set ⇒ PENDENTE
}

type BaixarRequest struct {
	MetodoPagamento *string `json:"metodo_pagamento"`
}

type LancamentoResponse struct {
	ID              string          `json:"id"`
	Tipo            string          `json:"tipo"`
	Descricao       string          `json:"descricao"`
	Categoria       string          `json:"categoria"`
	Valor           decimal.Decimal `json:"valor"`
	ValorCusto      decimal.Decimal `json:"valor_custo"`
	Status          string          `json:"status"`
	MetodoPagamento string          `json:"metodo_pagamento"`
	OrdemServicoID  *string         `json:"ordem_servico_id"`
	Vencimento      *string         `json:"vencimento"`
	PagoEm          *string         `json:"pago_em"`
	CreatedAt       string          `json:"created_at"`
}

type LancamentoListResponse struct {
	Data  []LancamentoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ResumoFinanceiro aggregates the ledger over a period.
// Margem = Receita − CMV; Saldo = Receita − Despesa.
type ResumoFinanceiro struct {
	Desde           string          `json:"desde"`
	Ate             string          `json:"ate"`
	Receita         decimal.Decimal `json:"receita"`
	ReceitaPendente decimal.Decimal `json:"receita_pendente"`
	Despesa         decimal.Decimal `json:"despesa"`
	CMV             decimal.Decimal `json:"cmv"`
	Margem          decimal.Decimal `json:"margem"`
	Saldo           decimal.Decimal `json:"saldo"`
}

// ─── Integrações ────────────────────────────────────────────────────────────

type CobrancaResponse struct {
	ID              string          `json:"id"`
	OrdemServicoID  string          `json:"ordem_servico_id"`
	Tipo            string          `json:"tipo"`
	IDExterno       *string         `json:"id_externo"`
	URL             *string         `json:"url"`
	Valor           decimal.Decimal `json:"valor"`
	Estado          string          `json:"estado"`
	MetodoPagamento string          `json:"metodo_pagamento,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type FaturarRequest struct {
	GerarBoleto bool `json:"gerar_boleto"`
}

type EnviarMensagemRequest struct {
	Telefone string `json:"telefone" validate:"required,min=10,max=20"`
	Mensagem string `json:"mensagem" validate:"required,min=1,max=4096"`
}

type WhatsAppStatusResponse struct {
	Estado      string  `json:"estado"`
	Conectado   bool    `json:"conectado"`
	UltimaVerif *string `json:"ultima_verificacao"`
	UltimoErro  *string `json:"ultimo_erro"`
}
