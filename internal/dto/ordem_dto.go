package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// OrdemFilter is bound from query string of GET /v1/ordens.
type OrdemFilter struct {
	Status    string `form:"status"`
	ClienteID string `form:"cliente_id" validate:"omitempty,uuid"`
	VeiculoID string `form:"veiculo_id" validate:"omitempty,uuid"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrdemListResponse struct {
	Data  []OrdemResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarOrdemRequest struct {
	ClienteID   string          `json:"cliente_id"  validate:"required,uuid"`
	VeiculoID   *string         `json:"veiculo_id"  validate:"omitempty,uuid"`
	VendedorID  *string         `json:"vendedor_id" validate:"omitempty,uuid"`
	KM          *int            `json:"km"          validate:"omitempty,min=0"`
	Observacoes *string         `json:"observacoes" validate:"omitempty,max=2000"`
	Desconto    decimal.Decimal `json:"desconto"    validate:"min=0"`
	Itens       []ItemRequest   `json:"itens"       validate:"omitempty,dive"`
}

// ItemRequest adds one line to an order. PrecoUnitario is optional when the
// line links a catalog part or service; the catalog price is used then.
type ItemRequest struct {
	Tipo          string           `json:"tipo"           validate:"required,oneof=PECA SERVICO"`
	Descricao     string           `json:"descricao"      validate:"omitempty,max=255"`
	Quantidade    int              `json:"quantidade"     validate:"required,min=1"`
	PrecoUnitario *decimal.Decimal `json:"preco_unitario"`
	DescontoPct   decimal.Decimal  `json:"desconto_pct"   validate:"min=0,max=100"`
	PecaID        *string          `json:"peca_id"        validate:"omitempty,uuid"`
	ServicoID     *string          `json:"servico_id"     validate:"omitempty,uuid"`
}

// AlterarStatusRequest is the body of PATCH /v1/ordens/:id/status.
// Every field is optional; vendedor_id is tri-state (absent / null / uuid).
type AlterarStatusRequest struct {
	Status          *string       `json:"status"`
	Observacao      *string       `json:"observacao"       validate:"omitempty,max=1000"`
	VendedorID      CampoOpcional `json:"vendedor_id"`
	MetodoPagamento *string       `json:"metodo_pagamento"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID            string          `json:"id"`
	Tipo          string          `json:"tipo"`
	Descricao     string          `json:"descricao"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	DescontoPct   decimal.Decimal `json:"desconto_pct"`
	Total         decimal.Decimal `json:"total"`
	PecaID        *string         `json:"peca_id"`
	ServicoID     *string         `json:"servico_id"`
}

type OrdemResponse struct {
	ID            string          `json:"id"`
	Numero        int             `json:"numero"`
	Status        string          `json:"status"`
	ClienteID     string          `json:"cliente_id"`
	ClienteNome   string          `json:"cliente_nome,omitempty"`
	VeiculoID     *string         `json:"veiculo_id"`
	VeiculoPlaca  string          `json:"veiculo_placa,omitempty"`
	VendedorID    *string         `json:"vendedor_id"`
	TotalPecas    decimal.Decimal `json:"total_pecas"`
	TotalServicos decimal.Decimal `json:"total_servicos"`
	Desconto      decimal.Decimal `json:"desconto"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	KM            *int            `json:"km"`
	Observacoes   *string         `json:"observacoes"`
	Itens         []ItemResponse  `json:"itens"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

type HistoricoResponse struct {
	ID             string `json:"id"`
	StatusAnterior string `json:"status_anterior"`
	StatusNovo     string `json:"status_novo"`
	UsuarioID      string `json:"usuario_id"`
	UsuarioNome    string `json:"usuario_nome,omitempty"`
	Observacao     string `json:"observacao"`
	CreatedAt      string `json:"created_at"`
}
