package dto

import "github.com/shopspring/decimal"

// FinalizarVendaRequest is the body of POST /v1/pdv/vendas.
// Finalizar=false stores the sale as a quote (ORCAMENTO).
type FinalizarVendaRequest struct {
	ClienteID       string          `json:"cliente_id"       validate:"required,uuid"`
	VeiculoID       *string         `json:"veiculo_id"       validate:"omitempty,uuid"`
	VendedorID      *string         `json:"vendedor_id"      validate:"omitempty,uuid"`
	Itens           []ItemRequest   `json:"itens"            validate:"required,min=1,dive"`
	Desconto        decimal.Decimal `json:"desconto"         validate:"min=0"`
	MetodoPagamento *string         `json:"metodo_pagamento"`
	Observacoes     *string         `json:"observacoes"      validate:"omitempty,max=2000"`
	Finalizar       bool            `json:"finalizar"`
}
