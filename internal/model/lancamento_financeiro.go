package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LancamentoReceita = "RECEITA"
	LancamentoDespesa = "DESPESA"

	LancamentoPago     = "PAGO"
	LancamentoPendente = "PENDENTE"
)

// Payment methods accepted by the shop.
const (
	MetodoDinheiro      = "DINHEIRO"
	MetodoPix           = "PIX"
	MetodoCartaoCredito = "CARTAO_CREDITO"
	MetodoCartaoDebito  = "CARTAO_DEBITO"
	MetodoBoleto        = "BOLETO"
	MetodoTransferencia = "TRANSFERENCIA"
)

// LancamentoFinanceiro is an income/expense ledger entry.
// At most one RECEITA exists per OrdemServico (partial unique index
// idx_lancamentos_receita_ordem, see infra.NewDatabase).
// ValorCusto carries the CMV used for margin reporting.
type LancamentoFinanceiro struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo            string          `gorm:"type:varchar(10);not null;index"`
	Descricao       string          `gorm:"not null"`
	Categoria       string          `gorm:"type:varchar(40)"`
	Valor           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ValorCusto      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status          string          `gorm:"type:varchar(10);not null"`
	MetodoPagamento string          `gorm:"type:varchar(20)"`
	OrdemServicoID  *uuid.UUID      `gorm:"type:uuid;index"`
	Vencimento      *time.Time
	PagoEm          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (LancamentoFinanceiro) TableName() string { return "lancamentos_financeiros" }
