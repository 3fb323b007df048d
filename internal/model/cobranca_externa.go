package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CobrancaExterna tracks an order pushed to the external billing system.
// Tipo: "PEDIDO" | "BOLETO" | "NFSE"
// Estado: "pendente" | "emitido" | "erro"
type CobrancaExterna struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdemServicoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Tipo           string    `gorm:"type:varchar(10);not null"`
	// IDExterno is the identifier returned by the billing system
	IDExterno *string         `gorm:"type:varchar(64)"`
	URL       *string         // boleto / invoice link
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado    string          `gorm:"type:varchar(20);not null;default:'pendente'"`
	// MetodoPagamento is re-sent on every retry
	MetodoPagamento string `gorm:"type:varchar(20)"`
	// Retry fields, used by RetryCron to re-attempt failed billing calls
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CobrancaExterna) TableName() string { return "cobrancas_externas" }
