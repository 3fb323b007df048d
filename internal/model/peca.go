package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Peca is a catalog/inventory part. Estoque is mutated only through
// stock movements (sale, storno, manual adjustment).
type Peca struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo        string    `gorm:"uniqueIndex;not null"`
	Nome          string    `gorm:"index;not null"`
	Descricao     *string
	Marca         *string
	PrecoCusto    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecoVenda    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estoque       int             `gorm:"not null;default:0"`
	EstoqueMinimo int             `gorm:"not null;default:1"`
	Ativo         bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Peca) TableName() string { return "pecas" }

// ServicoCatalogo is a labor entry priced per unit.
type ServicoCatalogo struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string          `gorm:"uniqueIndex;not null"`
	Descricao *string
	Preco     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Ativo     bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ServicoCatalogo) TableName() string { return "servicos_catalogo" }
