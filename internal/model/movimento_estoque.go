package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MovimentoEntrada = "ENTRADA" // IN
	MovimentoSaida   = "SAIDA"   // OUT
)

// MovimentoEstoque records every stock change of a Peca.
// Immutable ledger: Quantidade is always positive, Tipo carries the direction.
type MovimentoEstoque struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PecaID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Tipo            string     `gorm:"type:varchar(10);not null"`
	Quantidade      int        `gorm:"not null"`
	EstoqueAnterior int        `gorm:"not null"`
	EstoqueNovo     int        `gorm:"not null"`
	Referencia      string     `gorm:"not null"` // "OS #42", "ESTORNO OS #42", "AJUSTE: ..."
	OrdemServicoID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time

	Peca *Peca `gorm:"foreignKey:PecaID"`
}

func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }
