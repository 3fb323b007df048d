package model

import (
	"time"

	"github.com/google/uuid"
)

// HistoricoStatus records one status transition of an OrdemServico.
// Rows are append-only: never updated, never deleted.
type HistoricoStatus struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdemServicoID uuid.UUID `gorm:"type:uuid;not null;index"`
	StatusAnterior StatusOS  `gorm:"type:varchar(30)"` // empty on creation
	StatusNovo     StatusOS  `gorm:"type:varchar(30);not null"`
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null"`
	Observacao     string
	CreatedAt      time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (HistoricoStatus) TableName() string { return "historico_status" }
