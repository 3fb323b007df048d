package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Outbox event names written inside the status-transition transaction.
const (
	EventoOSFinalizada = "os.finalizada"
	EventoOSReaberta   = "os.reaberta"
)

// OutboxEvento is a side effect recorded in the same transaction as the
// state change that caused it; the relay publishes it afterwards.
// Estado: "pendente" | "enviado"
type OutboxEvento struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo       string         `gorm:"type:varchar(40);not null"`
	AgregadoID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null"`
	Estado     string         `gorm:"type:varchar(10);not null;default:'pendente';index"`
	Tentativas int            `gorm:"not null;default:0"`
	UltimoErro *string
	CreatedAt  time.Time
	EnviadoEm  *time.Time
}

func (OutboxEvento) TableName() string { return "outbox_eventos" }
