package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognised by the authorization layer.
const (
	RolAdmin      = "admin"
	RolGerente    = "gerente"
	RolAtendente  = "atendente"
	RolMecanico   = "mecanico"
	RolFinanceiro = "financeiro"
)

// Usuario stores system users with role-based access.
// Rol: "admin" | "gerente" | "atendente" | "mecanico" | "financeiro"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	Telefone     *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// Comissao is the seller commission percentage used in PDV reports
	Comissao  *float64
	Ativo     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
