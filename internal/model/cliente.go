package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente is a shop customer. Documento holds CPF or CNPJ digits.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"index;not null"`
	Documento *string   `gorm:"type:varchar(20);uniqueIndex"`
	Telefone  *string   `gorm:"type:varchar(20)"`
	Email     *string
	Endereco  *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Veiculos []Veiculo `gorm:"foreignKey:ClienteID"`
}

// Veiculo belongs to one Cliente.
type Veiculo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	Placa     string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Marca     string    `gorm:"not null"`
	Modelo    string    `gorm:"not null"`
	Ano       *int
	Cor       *string
	KM        *int
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
