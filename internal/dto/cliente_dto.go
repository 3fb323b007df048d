package dto

type ClienteFilter struct {
	Busca string `form:"busca"` // nome, documento or telefone
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ClienteRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2,max=150"`
	Documento *string `json:"documento" validate:"omitempty,numeric,min=11,max=14"`
	Telefone  *string `json:"telefone"  validate:"omitempty,max=20"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Endereco  *string `json:"endereco"  validate:"omitempty,max=300"`
}

type ClienteResponse struct {
	ID        string            `json:"id"`
	Nome      string            `json:"nome"`
	Documento *string           `json:"documento"`
	Telefone  *string           `json:"telefone"`
	Email     *string           `json:"email"`
	Endereco  *string           `json:"endereco"`
	Veiculos  []VeiculoResponse `json:"veiculos,omitempty"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type VeiculoRequest struct {
	ClienteID string  `json:"cliente_id" validate:"required,uuid"`
	Placa     string  `json:"placa"      validate:"required,min=7,max=8"`
	Marca     string  `json:"marca"      validate:"required,max=60"`
	Modelo    string  `json:"modelo"     validate:"required,max=60"`
	Ano       *int    `json:"ano"        validate:"omitempty,min=1900,max=2100"`
	Cor       *string `json:"cor"        validate:"omitempty,max=30"`
	KM        *int    `json:"km"         validate:"omitempty,min=0"`
}

type VeiculoResponse struct {
	ID        string  `json:"id"`
	ClienteID string  `json:"cliente_id"`
	Placa     string  `json:"placa"`
	Marca     string  `json:"marca"`
	Modelo    string  `json:"modelo"`
	Ano       *int    `json:"ano"`
	Cor       *string `json:"cor"`
	KM        *int    `json:"km"`
}
