package dto

import "github.com/shopspring/decimal"

// ─── Peças ──────────────────────────────────────────────────────────────────

type PecaFilter struct {
	Nome         string `form:"nome"`
	Codigo       string `form:"codigo"`
	Ativo        string `form:"ativo"` // "false" | "all" | default active only
	AbaixoMinimo bool   `form:"abaixo_minimo"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type CriarPecaRequest struct {
	Codigo        string          `json:"codigo"         validate:"required,max=50"`
	Nome          string          `json:"nome"           validate:"required,min=2,max=150"`
	Descricao     *string         `json:"descricao"      validate:"omitempty,max=500"`
	Marca         *string         `json:"marca"          validate:"omitempty,max=80"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"    validate:"min=0"`
	PrecoVenda    decimal.Decimal `json:"preco_venda"    validate:"required,gt=0"`
	Estoque       int             `json:"estoque"        validate:"min=0"`
	EstoqueMinimo int             `json:"estoque_minimo" validate:"min=0"`
}

type AtualizarPecaRequest struct {
	Nome          *string          `json:"nome"           validate:"omitempty,min=2,max=150"`
	Descricao     *string          `json:"descricao"      validate:"omitempty,max=500"`
	Marca         *string          `json:"marca"          validate:"omitempty,max=80"`
	PrecoCusto    *decimal.Decimal `json:"preco_custo"`
	PrecoVenda    *decimal.Decimal `json:"preco_venda"`
	EstoqueMinimo *int             `json:"estoque_minimo" validate:"omitempty,min=0"`
	Ativo         *bool            `json:"ativo"`
}

type PecaResponse struct {
	ID            string          `json:"id"`
	Codigo        string          `json:"codigo"`
	Nome          string          `json:"nome"`
	Descricao     *string         `json:"descricao"`
	Marca         *string         `json:"marca"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"`
	PrecoVenda    decimal.Decimal `json:"preco_venda"`
	Estoque       int             `json:"estoque"`
	EstoqueMinimo int             `json:"estoque_minimo"`
	Ativo         bool            `json:"ativo"`
}

type PecaListResponse struct {
	Data  []PecaResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Movimentos / ajustes ───────────────────────────────────────────────────

// AjusteEstoqueRequest: positive Delta is an ENTRADA, negative a SAIDA.
type AjusteEstoqueRequest struct {
	Delta  int    `json:"delta"  validate:"required,ne=0"`
	Motivo string `json:"motivo" validate:"required,min=3,max=200"`
}

type MovimentoFilter struct {
	PecaID  string `form:"peca_id"  validate:"omitempty,uuid"`
	OrdemID string `form:"ordem_id" validate:"omitempty,uuid"`
	Tipo    string `form:"tipo"     validate:"omitempty,oneof=ENTRADA SAIDA"`
	Page    int    `form:"page,default=1"    validate:"min=1"`
	Limit   int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimentoResponse struct {
	ID              string  `json:"id"`
	PecaID          string  `json:"peca_id"`
	PecaNome        string  `json:"peca_nome,omitempty"`
	Tipo            string  `json:"tipo"`
	Quantidade      int     `json:"quantidade"`
	EstoqueAnterior int     `json:"estoque_anterior"`
	EstoqueNovo     int     `json:"estoque_novo"`
	Referencia      string  `json:"referencia"`
	OrdemServicoID  *string `json:"ordem_servico_id"`
	CreatedAt       string  `json:"created_at"`
}

type MovimentoListResponse struct {
	Data  []MovimentoResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

type AlertaEstoqueResponse struct {
	PecaID        string `json:"peca_id"`
	Codigo        string `json:"codigo"`
	Nome          string `json:"nome"`
	Estoque       int    `json:"estoque"`
	EstoqueMinimo int    `json:"estoque_minimo"`
	Deficit       int    `json:"deficit"`
}

// ─── Serviços (mão de obra) ─────────────────────────────────────────────────

type ServicoRequest struct {
	Nome      string          `json:"nome"      validate:"required,min=2,max=150"`
	Descricao *string         `json:"descricao" validate:"omitempty,max=500"`
	Preco     decimal.Decimal `json:"preco"     validate:"required,gt=0"`
	Ativo     *bool           `json:"ativo"`
}

type ServicoResponse struct {
	ID        string          `json:"id"`
	Nome      string          `json:"nome"`
	Descricao *string         `json:"descricao"`
	Preco     decimal.Decimal `json:"preco"`
	Ativo     bool            `json:"ativo"`
}

// ImportarPecasResponse summarises a spreadsheet import. Rows listed in
// Erros were skipped, the others were applied in one transaction.
type ImportarPecasResponse struct {
	Criadas     int      `json:"criadas"`
	Atualizadas int      `json:"atualizadas"`
	Erros       []string `json:"erros"`
}
