package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusOS is the lifecycle state of an OrdemServico.
type StatusOS string

const (
	StatusAberta              StatusOS = "ABERTA"
	StatusDiagnostico         StatusOS = "DIAGNOSTICO"
	StatusOrcamento           StatusOS = "ORCAMENTO"
	StatusAguardandoAprovacao StatusOS = "AGUARDANDO_APROVACAO"
	StatusAprovada            StatusOS = "APROVADA"
	StatusEmExecucao          StatusOS = "EM_EXECUCAO"
	StatusTesteQualidade      StatusOS = "TESTE_QUALIDADE"
	StatusFinalizada          StatusOS = "FINALIZADA"
	StatusEntregue            StatusOS = "ENTREGUE"
	StatusGarantia            StatusOS = "GARANTIA"
)

// TodosStatus lists the fixed status set in workflow order.
var TodosStatus = []StatusOS{
	StatusAberta,
	StatusDiagnostico,
	StatusOrcamento,
	StatusAguardandoAprovacao,
	StatusAprovada,
	StatusEmExecucao,
	StatusTesteQualidade,
	StatusFinalizada,
	StatusEntregue,
	StatusGarantia,
}

// Valido reports whether s belongs to the fixed status set.
func (s StatusOS) Valido() bool {
	for _, v := range TodosStatus {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether billing and stock effects have fired for s.
// GARANTIA is deliberately non-terminal.
func (s StatusOS) Terminal() bool {
	return s == StatusFinalizada || s == StatusEntregue
}

// OrdemServico is the central job/sale record of the shop.
// VeiculoID == nil means a counter sale (PDV).
type OrdemServico struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero        int             `gorm:"uniqueIndex;not null"`
	Status        StatusOS        `gorm:"type:varchar(30);not null;index"`
	ClienteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	VeiculoID     *uuid.UUID      `gorm:"type:uuid;index"`
	VendedorID    *uuid.UUID      `gorm:"type:uuid"`
	TotalPecas    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalServicos decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Desconto      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	KM            *int
	Observacoes   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Itens    []OrdemServicoItem `gorm:"foreignKey:OrdemServicoID"`
	Cliente  *Cliente           `gorm:"foreignKey:ClienteID"`
	Veiculo  *Veiculo           `gorm:"foreignKey:VeiculoID"`
	Vendedor *Usuario           `gorm:"foreignKey:VendedorID"`
}

func (OrdemServico) TableName() string { return "ordens_servico" }

// RecalcularTotais recomputes the order totals from its items.
// ValorTotal never goes below zero.
func (o *OrdemServico) RecalcularTotais() {
	pecas := decimal.Zero
	servicos := decimal.Zero
	for _, it := range o.Itens {
		switch it.Tipo {
		case ItemPeca:
			pecas = pecas.Add(it.Total)
		case ItemServico:
			servicos = servicos.Add(it.Total)
		}
	}
	o.TotalPecas = pecas
	o.TotalServicos = servicos
	total := pecas.Add(servicos).Sub(o.Desconto)
	if total.IsNegative() {
		total = decimal.Zero
	}
	o.ValorTotal = total
}

// TipoItem: "PECA" | "SERVICO"
type TipoItem string

const (
	ItemPeca    TipoItem = "PECA"
	ItemServico TipoItem = "SERVICO"
)

// OrdemServicoItem is one line of an order. PecaID links PECA lines to the
// inventory; only linked lines move stock.
type OrdemServicoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdemServicoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo           TipoItem        `gorm:"type:varchar(10);not null"`
	Descricao      string          `gorm:"not null"`
	Quantidade     int             `gorm:"not null"`
	PrecoUnitario  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescontoPct    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PecaID         *uuid.UUID      `gorm:"type:uuid;index"`
	ServicoID      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time

	Peca *Peca `gorm:"foreignKey:PecaID"`
}

func (OrdemServicoItem) TableName() string { return "ordem_servico_itens" }

// CalcularTotal applies the per-item percentage discount:
// Quantidade × PrecoUnitario × (1 − DescontoPct/100), rounded to cents.
func (i *OrdemServicoItem) CalcularTotal() {
	bruto := i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade)))
	fator := decimal.NewFromInt(1).Sub(i.DescontoPct.Div(decimal.NewFromInt(100)))
	i.Total = bruto.Mul(fator).Round(2)
}

// MovimentaEstoque reports whether this line is linked to a catalog part.
func (i *OrdemServicoItem) MovimentaEstoque() bool {
	return i.Tipo == ItemPeca && i.PecaID != nil
}
