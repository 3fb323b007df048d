package repository

import (
	"context"
	"time"

	"malutoficina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxLancamentosPorPagina is the largest page List returns.
const MaxLancamentosPorPagina = 5000

// LancamentoFilter defines filters for listing ledger entries.
// Desde/Ate bound created_at; Ate is exclusive.
type LancamentoFilter struct {
	Tipo    string
	Status  string
	OrdemID *uuid.UUID
	Desde   *time.Time
	Ate     *time.Time
	Page    int
	Limit   int
}

// LinhaResumo is one (tipo, status) aggregate of the ledger.
type LinhaResumo struct {
	Tipo       string
	Status     string
	Valor      decimal.Decimal
	ValorCusto decimal.Decimal
}

type LancamentoRepository interface {
	Create(ctx context.Context, l *model.LancamentoFinanceiro) error
	CreateTx(tx *gorm.DB, l *model.LancamentoFinanceiro) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LancamentoFinanceiro, error)
	// FindReceitaByOrdemTx returns gorm.ErrRecordNotFound when the order was
	// never billed.
	FindReceitaByOrdemTx(tx *gorm.DB, ordemID uuid.UUID) (*model.LancamentoFinanceiro, error)
	List(ctx context.Context, filter LancamentoFilter) ([]model.LancamentoFinanceiro, int64, error)
	Update(ctx context.Context, l *model.LancamentoFinanceiro) error
	Resumo(ctx context.Context, desde, ate time.Time) ([]LinhaResumo, error)
}

type lancamentoRepo struct{ db *gorm.DB }

func NewLancamentoRepository(db *gorm.DB) LancamentoRepository { return &lancamentoRepo{db: db} }

func (r *lancamentoRepo) Create(ctx context.Context, l *model.LancamentoFinanceiro) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lancamentoRepo) CreateTx(tx *gorm.DB, l *model.LancamentoFinanceiro) error {
	return tx.Create(l).Error
}

func (r *lancamentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LancamentoFinanceiro, error) {
	var l model.LancamentoFinanceiro
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *lancamentoRepo) FindReceitaByOrdemTx(tx *gorm.DB, ordemID uuid.UUID) (*model.LancamentoFinanceiro, error) {
	var l model.LancamentoFinanceiro
	err := tx.Where("ordem_servico_id = ? AND tipo = ?", ordemID, model.LancamentoReceita).First(&l).Error
	return &l, err
}

func (r *lancamentoRepo) List(ctx context.Context, filter LancamentoFilter) ([]model.LancamentoFinanceiro, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LancamentoFinanceiro{})
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.OrdemID != nil {
		q = q.Where("ordem_servico_id = ?", *filter.OrdemID)
	}
	if filter.Desde != nil {
		q = q.Where("created_at >= ?", *filter.Desde)
	}
	if filter.Ate != nil {
		q = q.Where("created_at < ?", *filter.Ate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit, 100, MaxLancamentosPorPagina)
	var out []model.LancamentoFinanceiro
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&out).Error
	return out, total, err
}

func (r *lancamentoRepo) Update(ctx context.Context, l *model.LancamentoFinanceiro) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *lancamentoRepo) Resumo(ctx context.Context, desde, ate time.Time) ([]LinhaResumo, error) {
	var linhas []LinhaResumo
	err := r.db.WithContext(ctx).Model(&model.LancamentoFinanceiro{}).
		Select("tipo, status, COALESCE(SUM(valor), 0) AS valor, COALESCE(SUM(valor_custo), 0) AS valor_custo").
		Where("created_at >= ? AND created_at < ?", desde, ate).
		Group("tipo, status").
		Scan(&linhas).Error
	return linhas, err
}
