package repository

import (
	"context"

	"malutoficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimentoFilter defines filters for listing stock movements.
type MovimentoFilter struct {
	PecaID  *uuid.UUID
	OrdemID *uuid.UUID
	Tipo    string
	Page    int
	Limit   int
}

// MovimentoEstoqueRepository is append-only: movements are never updated
// or deleted, a reversal is a new ENTRADA row.
type MovimentoEstoqueRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimentoEstoque) error
	List(ctx context.Context, filter MovimentoFilter) ([]model.MovimentoEstoque, int64, error)
}

type movimentoEstoqueRepo struct{ db *gorm.DB }

func NewMovimentoEstoqueRepository(db *gorm.DB) MovimentoEstoqueRepository {
	return &movimentoEstoqueRepo{db: db}
}

func (r *movimentoEstoqueRepo) CreateTx(tx *gorm.DB, m *model.MovimentoEstoque) error {
	return tx.Create(m).Error
}

func (r *movimentoEstoqueRepo) List(ctx context.Context, filter MovimentoFilter) ([]model.MovimentoEstoque, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimentoEstoque{}).
		Preload("Peca")
	if filter.PecaID != nil {
		q = q.Where("peca_id = ?", *filter.PecaID)
	}
	if filter.OrdemID != nil {
		q = q.Where("ordem_servico_id = ?", *filter.OrdemID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit, 100, 500)
	var movimentos []model.MovimentoEstoque
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&movimentos).Error
	return movimentos, total, err
}
