package repository

import (
	"context"
	"time"

	"malutoficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CobrancaRepository interface {
	Create(ctx context.Context, c *model.CobrancaExterna) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CobrancaExterna, error)
	// FindByOrdemID returns the most recent charge of an order.
	FindByOrdemID(ctx context.Context, ordemID uuid.UUID) (*model.CobrancaExterna, error)
	Update(ctx context.Context, c *model.CobrancaExterna) error
	// ListPendingRetries returns charges in "erro" whose next_retry_at has passed.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.CobrancaExterna, error)
}

type cobrancaRepo struct{ db *gorm.DB }

func NewCobrancaRepository(db *gorm.DB) CobrancaRepository {
	return &cobrancaRepo{db: db}
}

func (r *cobrancaRepo) Create(ctx context.Context, c *model.CobrancaExterna) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cobrancaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CobrancaExterna, error) {
	var c model.CobrancaExterna
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cobrancaRepo) FindByOrdemID(ctx context.Context, ordemID uuid.UUID) (*model.CobrancaExterna, error) {
	var c model.CobrancaExterna
	err := r.db.WithContext(ctx).Where("ordem_servico_id = ?", ordemID).
		Order("created_at DESC").First(&c).Error
	return &c, err
}

func (r *cobrancaRepo) Update(ctx context.Context, c *model.CobrancaExterna) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cobrancaRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.CobrancaExterna, error) {
	var out []model.CobrancaExterna
	err := r.db.WithContext(ctx).
		Where("estado = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", "erro", now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
