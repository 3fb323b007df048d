package repository

import (
	"context"
	"time"

	"malutoficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutboxRepository persists events written in the same transaction as the
// state change that produced them.
type OutboxRepository interface {
	CreateTx(tx *gorm.DB, e *model.OutboxEvento) error
	ListPendentes(ctx context.Context, limit int) ([]model.OutboxEvento, error)
	MarcarEnviado(ctx context.Context, id uuid.UUID) error
	RegistrarFalha(ctx context.Context, id uuid.UUID, msg string) error
}

type outboxRepo struct{ db *gorm.DB }

func NewOutboxRepository(db *gorm.DB) OutboxRepository { return &outboxRepo{db: db} }

func (r *outboxRepo) CreateTx(tx *gorm.DB, e *model.OutboxEvento) error {
	return tx.Create(e).Error
}

func (r *outboxRepo) ListPendentes(ctx context.Context, limit int) ([]model.OutboxEvento, error) {
	var out []model.OutboxEvento
	err := r.db.WithContext(ctx).
		Where("estado = ?", "pendente").
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *outboxRepo) MarcarEnviado(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.OutboxEvento{}).Where("id = ?", id).
		Updates(map[string]interface{}{"estado": "enviado", "enviado_em": &now}).Error
}

func (r *outboxRepo) RegistrarFalha(ctx context.Context, id uuid.UUID, msg string) error {
	return r.db.WithContext(ctx).Model(&model.OutboxEvento{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"tentativas":  gorm.Expr("tentativas + 1"),
			"ultimo_erro": msg,
		}).Error
}
