package repository

import (
	"context"

	"malutoficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServicoRepository interface {
	Create(ctx context.Context, s *model.ServicoCatalogo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServicoCatalogo, error)
	List(ctx context.Context, incluirInativos bool) ([]model.ServicoCatalogo, error)
	Update(ctx context.Context, s *model.ServicoCatalogo) error
}

type servicoRepo struct{ db *gorm.DB }

func NewServicoRepository(db *gorm.DB) ServicoRepository { return &servicoRepo{db: db} }

func (r *servicoRepo) Create(ctx context.Context, s *model.ServicoCatalogo) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *servicoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ServicoCatalogo, error) {
	var s model.ServicoCatalogo
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *servicoRepo) List(ctx context.Context, incluirInativos bool) ([]model.ServicoCatalogo, error) {
	var out []model.ServicoCatalogo
	q := r.db.WithContext(ctx)
	if !incluirInativos {
		q = q.Where("ativo = true")
	}
	err := q.Order("nome ASC").Find(&out).Error
	return out, err
}

func (r *servicoRepo) Update(ctx context.Context, s *model.ServicoCatalogo) error {
	return r.db.WithContext(ctx).Save(s).Error
}
