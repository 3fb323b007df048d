package repository

import (
	"context"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PecaRepository defines the data access contract for parts.
// Services depend on this interface, not on the concrete GORM implementation,
// so unit tests can swap in an in-memory stub.
type PecaRepository interface {
	Create(ctx context.Context, p *model.Peca) error
	CreateTx(tx *gorm.DB, p *model.Peca) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Peca, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Peca, error)
	List(ctx context.Context, filter dto.PecaFilter) ([]model.Peca, int64, error)
	Update(ctx context.Context, p *model.Peca) error
	// UpdateCatalogoTx writes catalog fields only, never estoque.
	UpdateCatalogoTx(tx *gorm.DB, p *model.Peca) error
	ListAbaixoMinimo(ctx context.Context) ([]model.Peca, error)

	// FindByIDForUpdateTx locks the part row so EstoqueAnterior is read
	// consistently with the following UpdateEstoqueTx.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Peca, error)
	// UpdateEstoqueTx applies estoque = estoque + delta.
	UpdateEstoqueTx(tx *gorm.DB, id uuid.UUID, delta int) error

	DB() *gorm.DB
}

type pecaRepo struct{ db *gorm.DB }

func NewPecaRepository(db *gorm.DB) PecaRepository { return &pecaRepo{db: db} }

func (r *pecaRepo) DB() *gorm.DB { return r.db }

func (r *pecaRepo) Create(ctx context.Context, p *model.Peca) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pecaRepo) CreateTx(tx *gorm.DB, p *model.Peca) error {
	return tx.Create(p).Error
}

func (r *pecaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Peca, error) {
	var p model.Peca
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pecaRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Peca, error) {
	var p model.Peca
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error
	return &p, err
}

func (r *pecaRepo) List(ctx context.Context, filter dto.PecaFilter) ([]model.Peca, int64, error) {
	var pecas []model.Peca
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Peca{})

	// Ativo filter: "false" = inactive, "all" = everything, anything else = active (default)
	switch filter.Ativo {
	case "false":
		q = q.Where("ativo = false")
	case "all":
	default:
		q = q.Where("ativo = true")
	}
	if filter.Codigo != "" {
		q = q.Where("codigo = ?", filter.Codigo)
	}
	if filter.Nome != "" {
		q = q.Where("nome ILIKE ?", "%"+filter.Nome+"%")
	}
	if filter.AbaixoMinimo {
		q = q.Where("estoque <= estoque_minimo")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit, 50, 500)
	err := q.Order("nome ASC").Limit(limit).Offset((page - 1) * limit).Find(&pecas).Error
	return pecas, total, err
}

func (r *pecaRepo) Update(ctx context.Context, p *model.Peca) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pecaRepo) ListAbaixoMinimo(ctx context.Context) ([]model.Peca, error) {
	var pecas []model.Peca
	err := r.db.WithContext(ctx).
		Where("ativo = true AND estoque <= estoque_minimo").
		Order("estoque - estoque_minimo ASC").
		Find(&pecas).Error
	return pecas, err
}

func (r *pecaRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Peca, error) {
	var p model.Peca
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pecaRepo) UpdateEstoqueTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Peca{}).Where("id = ?", id).
		Update("estoque", gorm.Expr("estoque + ?", delta)).Error
}

func (r *pecaRepo) UpdateCatalogoTx(tx *gorm.DB, p *model.Peca) error {
	return tx.Model(&model.Peca{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"nome":           p.Nome,
		"preco_custo":    p.PrecoCusto,
		"preco_venda":    p.PrecoVenda,
		"estoque_minimo": p.EstoqueMinimo,
		"ativo":          p.Ativo,
	}).Error
}
