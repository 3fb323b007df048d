package repository

import (
	"context"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, c *model.Cliente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Preload("Veiculos").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if filter.Busca != "" {
		like := "%" + filter.Busca + "%"
		q = q.Where("nome ILIKE ? OR documento LIKE ? OR telefone LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit, 50, 200)
	var out []model.Cliente
	err := q.Order("nome ASC").Offset((page - 1) * limit).Limit(limit).Find(&out).Error
	return out, total, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Omit("Veiculos").Save(c).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Cliente{}, "id = ?", id).Error
}

type VeiculoRepository interface {
	Create(ctx context.Context, v *model.Veiculo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Veiculo, error)
	FindByPlaca(ctx context.Context, placa string) (*model.Veiculo, error)
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Veiculo, error)
	Update(ctx context.Context, v *model.Veiculo) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type veiculoRepo struct{ db *gorm.DB }

func NewVeiculoRepository(db *gorm.DB) VeiculoRepository { return &veiculoRepo{db: db} }

func (r *veiculoRepo) Create(ctx context.Context, v *model.Veiculo) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *veiculoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Veiculo, error) {
	var v model.Veiculo
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *veiculoRepo) FindByPlaca(ctx context.Context, placa string) (*model.Veiculo, error) {
	var v model.Veiculo
	err := r.db.WithContext(ctx).Where("placa = ?", placa).First(&v).Error
	return &v, err
}

func (r *veiculoRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Veiculo, error) {
	var out []model.Veiculo
	err := r.db.WithContext(ctx).Where("cliente_id = ?", clienteID).Order("placa ASC").Find(&out).Error
	return out, err
}

func (r *veiculoRepo) Update(ctx context.Context, v *model.Veiculo) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *veiculoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Veiculo{}, "id = ?", id).Error
}
