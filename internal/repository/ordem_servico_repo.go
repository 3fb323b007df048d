package repository

import (
	"context"

	"malutoficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrdemFilter defines filters for listing work orders.
type OrdemFilter struct {
	Status    string
	ClienteID *uuid.UUID
	VeiculoID *uuid.UUID
	Page      int
	Limit     int
}

type OrdemServicoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.OrdemServico) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdemServico, error)
	List(ctx context.Context, filter OrdemFilter) ([]model.OrdemServico, int64, error)
	ListHistorico(ctx context.Context, ordemID uuid.UUID) ([]model.HistoricoStatus, error)

	// Used inside transactions; callers pass the tx instance.

	// FindByIDForUpdateTx locks the order row (SELECT … FOR UPDATE) and loads
	// its items. Concurrent transitions on the same order serialize here.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.OrdemServico, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status model.StatusOS) error
	UpdateVendedorTx(tx *gorm.DB, id uuid.UUID, vendedorID *uuid.UUID) error
	UpdateTotaisTx(tx *gorm.DB, o *model.OrdemServico) error
	CreateItemTx(tx *gorm.DB, item *model.OrdemServicoItem) error
	DeleteItemTx(tx *gorm.DB, ordemID, itemID uuid.UUID) error
	SoftDeleteTx(tx *gorm.DB, id uuid.UUID) error
	CreateHistoricoTx(tx *gorm.DB, h *model.HistoricoStatus) error

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ordemServicoRepo struct{ db *gorm.DB }

func NewOrdemServicoRepository(db *gorm.DB) OrdemServicoRepository {
	return &ordemServicoRepo{db: db}
}

func (r *ordemServicoRepo) DB() *gorm.DB { return r.db }

func (r *ordemServicoRepo) Create(ctx context.Context, tx *gorm.DB, o *model.OrdemServico) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *ordemServicoRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence, created by infra.NewDatabase
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('ordens_servico_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *ordemServicoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdemServico, error) {
	var o model.OrdemServico
	err := r.db.WithContext(ctx).
		Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Cliente").Preload("Veiculo").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *ordemServicoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.OrdemServico, error) {
	var o model.OrdemServico
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	err = tx.Where("ordem_servico_id = ?", id).Order("created_at ASC").Find(&o.Itens).Error
	return &o, err
}

func (r *ordemServicoRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status model.StatusOS) error {
	return tx.Model(&model.OrdemServico{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ordemServicoRepo) UpdateVendedorTx(tx *gorm.DB, id uuid.UUID, vendedorID *uuid.UUID) error {
	return tx.Model(&model.OrdemServico{}).Where("id = ?", id).Update("vendedor_id", vendedorID).Error
}

func (r *ordemServicoRepo) UpdateTotaisTx(tx *gorm.DB, o *model.OrdemServico) error {
	return tx.Model(&model.OrdemServico{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"total_pecas":    o.TotalPecas,
		"total_servicos": o.TotalServicos,
		"desconto":       o.Desconto,
		"valor_total":    o.ValorTotal,
	}).Error
}

func (r *ordemServicoRepo) CreateItemTx(tx *gorm.DB, item *model.OrdemServicoItem) error {
	return tx.Create(item).Error
}

func (r *ordemServicoRepo) DeleteItemTx(tx *gorm.DB, ordemID, itemID uuid.UUID) error {
	res := tx.Where("id = ? AND ordem_servico_id = ?", itemID, ordemID).Delete(&model.OrdemServicoItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ordemServicoRepo) SoftDeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.OrdemServico{}, "id = ?", id).Error
}

func (r *ordemServicoRepo) CreateHistoricoTx(tx *gorm.DB, h *model.HistoricoStatus) error {
	return tx.Create(h).Error
}

func (r *ordemServicoRepo) List(ctx context.Context, filter OrdemFilter) ([]model.OrdemServico, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.OrdemServico{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClienteID != nil {
		q = q.Where("cliente_id = ?", *filter.ClienteID)
	}
	if filter.VeiculoID != nil {
		q = q.Where("veiculo_id = ?", *filter.VeiculoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit, 50, 200)
	var ordens []model.OrdemServico
	err := q.Preload("Itens").Preload("Cliente").Preload("Veiculo").
		Order("numero DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&ordens).Error
	return ordens, total, err
}

func (r *ordemServicoRepo) ListHistorico(ctx context.Context, ordemID uuid.UUID) ([]model.HistoricoStatus, error) {
	var hs []model.HistoricoStatus
	err := r.db.WithContext(ctx).Preload("Usuario").
		Where("ordem_servico_id = ?", ordemID).
		Order("created_at ASC").Find(&hs).Error
	return hs, err
}

// normalizePage clamps page/limit query values.
func normalizePage(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}
