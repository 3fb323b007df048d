package infra

import (
	"fmt"

	"malutoficina/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection (pgx under the hood) and brings the
// schema up to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations runs AutoMigrate for every model followed by the idempotent
// SQL patches GORM cannot express. Used by the server, `oficinactl migrate`
// and the integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("extension pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Veiculo{},
		&model.Peca{},
		&model.ServicoCatalogo{},
		&model.OrdemServico{},
		&model.OrdemServicoItem{},
		&model.HistoricoStatus{},
		&model.MovimentoEstoque{},
		&model.LancamentoFinanceiro{},
		&model.OutboxEvento{},
		&model.CobrancaExterna{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle
// (sequences, partial indexes). Safe to re-run.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"sequence ordens_servico_numero_seq",
			`CREATE SEQUENCE IF NOT EXISTS ordens_servico_numero_seq START 1`},
		// Keeps the sequence ahead of rows imported with explicit numbers.
		{"sync ordens_servico_numero_seq", `
SELECT setval('ordens_servico_numero_seq',
              GREATEST((SELECT COALESCE(MAX(numero), 0) FROM ordens_servico), 1),
              (SELECT COUNT(*) > 0 FROM ordens_servico))`},
		// At most one RECEITA per work order, even under concurrent finalize.
		{"unique receita per ordem", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_lancamentos_receita_ordem
    ON lancamentos_financeiros (ordem_servico_id)
    WHERE tipo = 'RECEITA' AND ordem_servico_id IS NOT NULL`},
		{"retry cron index", `
CREATE INDEX IF NOT EXISTS idx_cobrancas_pending_retry
    ON cobrancas_externas (next_retry_at)
    WHERE estado = 'erro' AND next_retry_at IS NOT NULL`},
		{"outbox pending index", `
CREATE INDEX IF NOT EXISTS idx_outbox_pendentes
    ON outbox_eventos (created_at)
    WHERE estado = 'pendente'`},
		{"positive movement quantity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_movimentos_quantidade_positiva') THEN
    ALTER TABLE movimentos_estoque
      ADD CONSTRAINT chk_movimentos_quantidade_positiva CHECK (quantidade > 0);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
