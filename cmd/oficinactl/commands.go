package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"malutoficina/internal/config"
	"malutoficina/internal/infra"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"
	"malutoficina/internal/service"
	"malutoficina/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedUsername string
	seedSenha    string
	seedNome     string
	seedRol      string

	dlqFila   string
	dlqLimite int64
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica migrações e patches de schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// NewDatabase already migrates
		if _, err := infra.NewDatabase(cfg.DatabaseURL); err != nil {
			return err
		}
		log.Info().Msg("schema atualizado")
		return nil
	},
}

var seedUserCmd = &cobra.Command{
	Use:   "seed-user",
	Short: "Cria ou redefine a senha de um usuário",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(seedSenha) < 8 {
			return errors.New("--senha deve ter ao menos 8 caracteres")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		hash, err := service.HashPassword(seedSenha)
		if err != nil {
			return err
		}

		ctx := context.Background()
		repo := repository.NewUsuarioRepository(db)
		u, err := repo.FindByUsername(ctx, seedUsername)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			u = &model.Usuario{Username: seedUsername, Nome: seedNome, PasswordHash: hash, Rol: seedRol, Ativo: true}
			if err := repo.Create(ctx, u); err != nil {
				return err
			}
			log.Info().Str("username", seedUsername).Str("rol", seedRol).Msg("usuário criado")
		case err != nil:
			return err
		default:
			u.PasswordHash = hash
			u.Rol = seedRol
			u.Ativo = true
			if err := repo.Update(ctx, u); err != nil {
				return err
			}
			log.Info().Str("username", seedUsername).Msg("senha redefinida")
		}
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <senha>",
	Short: "Imprime o hash bcrypt de uma senha",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := service.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Lista os jobs parados nas dead letter queues",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		filas := worker.FilasDLQ
		if dlqFila != "" {
			filas = []string{dlqFila}
		}
		return imprimirDLQ(cmd.Context(), cmd.OutOrStdout(), rdb, filas, dlqLimite)
	},
}

func imprimirDLQ(ctx context.Context, out io.Writer, rdb *redis.Client, filas []string, limite int64) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, fila := range filas {
		n, err := worker.DLQLength(ctx, rdb, fila)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d job(s)\n", fila, n)
		if n == 0 {
			continue
		}
		falhas, err := worker.ListarDLQ(ctx, rdb, fila, limite)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "  FALHOU EM\tORDEM\tCOBRANÇA\tTENTATIVAS\tMOTIVO")
		for _, f := range falhas {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%s\n",
				f.FalhouEm.Local().Format("02/01/2006 15:04"),
				vazioComoTraco(f.OrdemID), vazioComoTraco(f.CobrancaID),
				f.Tentativas, f.Motivo)
		}
	}
	return tw.Flush()
}

func vazioComoTraco(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	seedUserCmd.Flags().StringVar(&seedUsername, "username", "admin", "Login do usuário")
	seedUserCmd.Flags().StringVar(&seedSenha, "senha", "", "Senha (mínimo 8 caracteres)")
	seedUserCmd.Flags().StringVar(&seedNome, "nome", "Administrador", "Nome exibido")
	seedUserCmd.Flags().StringVar(&seedRol, "rol", model.RolAdmin, "Papel: admin, gerente, atendente, mecanico, financeiro")
	_ = seedUserCmd.MarkFlagRequired("senha")

	dlqCmd.Flags().StringVar(&dlqFila, "fila", "", "Mostra só esta fila (ex.: jobs:faturamento)")
	dlqCmd.Flags().Int64Var(&dlqLimite, "limite", 20, "Máximo de jobs listados por fila")

	rootCmd.AddCommand(migrateCmd, seedUserCmd, hashPasswordCmd, dlqCmd)
}
