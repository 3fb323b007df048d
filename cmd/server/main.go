package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"malutoficina/internal/config"
	"malutoficina/internal/infra"
	"malutoficina/internal/repository"
	"malutoficina/internal/router"
	"malutoficina/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background side of the outbox: relay → queues → worker pool, plus the
	// billing retry cron. Everything stops when ctx is cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	breaker := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	faturamentoClient := infra.NewFaturamentoClient(cfg.FaturamentoURL, cfg.FaturamentoToken, breaker)
	whatsapp := infra.NewWhatsAppClient(cfg.WhatsAppURL)
	mailer := infra.NewMailer(cfg)

	ordemRepo := repository.NewOrdemServicoRepository(db)
	cobrancaRepo := repository.NewCobrancaRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	dispatcher := worker.NewDispatcher(rdb)
	faturamentoWorker := worker.NewFaturamentoWorker(faturamentoClient, ordemRepo, cobrancaRepo, dispatcher,
		cfg.NomeOficina, cfg.PDFStoragePath)

	var faturamentoJobs worker.JobHandler
	if faturamentoClient.Habilitado() {
		faturamentoJobs = faturamentoWorker
	} else {
		dispatcher.DesativarFaturamento()
		log.Warn().Msg("FATURAMENTO_URL not set, invoicing jobs disabled")
	}
	pool := worker.NewPool(rdb, dispatcher,
		faturamentoJobs,
		worker.NewNotificacaoWorker(whatsapp, ordemRepo, cfg.NomeOficina),
		worker.NewEmailWorker(mailer),
	)
	pool.Start(ctx, cfg.WorkerPoolSize)
	worker.NewOutboxRelay(outboxRepo, dispatcher).Start(ctx)
	if faturamentoClient.Habilitado() {
		worker.StartRetryCron(ctx, worker.RetryCronConfig{
			CobrancaRepo: cobrancaRepo,
			Worker:       faturamentoWorker,
			CB:           breaker,
			RDB:          rdb,
		})
	}
	if whatsapp.Habilitado() {
		go probeWhatsApp(ctx, whatsapp)
	}

	r, err := router.New(cfg, db, rdb, router.Integracoes{
		Faturamento:   faturamentoWorker,
		WhatsApp:      whatsapp,
		FaturamentoCB: breaker,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("%s backend listening on :%d", cfg.NomeOficina, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev gets a pretty console, production JSON.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// probeWhatsApp refreshes the gateway state every minute so /health and
// /v1/whatsapp/status reflect it without a client-triggered probe.
func probeWhatsApp(ctx context.Context, wa *infra.WhatsAppClient) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		if _, err := wa.Verificar(ctx); err != nil {
			log.Debug().Err(err).Msg("whatsapp probe failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
