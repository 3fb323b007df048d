package worker

// retry_cron.go
// Background goroutine that periodically re-attempts billing calls for
// charges stuck in estado='erro' with a next_retry_at in the past.
// Uses the Circuit Breaker to avoid hammering a downed upstream.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"malutoficina/internal/infra"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// Reenviador re-sends a failed charge. Implemented by FaturamentoWorker.
type Reenviador interface {
	Reenviar(ctx context.Context, cob *model.CobrancaExterna) error
}

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	CobrancaRepo repository.CobrancaRepository
	Worker       Reenviador
	CB           *infra.CircuitBreaker
	RDB          *redis.Client
	Now          func() time.Time
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// re-attempts failed charges through the CB. It stops when ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	if cfg.CB != nil && !cfg.CB.Permite() {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	cobrancas, err := cfg.CobrancaRepo.ListPendingRetries(ctx, cfg.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(cobrancas) == 0 {
		return
	}

	log.Info().Int("count", len(cobrancas)).Msg("retry_cron: processing failed charges")

	for i := range cobrancas {
		cob := &cobrancas[i]

		// The breaker may have tripped mid-batch
		if cfg.CB != nil && !cfg.CB.Permite() {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		if err := cfg.Worker.Reenviar(ctx, cob); err != nil {
			agendarProximaTentativa(ctx, cfg, cob, err)
		} else {
			log.Info().
				Str("cobranca_id", cob.ID.String()).
				Int("total_retries", cob.RetryCount).
				Msg("retry_cron: charge emitted after retry")
		}
		if err := cfg.CobrancaRepo.Update(ctx, cob); err != nil {
			log.Error().Err(err).Str("cobranca_id", cob.ID.String()).Msg("retry_cron: failed to persist charge")
		}
	}
}

func agendarProximaTentativa(ctx context.Context, cfg RetryCronConfig, cob *model.CobrancaExterna, cause error) {
	cob.RetryCount++
	msg := cause.Error()
	cob.LastError = &msg
	cob.Estado = CobrancaErro
	next := cfg.Now().Add(computeRetryBackoff(cob.RetryCount))
	cob.NextRetryAt = &next

	if cob.RetryCount < MaxCobrancaRetries {
		log.Warn().
			Str("cobranca_id", cob.ID.String()).
			Int("retry_count", cob.RetryCount).
			Time("next_retry_at", next).
			Msg("retry_cron: billing retry failed, scheduled next attempt")
		return
	}

	cob.NextRetryAt = nil
	log.Error().
		Str("cobranca_id", cob.ID.String()).
		Str("ordem_id", cob.OrdemServicoID.String()).
		Int("retries", cob.RetryCount).
		Msg("retry_cron: max retries exceeded, moving to DLQ")
	if cfg.RDB == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{
		"ordem_id":    cob.OrdemServicoID.String(),
		"cobranca_id": cob.ID.String(),
	})
	SendToDLQ(ctx, cfg.RDB, QueueFaturamento, JobFaturamento, payload,
		fmt.Sprintf("max retries (%d) exceeded: %s", MaxCobrancaRetries, msg),
		cob.RetryCount)
}
