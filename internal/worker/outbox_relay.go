package worker

import (
	"context"
	"time"

	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/rs/zerolog/log"
)

// Publicador hands a committed event to the async side.
type Publicador interface {
	Publicar(ctx context.Context, e model.OutboxEvento) error
}

// OutboxRelay polls outbox_eventos and publishes pending rows. Delivery is
// at-least-once: a crash between Publicar and MarcarEnviado republishes.
type OutboxRelay struct {
	repo      repository.OutboxRepository
	pub       Publicador
	intervalo time.Duration
	lote      int
}

func NewOutboxRelay(repo repository.OutboxRepository, pub Publicador) *OutboxRelay {
	return &OutboxRelay{repo: repo, pub: pub, intervalo: 2 * time.Second, lote: 50}
}

// Start runs the relay until ctx is cancelled.
func (r *OutboxRelay) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.intervalo)
		defer ticker.Stop()
		log.Info().Msg("outbox_relay: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("outbox_relay: shutting down")
				return
			case <-ticker.C:
				if _, err := r.ProcessarLote(ctx); err != nil {
					log.Error().Err(err).Msg("outbox_relay: batch failed")
				}
			}
		}
	}()
}

// ProcessarLote publishes one batch and returns how many events were sent.
func (r *OutboxRelay) ProcessarLote(ctx context.Context) (int, error) {
	eventos, err := r.repo.ListPendentes(ctx, r.lote)
	if err != nil {
		return 0, err
	}
	enviados := 0
	for _, e := range eventos {
		if err := r.pub.Publicar(ctx, e); err != nil {
			log.Warn().Err(err).Str("evento_id", e.ID.String()).Str("tipo", e.Tipo).Msg("outbox_relay: publish failed")
			if ferr := r.repo.RegistrarFalha(ctx, e.ID, err.Error()); ferr != nil {
				log.Error().Err(ferr).Msg("outbox_relay: failed to record failure")
			}
			continue
		}
		if err := r.repo.MarcarEnviado(ctx, e.ID); err != nil {
			log.Error().Err(err).Str("evento_id", e.ID.String()).Msg("outbox_relay: failed to mark sent")
			continue
		}
		enviados++
	}
	return enviados, nil
}
