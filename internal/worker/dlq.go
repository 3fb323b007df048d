package worker

// dlq.go
// Jobs the shop could not complete (billing charges past their retry budget,
// notifications that kept failing) are parked per source queue under
// dlq:{queue}. Each entry names the work order it belongs to so the operator
// can follow up with `oficinactl dlq`.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// FilasDLQ lists every queue that may feed a dead letter queue.
var FilasDLQ = []string{QueueFaturamento, QueueNotificacao, QueueEmail}

// FalhaJob is one parked job.
type FalhaJob struct {
	Fila       string          `json:"fila"`
	Tipo       string          `json:"tipo"`
	OrdemID    string          `json:"ordem_id,omitempty"`
	CobrancaID string          `json:"cobranca_id,omitempty"`
	Motivo     string          `json:"motivo"`
	Tentativas int             `json:"tentativas"`
	FalhouEm   time.Time       `json:"falhou_em"`
	Payload    json.RawMessage `json:"payload"`
}

// novaFalhaJob builds the entry, lifting ordem_id and cobranca_id out of the
// job payload when present.
func novaFalhaJob(fila, tipo string, payload json.RawMessage, motivo string, tentativas int, agora time.Time) FalhaJob {
	f := FalhaJob{
		Fila:       fila,
		Tipo:       tipo,
		Motivo:     motivo,
		Tentativas: tentativas,
		FalhouEm:   agora.UTC(),
		Payload:    payload,
	}
	var ids struct {
		OrdemID    string `json:"ordem_id"`
		CobrancaID string `json:"cobranca_id"`
	}
	if json.Unmarshal(payload, &ids) == nil {
		f.OrdemID = ids.OrdemID
		f.CobrancaID = ids.CobrancaID
	}
	return f
}

// SendToDLQ parks a failed job. Errors are only logged.
func SendToDLQ(ctx context.Context, rdb *redis.Client, fila, tipo string, payload json.RawMessage, motivo string, tentativas int) {
	f := novaFalhaJob(fila, tipo, payload, motivo, tentativas, time.Now())
	data, err := json.Marshal(f)
	if err != nil {
		log.Error().Err(err).Str("fila", fila).Msg("dlq: failed to marshal entry")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+fila, data).Err(); err != nil {
		log.Error().Err(err).Str("fila", fila).Str("ordem_id", f.OrdemID).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("fila", fila).
		Str("tipo", tipo).
		Str("ordem_id", f.OrdemID).
		Str("cobranca_id", f.CobrancaID).
		Str("motivo", motivo).
		Int("tentativas", tentativas).
		Msg("dlq: job parked")
}

// ListarDLQ returns up to limite entries of one queue, newest first.
// Entries that no longer decode are skipped.
func ListarDLQ(ctx context.Context, rdb *redis.Client, fila string, limite int64) ([]FalhaJob, error) {
	if limite < 1 {
		limite = 50
	}
	raws, err := rdb.LRange(ctx, DLQPrefix+fila, 0, limite-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]FalhaJob, 0, len(raws))
	for _, raw := range raws {
		var f FalhaJob
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			log.Warn().Err(err).Str("fila", fila).Msg("dlq: unreadable entry")
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func DLQLength(ctx context.Context, rdb *redis.Client, fila string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+fila).Result()
}
