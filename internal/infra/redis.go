package infra

import (
	"context"
	"encoding/json"
	"time"

	"malutoficina/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

const (
	chaveAlertasEstoque = "estoque:alertas"
	ttlAlertasEstoque   = 60 * time.Second
)

// AlertaCache stores the low-stock alert list in Redis. A nil client or any
// Redis error behaves as a cache miss.
type AlertaCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAlertaCache(rdb *redis.Client) *AlertaCache {
	return &AlertaCache{rdb: rdb, ttl: ttlAlertasEstoque}
}

func (c *AlertaCache) Alertas(ctx context.Context) ([]dto.AlertaEstoqueResponse, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, chaveAlertasEstoque).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("alerta_cache: get failed")
		}
		return nil, false
	}
	var out []dto.AlertaEstoqueResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *AlertaCache) SalvarAlertas(ctx context.Context, alertas []dto.AlertaEstoqueResponse) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(alertas)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, chaveAlertasEstoque, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("alerta_cache: set failed")
	}
}

func (c *AlertaCache) Invalidar(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, chaveAlertasEstoque).Err(); err != nil {
		log.Warn().Err(err).Msg("alerta_cache: del failed")
	}
}
