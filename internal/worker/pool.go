package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"malutoficina/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueFaturamento = "jobs:faturamento"
	QueueNotificacao = "jobs:notificacao"
	QueueEmail       = "jobs:email"
)

const (
	JobFaturamento = "faturamento"
	JobNotificacao = "notificacao"
	JobEmail       = "email"
)

// MaxJobAttempts is how many times a failing job is run before it is moved
// to the dead letter queue.
const MaxJobAttempts = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// JobHandler processes one job payload. A returned error schedules a retry.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
	// semFaturamento drops billing jobs; set when no billing system is configured.
	semFaturamento bool
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// DesativarFaturamento stops Publicar from queueing billing jobs.
func (d *Dispatcher) DesativarFaturamento() {
	d.semFaturamento = true
}

func (d *Dispatcher) EnqueueFaturamento(ctx context.Context, payload FaturamentoJobPayload) error {
	return d.enqueue(ctx, QueueFaturamento, JobFaturamento, payload)
}

func (d *Dispatcher) EnqueueNotificacao(ctx context.Context, payload NotificacaoJobPayload) error {
	return d.enqueue(ctx, QueueNotificacao, JobNotificacao, payload)
}

func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

// Publicar turns a committed outbox event into queue jobs. It satisfies the
// Publicador contract of the OutboxRelay.
func (d *Dispatcher) Publicar(ctx context.Context, e model.OutboxEvento) error {
	var p struct {
		OrdemID         string `json:"ordem_id"`
		MetodoPagamento string `json:"metodo_pagamento"`
	}
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return fmt.Errorf("outbox payload: %w", err)
	}
	switch e.Tipo {
	case model.EventoOSFinalizada:
		if !d.semFaturamento {
			if err := d.EnqueueFaturamento(ctx, FaturamentoJobPayload{
				OrdemID:         p.OrdemID,
				MetodoPagamento: p.MetodoPagamento,
				GerarBoleto:     p.MetodoPagamento == model.MetodoBoleto,
			}); err != nil {
				return err
			}
		}
		return d.EnqueueNotificacao(ctx, NotificacaoJobPayload{OrdemID: p.OrdemID, Evento: e.Tipo})
	case model.EventoOSReaberta:
		return d.EnqueueNotificacao(ctx, NotificacaoJobPayload{OrdemID: p.OrdemID, Evento: e.Tipo})
	default:
		log.Warn().Str("tipo", e.Tipo).Msg("dispatcher: outbox event without route, dropped")
		return nil
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.push(ctx, queue, Job{Type: jobType, Payload: data})
}

func (d *Dispatcher) push(ctx context.Context, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb        *redis.Client
	dispatcher *Dispatcher
	handlers   map[string]JobHandler
	queues     map[string]string // job type → queue
}

// NewPool wires one handler per job type. Nil handlers are skipped, their
// queue is not consumed.
func NewPool(rdb *redis.Client, dispatcher *Dispatcher, faturamento, notificacao, email JobHandler) *Pool {
	p := &Pool{
		rdb:        rdb,
		dispatcher: dispatcher,
		handlers:   map[string]JobHandler{},
		queues:     map[string]string{},
	}
	p.register(JobFaturamento, QueueFaturamento, faturamento)
	p.register(JobNotificacao, QueueNotificacao, notificacao)
	p.register(JobEmail, QueueEmail, email)
	return p
}

func (p *Pool) register(jobType, queue string, h JobHandler) {
	if h == nil {
		return
	}
	p.handlers[jobType] = h
	p.queues[jobType] = queue
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, zero CPU when
// idle, and exits when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	queues := make([]string, 0, len(p.queues))
	for _, q := range p.queues {
		queues = append(queues, q)
	}
	if len(queues) == 0 {
		log.Warn().Msg("worker pool: no handlers registered")
		return
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i, queues)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", queues).Msg("worker pool started")
}

func (p *Pool) run(ctx context.Context, id int, queues []string) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			p.handle(ctx, result[0], result[1])
		}
	}
}

// handle runs one raw job and decides its fate: done, requeued, or DLQ.
func (p *Pool) handle(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler for job type", job.Attempts)
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	job.Attempts++
	if job.Attempts >= MaxJobAttempts {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().Err(err).
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Msg("job failed, requeueing")
	if err := p.dispatcher.push(ctx, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("requeue failed")
	}
}
