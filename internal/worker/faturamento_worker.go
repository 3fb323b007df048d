package worker

// faturamento_worker.go
// Pushes finalized work orders to the external billing system. Emitir is also
// called synchronously by the billing endpoint, the queue path adds the PDF
// receipt and the e-mail job on top.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"malutoficina/internal/infra"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	CobrancaPendente = "pendente"
	CobrancaEmitida  = "emitido"
	CobrancaErro     = "erro"

	CobrancaPedido = "PEDIDO"
	CobrancaBoleto = "BOLETO"
)

// MaxCobrancaRetries bounds how often RetryCron re-sends a failed charge.
const MaxCobrancaRetries = 5

// FaturamentoJobPayload is the job envelope sent to QueueFaturamento.
type FaturamentoJobPayload struct {
	OrdemID         string `json:"ordem_id"`
	MetodoPagamento string `json:"metodo_pagamento"`
	GerarBoleto     bool   `json:"gerar_boleto"`
}

// FaturamentoWorker creates the external charge of an order.
type FaturamentoWorker struct {
	client       *infra.FaturamentoClient
	ordemRepo    repository.OrdemServicoRepository
	cobrancaRepo repository.CobrancaRepository
	dispatcher   *Dispatcher
	nomeOficina  string
	pdfPath      string
	// attempts is the in-process retry budget of a single Emitir call.
	attempts int
	now      func() time.Time
}

func NewFaturamentoWorker(
	client *infra.FaturamentoClient,
	ordemRepo repository.OrdemServicoRepository,
	cobrancaRepo repository.CobrancaRepository,
	dispatcher *Dispatcher,
	nomeOficina, pdfPath string,
) *FaturamentoWorker {
	return &FaturamentoWorker{
		client:       client,
		ordemRepo:    ordemRepo,
		cobrancaRepo: cobrancaRepo,
		dispatcher:   dispatcher,
		nomeOficina:  nomeOficina,
		pdfPath:      pdfPath,
		attempts:     3,
		now:          time.Now,
	}
}

// Process handles one job from QueueFaturamento.
func (w *FaturamentoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p FaturamentoJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("faturamento_worker: invalid payload")
		return nil
	}
	ordemID, err := uuid.Parse(p.OrdemID)
	if err != nil {
		log.Error().Str("ordem_id", p.OrdemID).Msg("faturamento_worker: invalid ordem_id")
		return nil
	}

	cob, err := w.Emitir(ctx, ordemID, p.MetodoPagamento, p.GerarBoleto)
	if err != nil {
		// The charge is already persisted in "erro"; RetryCron takes over.
		log.Warn().Err(err).Str("ordem_id", p.OrdemID).Msg("faturamento_worker: charge failed, left for retry cron")
		return nil
	}
	w.recibo(ctx, ordemID, p.MetodoPagamento, cob)
	return nil
}

// Emitir pushes the order to the billing system and records the outcome.
// An order that already has an emitted charge is returned as-is.
func (w *FaturamentoWorker) Emitir(ctx context.Context, ordemID uuid.UUID, metodo string, gerarBoleto bool) (*model.CobrancaExterna, error) {
	ordem, err := w.ordemRepo.FindByID(ctx, ordemID)
	if err != nil {
		return nil, fmt.Errorf("ordem %s: %w", ordemID, err)
	}
	if !ordem.Status.Terminal() {
		return nil, fmt.Errorf("ordem #%d não está finalizada", ordem.Numero)
	}

	cob, err := w.cobrancaRepo.FindByOrdemID(ctx, ordemID)
	switch {
	case err == nil && cob.Estado == CobrancaEmitida:
		log.Info().Int("numero", ordem.Numero).Msg("faturamento_worker: charge already emitted, skipping")
		return cob, nil
	case err == nil:
		// pending or failed charge of a previous attempt, reuse it
		if metodo != "" {
			cob.MetodoPagamento = metodo
		}
		metodo = cob.MetodoPagamento
	case errors.Is(err, gorm.ErrRecordNotFound):
		cob = &model.CobrancaExterna{
			OrdemServicoID:  ordem.ID,
			Tipo:            CobrancaPedido,
			Valor:           ordem.ValorTotal,
			Estado:          CobrancaPendente,
			MetodoPagamento: metodo,
		}
		if err := w.cobrancaRepo.Create(ctx, cob); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	envErr := withRetry(ctx, w.attempts, func(attempt int) error {
		if attempt > 0 {
			log.Warn().Int("attempt", attempt+1).Int("numero", ordem.Numero).Msg("faturamento_worker: retrying")
		}
		return w.enviar(ctx, ordem, metodo, gerarBoleto, cob)
	})
	if envErr != nil {
		w.marcarErro(cob, envErr)
	}
	if err := w.cobrancaRepo.Update(ctx, cob); err != nil {
		log.Error().Err(err).Str("cobranca_id", cob.ID.String()).Msg("faturamento_worker: failed to persist charge")
	}
	return cob, envErr
}

// Reenviar re-attempts a charge left in "erro". Used by RetryCron.
func (w *FaturamentoWorker) Reenviar(ctx context.Context, cob *model.CobrancaExterna) error {
	ordem, err := w.ordemRepo.FindByID(ctx, cob.OrdemServicoID)
	if err != nil {
		return err
	}
	gerarBoleto := cob.Tipo == CobrancaBoleto
	if err := w.enviar(ctx, ordem, cob.MetodoPagamento, gerarBoleto, cob); err != nil {
		return err
	}
	w.recibo(ctx, ordem.ID, cob.MetodoPagamento, cob)
	return nil
}

// enviar performs the remote calls and fills cob on success.
func (w *FaturamentoWorker) enviar(ctx context.Context, ordem *model.OrdemServico, metodo string, gerarBoleto bool, cob *model.CobrancaExterna) error {
	if gerarBoleto {
		cob.Tipo = CobrancaBoleto
	}
	if cob.IDExterno == nil {
		resp, err := w.client.CriarPedido(ctx, montarPedido(ordem, metodo))
		if err != nil {
			return err
		}
		id := resp.ID
		cob.IDExterno = &id
	}
	if gerarBoleto && cob.URL == nil {
		b, err := w.client.GerarBoleto(ctx, *cob.IDExterno)
		if err != nil {
			return err
		}
		url := b.URL
		cob.URL = &url
	}
	cob.Estado = CobrancaEmitida
	cob.NextRetryAt = nil
	cob.LastError = nil
	log.Info().
		Int("numero", ordem.Numero).
		Str("id_externo", *cob.IDExterno).
		Str("tipo", cob.Tipo).
		Msg("faturamento_worker: charge emitted")
	return nil
}

func (w *FaturamentoWorker) marcarErro(cob *model.CobrancaExterna, err error) {
	msg := err.Error()
	cob.Estado = CobrancaErro
	cob.LastError = &msg
	next := w.now().Add(computeRetryBackoff(cob.RetryCount + 1))
	cob.NextRetryAt = &next
}

// recibo renders the PDF receipt and queues the e-mail when the customer has one.
// Failures here never undo the charge.
func (w *FaturamentoWorker) recibo(ctx context.Context, ordemID uuid.UUID, metodo string, cob *model.CobrancaExterna) {
	ordem, err := w.ordemRepo.FindByID(ctx, ordemID)
	if err != nil {
		return
	}
	info := infra.ReciboInfo{NomeOficina: w.nomeOficina, MetodoPagamento: metodo}
	if cob != nil && cob.IDExterno != nil {
		info.IDExterno = *cob.IDExterno
	}
	path, err := infra.GerarReciboOS(ordem, info, w.pdfPath)
	if err != nil {
		log.Warn().Err(err).Int("numero", ordem.Numero).Msg("faturamento_worker: PDF generation failed")
		return
	}
	if w.dispatcher == nil || ordem.Cliente == nil || ordem.Cliente.Email == nil || *ordem.Cliente.Email == "" {
		return
	}
	body := fmt.Sprintf("Olá %s,\n\nSegue em anexo o recibo da OS #%d.\n\n%s", ordem.Cliente.Nome, ordem.Numero, w.nomeOficina)
	if cob != nil && cob.URL != nil {
		body += "\n\nBoleto: " + *cob.URL
	}
	if err := w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		OrdemID: ordem.ID.String(),
		ToEmail: *ordem.Cliente.Email,
		Subject: fmt.Sprintf("Recibo OS #%d - %s", ordem.Numero, w.nomeOficina),
		Body:    body,
		PDFPath: path,
	}); err != nil {
		log.Warn().Err(err).Msg("faturamento_worker: failed to enqueue e-mail")
	}
}

func montarPedido(ordem *model.OrdemServico, metodo string) infra.PedidoPayload {
	p := infra.PedidoPayload{
		Referencia:      fmt.Sprintf("OS-%d", ordem.Numero),
		Desconto:        ordem.Desconto.InexactFloat64(),
		ValorTotal:      ordem.ValorTotal.InexactFloat64(),
		MetodoPagamento: metodo,
	}
	if c := ordem.Cliente; c != nil {
		p.Cliente = infra.PedidoCliente{Nome: c.Nome}
		if c.Documento != nil {
			p.Cliente.Documento = *c.Documento
		}
		if c.Email != nil {
			p.Cliente.Email = *c.Email
		}
		if c.Telefone != nil {
			p.Cliente.Telefone = *c.Telefone
		}
	}
	for _, it := range ordem.Itens {
		tipo := "servico"
		if it.Tipo == model.ItemPeca {
			tipo = "produto"
		}
		p.Itens = append(p.Itens, infra.PedidoItem{
			Descricao:     it.Descricao,
			Quantidade:    it.Quantidade,
			ValorUnitario: it.PrecoUnitario.InexactFloat64(),
			ValorTotal:    it.Total.InexactFloat64(),
			Tipo:          tipo,
		})
	}
	return p
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			if errors.Is(err, infra.ErrCircuitOpen) {
				return err
			}
			continue
		}
		return nil
	}
	return lastErr
}

// computeRetryBackoff returns 1m, 2m, 4m … capped at 1h.
func computeRetryBackoff(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	d := time.Minute << uint(retry-1)
	if d > time.Hour || d <= 0 {
		return time.Hour
	}
	return d
}
