package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"malutoficina/internal/infra"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificacaoJobPayload is the job envelope sent to QueueNotificacao.
type NotificacaoJobPayload struct {
	OrdemID string `json:"ordem_id"`
	Evento  string `json:"evento"`
}

// NotificacaoWorker tells the customer over WhatsApp that an order was
// finalized or reopened.
type NotificacaoWorker struct {
	whatsapp    *infra.WhatsAppClient
	ordemRepo   repository.OrdemServicoRepository
	nomeOficina string
}

func NewNotificacaoWorker(wa *infra.WhatsAppClient, ordemRepo repository.OrdemServicoRepository, nomeOficina string) *NotificacaoWorker {
	return &NotificacaoWorker{whatsapp: wa, ordemRepo: ordemRepo, nomeOficina: nomeOficina}
}

func (w *NotificacaoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	if !w.whatsapp.Habilitado() {
		return nil
	}
	var p NotificacaoJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("notificacao_worker: invalid payload")
		return nil
	}
	id, err := uuid.Parse(p.OrdemID)
	if err != nil {
		log.Error().Str("ordem_id", p.OrdemID).Msg("notificacao_worker: invalid ordem_id")
		return nil
	}
	ordem, err := w.ordemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if ordem.Cliente == nil || ordem.Cliente.Telefone == nil || *ordem.Cliente.Telefone == "" {
		log.Debug().Int("numero", ordem.Numero).Msg("notificacao_worker: customer without phone, skipping")
		return nil
	}

	msg := MensagemEvento(p.Evento, ordem, w.nomeOficina)
	if msg == "" {
		return nil
	}
	if err := w.whatsapp.Enviar(ctx, *ordem.Cliente.Telefone, msg); err != nil {
		return err
	}
	log.Info().Int("numero", ordem.Numero).Str("evento", p.Evento).Msg("notificacao_worker: message sent")
	return nil
}

// MensagemEvento renders the customer message for an order event. Unknown
// events yield "".
func MensagemEvento(evento string, ordem *model.OrdemServico, oficina string) string {
	nome := "cliente"
	if ordem.Cliente != nil {
		nome = ordem.Cliente.Nome
	}
	switch evento {
	case model.EventoOSFinalizada:
		return fmt.Sprintf("Olá %s! Sua OS #%d na %s foi finalizada. Valor total: R$ %s.",
			nome, ordem.Numero, oficina, ordem.ValorTotal.StringFixed(2))
	case model.EventoOSReaberta:
		return fmt.Sprintf("Olá %s! Sua OS #%d na %s foi reaberta para ajustes. Avisaremos quando estiver pronta.",
			nome, ordem.Numero, oficina)
	}
	return ""
}
