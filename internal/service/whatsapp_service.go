package service

import (
	"context"
	"fmt"
	"time"

	"malutoficina/internal/dto"
	"malutoficina/internal/infra"
)

type WhatsAppService interface {
	// Status returns the last known state; verificar probes the gateway first.
	Status(ctx context.Context, verificar bool) dto.WhatsAppStatusResponse
	Enviar(ctx context.Context, req dto.EnviarMensagemRequest) error
}

type whatsAppService struct {
	client *infra.WhatsAppClient
}

func NewWhatsAppService(client *infra.WhatsAppClient) WhatsAppService {
	return &whatsAppService{client: client}
}

func (s *whatsAppService) Status(ctx context.Context, verificar bool) dto.WhatsAppStatusResponse {
	estado := s.client.Estado()
	if verificar && s.client.Habilitado() {
		// probe errors are kept in the state itself
		estado, _ = s.client.Verificar(ctx)
	}
	resp := dto.WhatsAppStatusResponse{
		Estado:    estado.Estado,
		Conectado: estado.Conectado(),
	}
	if !estado.UltimaVerif.IsZero() {
		v := estado.UltimaVerif.Format(time.RFC3339)
		resp.UltimaVerif = &v
	}
	if estado.UltimoErro != "" {
		e := estado.UltimoErro
		resp.UltimoErro = &e
	}
	return resp
}

func (s *whatsAppService) Enviar(ctx context.Context, req dto.EnviarMensagemRequest) error {
	if !s.client.Habilitado() {
		return fmt.Errorf("%w: WHATSAPP_URL não configurada", ErrIntegracao)
	}
	if err := s.client.Enviar(ctx, req.Telefone, req.Mensagem); err != nil {
		return fmt.Errorf("%w: %v", ErrIntegracao, err)
	}
	return nil
}
