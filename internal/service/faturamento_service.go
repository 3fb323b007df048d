package service

import (
	"context"
	"errors"
	"fmt"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Emissor creates the external charge of a finalized order.
// Implemented by worker.FaturamentoWorker.
type Emissor interface {
	Emitir(ctx context.Context, ordemID uuid.UUID, metodo string, gerarBoleto bool) (*model.CobrancaExterna, error)
}

// FaturamentoService is the synchronous billing trigger. Failures of the
// remote system surface as ErrIntegracao and never touch the order.
type FaturamentoService interface {
	Faturar(ctx context.Context, ator Ator, ordemID uuid.UUID, req dto.FaturarRequest) (*dto.CobrancaResponse, error)
	ObterCobranca(ctx context.Context, ordemID uuid.UUID) (*dto.CobrancaResponse, error)
}

type faturamentoService struct {
	ordemRepo    repository.OrdemServicoRepository
	cobrancaRepo repository.CobrancaRepository
	emissor      Emissor
}

func NewFaturamentoService(ordemRepo repository.OrdemServicoRepository, cobrancaRepo repository.CobrancaRepository, emissor Emissor) FaturamentoService {
	return &faturamentoService{ordemRepo: ordemRepo, cobrancaRepo: cobrancaRepo, emissor: emissor}
}

func (s *faturamentoService) Faturar(ctx context.Context, ator Ator, ordemID uuid.UUID, req dto.FaturarRequest) (*dto.CobrancaResponse, error) {
	ordem, err := s.ordemRepo.FindByID(ctx, ordemID)
	if err != nil {
		return nil, notFound(err, "ordem de serviço")
	}
	if !ordem.Status.Terminal() {
		return nil, fmt.Errorf("%w: OS #%d ainda não foi finalizada", ErrValidacao, ordem.Numero)
	}
	metodo := ""
	if req.GerarBoleto {
		metodo = model.MetodoBoleto
	}
	cob, err := s.emissor.Emitir(ctx, ordem.ID, metodo, req.GerarBoleto)
	if err != nil {
		log.Warn().Err(err).Int("numero", ordem.Numero).Str("usuario_id", ator.ID.String()).Msg("faturamento síncrono falhou")
		return nil, fmt.Errorf("%w: %v", ErrIntegracao, err)
	}
	return cobrancaToResponse(cob), nil
}

func (s *faturamentoService) ObterCobranca(ctx context.Context, ordemID uuid.UUID) (*dto.CobrancaResponse, error) {
	cob, err := s.cobrancaRepo.FindByOrdemID(ctx, ordemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cobrança da ordem", ErrNaoEncontrado)
		}
		return nil, err
	}
	return cobrancaToResponse(cob), nil
}
