package service

import (
	"context"
	"strings"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/google/uuid"
)

// ServicoService manages the labor catalog used to price SERVICO items.
type ServicoService interface {
	Criar(ctx context.Context, req dto.ServicoRequest) (*dto.ServicoResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.ServicoResponse, error)
	Listar(ctx context.Context, incluirInativos bool) ([]dto.ServicoResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.ServicoRequest) (*dto.ServicoResponse, error)
}

type servicoService struct {
	repo repository.ServicoRepository
}

func NewServicoService(repo repository.ServicoRepository) ServicoService {
	return &servicoService{repo: repo}
}

func (s *servicoService) Criar(ctx context.Context, req dto.ServicoRequest) (*dto.ServicoResponse, error) {
	sc := &model.ServicoCatalogo{Ativo: true}
	aplicarServico(sc, req)
	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, err
	}
	resp := servicoToResponse(sc)
	return &resp, nil
}

func (s *servicoService) Obter(ctx context.Context, id uuid.UUID) (*dto.ServicoResponse, error) {
	sc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "serviço")
	}
	resp := servicoToResponse(sc)
	return &resp, nil
}

func (s *servicoService) Listar(ctx context.Context, incluirInativos bool) ([]dto.ServicoResponse, error) {
	list, err := s.repo.List(ctx, incluirInativos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServicoResponse, len(list))
	for i := range list {
		out[i] = servicoToResponse(&list[i])
	}
	return out, nil
}

func (s *servicoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.ServicoRequest) (*dto.ServicoResponse, error) {
	sc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "serviço")
	}
	aplicarServico(sc, req)
	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, err
	}
	resp := servicoToResponse(sc)
	return &resp, nil
}

func aplicarServico(sc *model.ServicoCatalogo, req dto.ServicoRequest) {
	sc.Nome = strings.TrimSpace(req.Nome)
	sc.Descricao = req.Descricao
	sc.Preco = req.Preco
	if req.Ativo != nil {
		sc.Ativo = *req.Ativo
	}
}

func servicoToResponse(sc *model.ServicoCatalogo) dto.ServicoResponse {
	return dto.ServicoResponse{
		ID:        sc.ID.String(),
		Nome:      sc.Nome,
		Descricao: sc.Descricao,
		Preco:     sc.Preco,
		Ativo:     sc.Ativo,
	}
}
