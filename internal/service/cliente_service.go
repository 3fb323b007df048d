package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteService interface {
	Criar(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error

	CriarVeiculo(ctx context.Context, req dto.VeiculoRequest) (*dto.VeiculoResponse, error)
	ObterVeiculo(ctx context.Context, id uuid.UUID) (*dto.VeiculoResponse, error)
	ListarVeiculos(ctx context.Context, clienteID uuid.UUID) ([]dto.VeiculoResponse, error)
	AtualizarVeiculo(ctx context.Context, id uuid.UUID, req dto.VeiculoRequest) (*dto.VeiculoResponse, error)
	ExcluirVeiculo(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo        repository.ClienteRepository
	veiculoRepo repository.VeiculoRepository
}

func NewClienteService(repo repository.ClienteRepository, veiculoRepo repository.VeiculoRepository) ClienteService {
	return &clienteService{repo: repo, veiculoRepo: veiculoRepo}
}

func (s *clienteService) Criar(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{}
	aplicarCliente(c, req)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Obter(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "cliente")
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		data[i] = clienteToResponse(&clientes[i])
	}
	return &dto.ClienteListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "cliente")
	}
	aplicarCliente(c, req)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Excluir(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "cliente")
	}
	return s.repo.SoftDelete(ctx, id)
}

func aplicarCliente(c *model.Cliente, req dto.ClienteRequest) {
	c.Nome = strings.TrimSpace(req.Nome)
	c.Documento = req.Documento
	c.Telefone = req.Telefone
	c.Email = req.Email
	c.Endereco = req.Endereco
}

func (s *clienteService) CriarVeiculo(ctx context.Context, req dto.VeiculoRequest) (*dto.VeiculoResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("%w: cliente_id inválido", ErrValidacao)
	}
	if _, err := s.repo.FindByID(ctx, clienteID); err != nil {
		return nil, notFound(err, "cliente")
	}
	placa := normalizarPlaca(req.Placa)
	if err := s.placaLivre(ctx, placa, uuid.Nil); err != nil {
		return nil, err
	}
	v := &model.Veiculo{ClienteID: clienteID}
	aplicarVeiculo(v, req, placa)
	if err := s.veiculoRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	resp := veiculoToResponse(v)
	return &resp, nil
}

func (s *clienteService) ObterVeiculo(ctx context.Context, id uuid.UUID) (*dto.VeiculoResponse, error) {
	v, err := s.veiculoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "veículo")
	}
	resp := veiculoToResponse(v)
	return &resp, nil
}

func (s *clienteService) ListarVeiculos(ctx context.Context, clienteID uuid.UUID) ([]dto.VeiculoResponse, error) {
	if _, err := s.repo.FindByID(ctx, clienteID); err != nil {
		return nil, notFound(err, "cliente")
	}
	vs, err := s.veiculoRepo.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VeiculoResponse, len(vs))
	for i := range vs {
		out[i] = veiculoToResponse(&vs[i])
	}
	return out, nil
}

// AtualizarVeiculo can also move a vehicle to another customer.
func (s *clienteService) AtualizarVeiculo(ctx context.Context, id uuid.UUID, req dto.VeiculoRequest) (*dto.VeiculoResponse, error) {
	v, err := s.veiculoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "veículo")
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("%w: cliente_id inválido", ErrValidacao)
	}
	if clienteID != v.ClienteID {
		if _, err := s.repo.FindByID(ctx, clienteID); err != nil {
			return nil, notFound(err, "cliente")
		}
		v.ClienteID = clienteID
	}
	placa := normalizarPlaca(req.Placa)
	if err := s.placaLivre(ctx, placa, v.ID); err != nil {
		return nil, err
	}
	aplicarVeiculo(v, req, placa)
	if err := s.veiculoRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	resp := veiculoToResponse(v)
	return &resp, nil
}

func (s *clienteService) ExcluirVeiculo(ctx context.Context, id uuid.UUID) error {
	if _, err := s.veiculoRepo.FindByID(ctx, id); err != nil {
		return notFound(err, "veículo")
	}
	return s.veiculoRepo.SoftDelete(ctx, id)
}

func (s *clienteService) placaLivre(ctx context.Context, placa string, self uuid.UUID) error {
	outro, err := s.veiculoRepo.FindByPlaca(ctx, placa)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case outro.ID != self:
		return fmt.Errorf("%w: placa %s já cadastrada", ErrConflito, placa)
	}
	return nil
}

func aplicarVeiculo(v *model.Veiculo, req dto.VeiculoRequest, placa string) {
	v.Placa = placa
	v.Marca = strings.TrimSpace(req.Marca)
	v.Modelo = strings.TrimSpace(req.Modelo)
	v.Ano = req.Ano
	v.Cor = req.Cor
	v.KM = req.KM
}

// normalizarPlaca accepts "abc-1d23" and "ABC1D23" alike.
func normalizarPlaca(p string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(p), "-", ""))
}
