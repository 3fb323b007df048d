package service_test

import (
	"context"
	"testing"

	"malutoficina/internal/dto"
	"malutoficina/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildClienteSvc(t *testing.T) (service.ClienteService, *dto.ClienteResponse) {
	t.Helper()
	svc := service.NewClienteService(newStubClienteRepo(), newStubVeiculoRepo())
	c, err := svc.Criar(context.Background(), dto.ClienteRequest{Nome: "  Ana Souza ", Telefone: strPtr("11988887777")})
	require.NoError(t, err)
	return svc, c
}

func TestCriarCliente(t *testing.T) {
	svc, c := buildClienteSvc(t)
	assert.Equal(t, "Ana Souza", c.Nome)

	got, err := svc.Obter(context.Background(), uuid.MustParse(c.ID))
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	list, err := svc.Listar(context.Background(), dto.ClienteFilter{Busca: "ana"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}

func TestVeiculo_PlacaNormalizadaEUnica(t *testing.T) {
	svc, c := buildClienteSvc(t)
	ctx := context.Background()

	v, err := svc.CriarVeiculo(ctx, dto.VeiculoRequest{ClienteID: c.ID, Placa: "abc-1d23", Marca: "VW", Modelo: "Gol"})
	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", v.Placa)

	_, err = svc.CriarVeiculo(ctx, dto.VeiculoRequest{ClienteID: c.ID, Placa: "ABC1D23", Marca: "VW", Modelo: "Polo"})
	assert.ErrorIs(t, err, service.ErrConflito)

	// Updating a vehicle with its own plate is not a conflict.
	_, err = svc.AtualizarVeiculo(ctx, uuid.MustParse(v.ID), dto.VeiculoRequest{ClienteID: c.ID, Placa: "ABC-1D23", Marca: "VW", Modelo: "Gol G5"})
	require.NoError(t, err)

	vs, err := svc.ListarVeiculos(ctx, uuid.MustParse(c.ID))
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "Gol G5", vs[0].Modelo)
}

func TestVeiculo_TransferenciaDeCliente(t *testing.T) {
	svc, c := buildClienteSvc(t)
	ctx := context.Background()
	outro, err := svc.Criar(ctx, dto.ClienteRequest{Nome: "Bruno"})
	require.NoError(t, err)
	v, err := svc.CriarVeiculo(ctx, dto.VeiculoRequest{ClienteID: c.ID, Placa: "XYZ9A87", Marca: "Ford", Modelo: "Ka"})
	require.NoError(t, err)

	moved, err := svc.AtualizarVeiculo(ctx, uuid.MustParse(v.ID), dto.VeiculoRequest{ClienteID: outro.ID, Placa: v.Placa, Marca: "Ford", Modelo: "Ka"})
	require.NoError(t, err)
	assert.Equal(t, outro.ID, moved.ClienteID)

	_, err = svc.AtualizarVeiculo(ctx, uuid.MustParse(v.ID), dto.VeiculoRequest{ClienteID: uuid.NewString(), Placa: v.Placa, Marca: "Ford", Modelo: "Ka"})
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
}

func TestVeiculo_ClienteInexistente(t *testing.T) {
	svc, _ := buildClienteSvc(t)
	_, err := svc.CriarVeiculo(context.Background(), dto.VeiculoRequest{ClienteID: uuid.NewString(), Placa: "AAA0A00", Marca: "x", Modelo: "y"})
	assert.ErrorIs(t, err, service.ErrNaoEncontrado)
	_, err = svc.CriarVeiculo(context.Background(), dto.VeiculoRequest{ClienteID: "nope", Placa: "AAA0A00", Marca: "x", Modelo: "y"})
	assert.ErrorIs(t, err, service.ErrValidacao)
}

func TestExcluirCliente(t *testing.T) {
	svc, c := buildClienteSvc(t)
	id := uuid.MustParse(c.ID)
	require.NoError(t, svc.Excluir(context.Background(), id))
	assert.ErrorIs(t, svc.Excluir(context.Background(), id), service.ErrNaoEncontrado)
}
