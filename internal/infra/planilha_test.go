package infra

import (
	"bytes"
	"testing"
	"time"

	"malutoficina/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseDecimalBR(t *testing.T) {
	casos := map[string]string{
		"1234.5":   "1234.5",
		"1234,50":  "1234.5",
		"1.234,50": "1234.5",
		"R$ 99,90": "99.9",
		"":         "0",
		"  12  ":   "12",
	}
	for in, want := range casos {
		got, err := parseDecimalBR(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%q → %s", in, got)
	}
	_, err := parseDecimalBR("doze")
	assert.Error(t, err)
}

func TestLerPlanilhaPecas(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Código", "Nome", "Custo", "Venda", "Estoque", "Mínimo"},
		{"vl-01", "Vela", "8,50", "15", "10", "4"},
		{"", "linha vazia ignorada"},
		{"VL-02", "", "1", "2", "3", "4"},
		{"VL-03", "Vela iridium", "30", "55", "x", "1"},
		{"VL-04", "Vela simples", "5", "9"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	_ = f.Close()

	linhas, erros, err := LerPlanilhaPecas(buf)
	require.NoError(t, err)
	require.Len(t, linhas, 2)
	assert.Equal(t, "VL-01", linhas[0].Codigo)
	assert.Equal(t, 2, linhas[0].Linha)
	assert.True(t, linhas[0].PrecoCusto.Equal(decimal.RequireFromString("8.5")))
	assert.Equal(t, 10, linhas[0].Estoque)
	assert.Equal(t, "VL-04", linhas[1].Codigo)
	assert.Equal(t, 0, linhas[1].Estoque, "colunas ausentes valem zero")
	assert.Len(t, erros, 2)
}

func TestLerPlanilhaPecas_ArquivoInvalido(t *testing.T) {
	_, _, err := LerPlanilhaPecas(bytes.NewBufferString("texto"))
	assert.Error(t, err)
}

func TestGerarPlanilhaLancamentos(t *testing.T) {
	pago := time.Date(2026, 10, 5, 10, 0, 0, 0, time.Local)
	buf, err := GerarPlanilhaLancamentos([]model.LancamentoFinanceiro{{
		Tipo:            model.LancamentoReceita,
		Descricao:       "Receita OS #1",
		Categoria:       "SERVICOS",
		Valor:           decimal.NewFromInt(200),
		ValorCusto:      decimal.NewFromInt(60),
		Status:          model.LancamentoPago,
		MetodoPagamento: model.MetodoPix,
		PagoEm:          &pago,
		CreatedAt:       pago,
	}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(abaLancamentos)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "05/10/2026", rows[1][0])
	assert.Equal(t, "Receita OS #1", rows[1][2])
	assert.Equal(t, "05/10/2026", rows[1][8])
}
