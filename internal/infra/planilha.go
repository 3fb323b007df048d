package infra

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"malutoficina/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const abaLancamentos = "Lancamentos"

// GerarPlanilhaLancamentos renders the ledger as an .xlsx workbook.
func GerarPlanilhaLancamentos(lancamentos []model.LancamentoFinanceiro) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", abaLancamentos); err != nil {
		return nil, err
	}

	cabecalho := []interface{}{"Data", "Tipo", "Descrição", "Categoria", "Valor", "Custo (CMV)", "Status", "Pagamento", "Pago em", "OS"}
	if err := f.SetSheetRow(abaLancamentos, "A1", &cabecalho); err != nil {
		return nil, err
	}
	negrito, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(abaLancamentos, "A1", "J1", negrito)
	moeda, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	for i, l := range lancamentos {
		linha := i + 2
		pagoEm := ""
		if l.PagoEm != nil {
			pagoEm = l.PagoEm.Format("02/01/2006")
		}
		ordem := ""
		if l.OrdemServicoID != nil {
			ordem = l.OrdemServicoID.String()
		}
		valores := []interface{}{
			l.CreatedAt.Format("02/01/2006"),
			l.Tipo,
			l.Descricao,
			l.Categoria,
			l.Valor.InexactFloat64(),
			l.ValorCusto.InexactFloat64(),
			l.Status,
			l.MetodoPagamento,
			pagoEm,
			ordem,
		}
		cell, _ := excelize.CoordinatesToCellName(1, linha)
		if err := f.SetSheetRow(abaLancamentos, cell, &valores); err != nil {
			return nil, err
		}
		de, _ := excelize.CoordinatesToCellName(5, linha)
		ate, _ := excelize.CoordinatesToCellName(6, linha)
		_ = f.SetCellStyle(abaLancamentos, de, ate, moeda)
	}
	_ = f.SetColWidth(abaLancamentos, "C", "C", 40)
	_ = f.SetColWidth(abaLancamentos, "J", "J", 38)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("planilha: write: %w", err)
	}
	return buf, nil
}

// LinhaPeca is one row of a parts import sheet.
type LinhaPeca struct {
	Linha         int
	Codigo        string
	Nome          string
	PrecoCusto    decimal.Decimal
	PrecoVenda    decimal.Decimal
	Estoque       int
	EstoqueMinimo int
}

// LerPlanilhaPecas reads the first sheet of an .xlsx with the columns
// codigo | nome | preco_custo | preco_venda | estoque | estoque_minimo.
// A header row is detected and skipped. Rows that fail to parse are
// reported in the returned error slice, the rest are returned.
func LerPlanilhaPecas(r io.Reader) ([]LinhaPeca, []error, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("planilha: arquivo inválido: %w", err)
	}
	defer f.Close()

	abas := f.GetSheetList()
	if len(abas) == 0 {
		return nil, nil, fmt.Errorf("planilha: nenhuma aba encontrada")
	}
	rows, err := f.GetRows(abas[0])
	if err != nil {
		return nil, nil, fmt.Errorf("planilha: leitura: %w", err)
	}

	inicio := 0
	if len(rows) > 0 && len(rows[0]) > 0 {
		primeira := strings.ToUpper(strings.TrimSpace(rows[0][0]))
		if primeira == "CODIGO" || primeira == "CÓDIGO" {
			inicio = 1
		}
	}

	var out []LinhaPeca
	var erros []error
	for i := inicio; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		for len(row) < 6 {
			row = append(row, "")
		}
		lp := LinhaPeca{
			Linha:  i + 1,
			Codigo: strings.ToUpper(strings.TrimSpace(row[0])),
			Nome:   strings.TrimSpace(row[1]),
		}
		if lp.PrecoCusto, err = parseDecimalBR(row[2]); err != nil {
			erros = append(erros, fmt.Errorf("linha %d: preco_custo: %w", lp.Linha, err))
			continue
		}
		if lp.PrecoVenda, err = parseDecimalBR(row[3]); err != nil {
			erros = append(erros, fmt.Errorf("linha %d: preco_venda: %w", lp.Linha, err))
			continue
		}
		if lp.Estoque, err = parseIntVazio(row[4]); err != nil {
			erros = append(erros, fmt.Errorf("linha %d: estoque: %w", lp.Linha, err))
			continue
		}
		if lp.EstoqueMinimo, err = parseIntVazio(row[5]); err != nil {
			erros = append(erros, fmt.Errorf("linha %d: estoque_minimo: %w", lp.Linha, err))
			continue
		}
		if lp.Nome == "" {
			erros = append(erros, fmt.Errorf("linha %d: nome vazio", lp.Linha))
			continue
		}
		out = append(out, lp)
	}
	return out, erros, nil
}

// parseDecimalBR accepts "1234.5", "1234,50" and "1.234,50".
func parseDecimalBR(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func parseIntVazio(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
