package infra

// pdf.go: work-order receipt generated with go-pdf/fpdf.
// A5 portrait page with shop header, order/customer block, item table,
// totals and payment method. Written to storagePath/os_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"malutoficina/internal/model"

	"github.com/go-pdf/fpdf"
)

// ReciboInfo carries the fields of the receipt that do not live on the order.
type ReciboInfo struct {
	NomeOficina     string
	MetodoPagamento string
	IDExterno       string // invoicing system id, empty when not billed
}

// GerarReciboOS renders the receipt of a finished order and returns the
// path of the written file. The order must have Itens and Cliente loaded.
func GerarReciboOS(ordem *model.OrdemServico, info ReciboInfo, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("os_%d.pdf", ordem.Numero))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252 for core fonts

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(info.NomeOficina), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Ordem de Serviço Nº %d", ordem.Numero)), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, ordem.UpdatedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Cliente / veículo ─────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	if ordem.Cliente != nil {
		pdf.CellFormat(contentW, 5, tr("Cliente: "+ordem.Cliente.Nome), "", 1, "L", false, 0, "")
		if ordem.Cliente.Documento != nil {
			pdf.CellFormat(contentW, 5, tr("CPF/CNPJ: "+*ordem.Cliente.Documento), "", 1, "L", false, 0, "")
		}
	}
	if ordem.Veiculo != nil {
		v := ordem.Veiculo
		pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Veículo: %s %s  Placa: %s", v.Marca, v.Modelo, v.Placa)), "", 1, "L", false, 0, "")
	}
	if ordem.KM != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("KM: %d", *ordem.KM), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Itens ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.50
	col2 := contentW * 0.12
	col3 := contentW * 0.19
	col4 := contentW * 0.19

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, tr("Descrição"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Unit.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, it := range ordem.Itens {
		desc := []rune(it.Descricao)
		if len(desc) > 38 {
			desc = append(desc[:37], '.')
		}
		pdf.CellFormat(col1, 5, tr(string(desc)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", it.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+it.PrecoUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "R$ "+it.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totais ────────────────────────────────────────────────────────────────
	label := col1 + col2 + col3
	pdf.CellFormat(label, 5, tr("Peças:"), "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "R$ "+ordem.TotalPecas.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(label, 5, tr("Serviços:"), "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "R$ "+ordem.TotalServicos.StringFixed(2), "", 1, "R", false, 0, "")
	if !ordem.Desconto.IsZero() {
		pdf.CellFormat(label, 5, "Desconto:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "-R$ "+ordem.Desconto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(label, 7, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "R$ "+ordem.ValorTotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	if info.MetodoPagamento != "" {
		pdf.CellFormat(contentW, 5, "Pagamento: "+info.MetodoPagamento, "", 1, "L", false, 0, "")
	}
	if info.IDExterno != "" {
		pdf.CellFormat(contentW, 5, "Pedido: "+info.IDExterno, "", 1, "L", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, tr("Obrigado pela preferência!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
