package handler

import (
	"fmt"
	"net/http"
	"time"

	"malutoficina/internal/dto"
	"malutoficina/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type FinanceiroHandler struct{ svc service.FinanceiroService }

func NewFinanceiroHandler(svc service.FinanceiroService) *FinanceiroHandler {
	return &FinanceiroHandler{svc: svc}
}

func (h *FinanceiroHandler) Listar(c *gin.Context) {
	var filter dto.LancamentoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceiroHandler) CriarDespesa(c *gin.Context) {
	var req dto.CriarDespesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarDespesa(c.Request.Context(), ator(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceiroHandler) Baixar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.BaixarRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Baixar(c.Request.Context(), ator(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumo godoc
// @Summary      Resumo financeiro do período
// @Description  Receita, despesa, CMV, margem (receita − CMV) e saldo (receita − despesa). Padrão: mês corrente.
// @Tags         financeiro
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "AAAA-MM-DD"
// @Param        ate   query string false "AAAA-MM-DD"
// @Success      200  {object} dto.ResumoFinanceiro
// @Router       /v1/financeiro/resumo [get]
func (h *FinanceiroHandler) Resumo(c *gin.Context) {
	resp, err := h.svc.Resumo(c.Request.Context(), c.Query("desde"), c.Query("ate"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary      Exportar lançamentos em XLSX
// @Tags         financeiro
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file} file
// @Router       /v1/financeiro/export [get]
func (h *FinanceiroHandler) Exportar(c *gin.Context) {
	var filter dto.LancamentoFilter
	if !bindQuery(c, &filter) {
		return
	}
	buf, err := h.svc.Exportar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	nome := fmt.Sprintf("lancamentos_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+nome+`"`)
	c.Data(http.StatusOK, xlsxMime, buf.Bytes())
}
