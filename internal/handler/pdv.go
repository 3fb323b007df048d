package handler

import (
	"net/http"

	"malutoficina/internal/dto"
	"malutoficina/internal/service"

	"github.com/gin-gonic/gin"
)

type PDVHandler struct{ svc service.PDVService }

func NewPDVHandler(svc service.PDVService) *PDVHandler { return &PDVHandler{svc: svc} }

// FinalizarVenda godoc
// @Summary      Registrar venda de balcão
// @Description  Cria a OS já como ORCAMENTO ou FINALIZADA. Finalizada baixa estoque e lança a receita na mesma transação.
// @Tags         pdv
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.FinalizarVendaRequest true "Venda"
// @Success      201  {object} dto.OrdemResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/pdv/vendas [post]
func (h *PDVHandler) FinalizarVenda(c *gin.Context) {
	var req dto.FinalizarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FinalizarVenda(c.Request.Context(), ator(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
