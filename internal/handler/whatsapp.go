package handler

import (
	"net/http"

	"malutoficina/internal/dto"
	"malutoficina/internal/service"

	"github.com/gin-gonic/gin"
)

type WhatsAppHandler struct{ svc service.WhatsAppService }

func NewWhatsAppHandler(svc service.WhatsAppService) *WhatsAppHandler {
	return &WhatsAppHandler{svc: svc}
}

// Status godoc
// @Summary      Estado da conexão WhatsApp
// @Tags         whatsapp
// @Produce      json
// @Security     BearerAuth
// @Param        verificar query bool false "Consulta o gateway antes de responder"
// @Success      200  {object} dto.WhatsAppStatusResponse
// @Router       /v1/whatsapp/status [get]
func (h *WhatsAppHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Status(c.Request.Context(), c.Query("verificar") == "true"))
}

func (h *WhatsAppHandler) Enviar(c *gin.Context) {
	var req dto.EnviarMensagemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Enviar(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
