package handler

import (
	"net/http"

	"malutoficina/internal/dto"
	"malutoficina/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdensHandler struct {
	svc         service.OrdemServicoService
	faturamento service.FaturamentoService
}

func NewOrdensHandler(svc service.OrdemServicoService, faturamento service.FaturamentoService) *OrdensHandler {
	return &OrdensHandler{svc: svc, faturamento: faturamento}
}

// Criar godoc
// @Summary      Abrir ordem de serviço
// @Description  Cria a OS em ABERTA para um cliente (veículo opcional, deve pertencer ao cliente).
// @Tags         ordens
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CriarOrdemRequest true "Ordem"
// @Success      201  {object} dto.OrdemResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ordens [post]
func (h *OrdensHandler) Criar(c *gin.Context) {
	var req dto.CriarOrdemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), ator(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar ordens de serviço
// @Tags         ordens
// @Produce      json
// @Security     BearerAuth
// @Param        status     query string false "Status"
// @Param        cliente_id query string false "Cliente"
// @Param        veiculo_id query string false "Veículo"
// @Param        page       query int    false "Página"
// @Param        limit      query int    false "Itens por página"
// @Success      200  {object} dto.OrdemListResponse
// @Router       /v1/ordens [get]
func (h *OrdensHandler) Listar(c *gin.Context) {
	var filter dto.OrdemFilter
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

func (h *OrdensHandler) Obter(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AlterarStatus godoc
// @Summary      Alterar status da OS
// @Description  Muda o status e/ou o vendedor. Entrar em FINALIZADA/ENTREGUE baixa estoque e lança a receita;
// @Description  sair de um status terminal estorna o estoque. 409 quando a OS já está finalizada.
// @Tags         ordens
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID da OS"
// @Param        body body dto.AlterarStatusRequest true "Novo status"
// @Success      200  {object} dto.OrdemResponse
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ordens/{id}/status [patch]
func (h *OrdensHandler) AlterarStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AlterarStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AlterarStatus(c.Request.Context(), ator(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdensHandler) AdicionarItem(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarItem(c.Request.Context(), ator(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrdensHandler) RemoverItem(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramUUID(c, "item_id")
	if !ok {
		return
	}
	resp, err := h.svc.RemoverItem(c.Request.Context(), ator(c), id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdensHandler) Historico(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Historico(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdensHandler) Excluir(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), ator(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Faturar godoc
// @Summary      Faturar OS no sistema externo
// @Description  Envia a OS finalizada ao faturamento de forma síncrona. Falha remota responde 502 sem alterar a OS.
// @Tags         ordens
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true  "UUID da OS"
// @Param        body body dto.FaturarRequest  false "Opções"
// @Success      200  {object} dto.CobrancaResponse
// @Failure      502  {object} apierror.APIError
// @Router       /v1/ordens/{id}/faturar [post]
func (h *OrdensHandler) Faturar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.FaturarRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.faturamento.Faturar(c.Request.Context(), ator(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdensHandler) Cobranca(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.faturamento.ObterCobranca(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
