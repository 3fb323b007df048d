package handler

import (
	"net/http"

	"malutoficina/internal/apierror"
	"malutoficina/internal/dto"
	"malutoficina/internal/service"

	"github.com/gin-gonic/gin"
)

// maxPlanilha bounds uploaded spreadsheets.
const maxPlanilha = 10 << 20

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

func (h *EstoqueHandler) CriarPeca(c *gin.Context) {
	var req dto.CriarPecaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarPeca(c.Request.Context(), ator(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EstoqueHandler) ListarPecas(c *gin.Context) {
	var filter dto.PecaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarPecas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) ObterPeca(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPeca(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) AtualizarPeca(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarPecaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarPeca(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarEstoque godoc
// @Summary      Ajuste manual de estoque
// @Description  delta > 0 gera ENTRADA, delta < 0 gera SAIDA, com referência "AJUSTE: motivo".
// @Tags         estoque
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID da peça"
// @Param        body body dto.AjusteEstoqueRequest true "Ajuste"
// @Success      200  {object} dto.MovimentoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/pecas/{id}/estoque [patch]
func (h *EstoqueHandler) AjustarEstoque(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AjusteEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarEstoque(c.Request.Context(), ator(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportarPecas godoc
// @Summary      Importar peças de planilha XLSX
// @Description  Colunas: codigo, nome, preco_custo, preco_venda, estoque, estoque_minimo. Linhas inválidas são reportadas e ignoradas.
// @Tags         estoque
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        arquivo formData file true "Planilha .xlsx"
// @Success      200  {object} dto.ImportarPecasResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/pecas/importar [post]
func (h *EstoqueHandler) ImportarPecas(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPlanilha)
	fh, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Arquivo 'arquivo' obrigatório"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Não foi possível ler o arquivo"))
		return
	}
	defer f.Close()

	resp, err := h.svc.ImportarPecas(c.Request.Context(), ator(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) ListarMovimentos(c *gin.Context) {
	var filter dto.MovimentoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimentos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Serviços (catálogo de mão de obra) ──────────────────────────────────────

type ServicosHandler struct{ svc service.ServicoService }

func NewServicosHandler(svc service.ServicoService) *ServicosHandler {
	return &ServicosHandler{svc: svc}
}

func (h *ServicosHandler) Criar(c *gin.Context) {
	var req dto.ServicoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ServicosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("inativos") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServicosHandler) Obter(c *gin.Context) {
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

func (h *ServicosHandler) Atualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ServicoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
