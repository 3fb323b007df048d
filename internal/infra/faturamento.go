package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PedidoItem is one line of an order pushed to the invoicing system.
type PedidoItem struct {
	Descricao     string  `json:"descricao"`
	Quantidade    int     `json:"quantidade"`
	ValorUnitario float64 `json:"valor_unitario"`
	ValorTotal    float64 `json:"valor_total"`
	Tipo          string  `json:"tipo"` // "produto" | "servico"
}

// PedidoCliente identifies the payer on the invoicing side.
type PedidoCliente struct {
	Nome      string `json:"nome"`
	Documento string `json:"cpf_cnpj,omitempty"`
	Email     string `json:"email,omitempty"`
	Telefone  string `json:"telefone,omitempty"`
}

// PedidoPayload is the body of POST /pedidos.
type PedidoPayload struct {
	Referencia      string        `json:"referencia"` // "OS-42"
	Cliente         PedidoCliente `json:"cliente"`
	Itens           []PedidoItem  `json:"itens"`
	Desconto        float64       `json:"desconto"`
	ValorTotal      float64       `json:"valor_total"`
	MetodoPagamento string        `json:"forma_pagamento,omitempty"`
}

// PedidoResponse is returned by POST /pedidos.
type PedidoResponse struct {
	ID     string `json:"id"`
	Numero string `json:"numero"`
	Status string `json:"status"`
}

// BoletoResponse is returned by POST /pedidos/{id}/boleto.
type BoletoResponse struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	LinhaDigit string `json:"linha_digitavel"`
	Vencimento string `json:"vencimento"`
}

// FaturamentoClient talks to the external invoicing/ERP API. Every call goes
// through a CircuitBreaker so a dead upstream fails fast instead of holding
// worker goroutines for the full HTTP timeout.
type FaturamentoClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

func NewFaturamentoClient(baseURL, token string, breaker *CircuitBreaker) *FaturamentoClient {
	if breaker == nil {
		breaker = NewCircuitBreaker(DefaultCBConfig())
	}
	return &FaturamentoClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		breaker:    breaker,
	}
}

// Habilitado reports whether an upstream URL is configured.
func (c *FaturamentoClient) Habilitado() bool { return c != nil && c.baseURL != "" }

// Breaker exposes the circuit breaker state for health checks and the retry cron.
func (c *FaturamentoClient) Breaker() *CircuitBreaker { return c.breaker }

// CriarPedido sends POST /pedidos and returns the external order id.
func (c *FaturamentoClient) CriarPedido(ctx context.Context, payload PedidoPayload) (*PedidoResponse, error) {
	var out PedidoResponse
	err := c.breaker.Execute(func() error {
		return c.post(ctx, "/pedidos", payload, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GerarBoleto sends POST /pedidos/{id}/boleto.
func (c *FaturamentoClient) GerarBoleto(ctx context.Context, idExterno string) (*BoletoResponse, error) {
	var out BoletoResponse
	err := c.breaker.Execute(func() error {
		return c.post(ctx, "/pedidos/"+idExterno+"/boleto", struct{}{}, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *FaturamentoClient) post(ctx context.Context, path string, payload, out interface{}) error {
	if !c.Habilitado() {
		return fmt.Errorf("faturamento: FATURAMENTO_URL não configurada")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("faturamento: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("faturamento: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("faturamento: upstream unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("faturamento: %s returned %d: %s", path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("faturamento: decode response: %w", err)
	}
	return nil
}
