package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Connection states reported by the messaging gateway.
const (
	WhatsAppDesconhecido = "desconhecido"
	WhatsAppConectado    = "conectado"
	WhatsAppDesconectado = "desconectado"
)

// WhatsAppEstado is a snapshot of the gateway connection.
type WhatsAppEstado struct {
	Estado      string
	UltimaVerif time.Time
	UltimoErro  string
}

func (e WhatsAppEstado) Conectado() bool { return e.Estado == WhatsAppConectado }

// WhatsAppClient sends messages through the WhatsApp side-service and keeps
// the last observed connection state. One instance is built in main and
// injected wherever messages are sent.
type WhatsAppClient struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.RWMutex
	estado WhatsAppEstado
}

func NewWhatsAppClient(baseURL string) *WhatsAppClient {
	return &WhatsAppClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		estado:     WhatsAppEstado{Estado: WhatsAppDesconhecido},
	}
}

// Habilitado reports whether a gateway URL is configured.
func (c *WhatsAppClient) Habilitado() bool { return c != nil && c.baseURL != "" }

// Estado returns the last observed connection state.
func (c *WhatsAppClient) Estado() WhatsAppEstado {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.estado
}

func (c *WhatsAppClient) registrar(estado string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.estado.Estado = estado
	c.estado.UltimaVerif = time.Now()
	if err != nil {
		c.estado.UltimoErro = err.Error()
	} else {
		c.estado.UltimoErro = ""
	}
}

type statusResponse struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
}

// Verificar probes GET /status and updates the cached state.
func (c *WhatsAppClient) Verificar(ctx context.Context) (WhatsAppEstado, error) {
	if !c.Habilitado() {
		return c.Estado(), fmt.Errorf("whatsapp: WHATSAPP_URL não configurada")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return c.Estado(), fmt.Errorf("whatsapp: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.registrar(WhatsAppDesconectado, err)
		return c.Estado(), fmt.Errorf("whatsapp: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("whatsapp: /status returned %d", resp.StatusCode)
		c.registrar(WhatsAppDesconectado, err)
		return c.Estado(), err
	}
	var st statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		c.registrar(WhatsAppDesconectado, err)
		return c.Estado(), fmt.Errorf("whatsapp: decode status: %w", err)
	}
	if st.Connected {
		c.registrar(WhatsAppConectado, nil)
	} else {
		c.registrar(WhatsAppDesconectado, nil)
	}
	return c.Estado(), nil
}

// Enviar sends POST /send-message. A failed send marks the client disconnected.
func (c *WhatsAppClient) Enviar(ctx context.Context, telefone, mensagem string) error {
	if !c.Habilitado() {
		return fmt.Errorf("whatsapp: WHATSAPP_URL não configurada")
	}
	body, err := json.Marshal(map[string]string{"number": telefone, "message": mensagem})
	if err != nil {
		return fmt.Errorf("whatsapp: marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-message", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.registrar(WhatsAppDesconectado, err)
		return fmt.Errorf("whatsapp: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("whatsapp: /send-message returned %d", resp.StatusCode)
		c.registrar(WhatsAppDesconectado, err)
		return err
	}
	c.registrar(WhatsAppConectado, nil)
	return nil
}
