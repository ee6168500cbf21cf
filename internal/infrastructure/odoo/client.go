package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/dte-migrator/internal/domain"
	"github.com/jhoicas/dte-migrator/pkg/logger"
)

// ── Estructuras JSON-RPC ──────────────────────────────────────────────────────

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Model  string         `json:"model"`
	Method string         `json:"method"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data"`
}

func (e *rpcError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("rpc: %s: %s", e.Message, e.Data.Message)
	}
	return fmt.Sprintf("rpc: %s", e.Message)
}

// sessionExpired reconoce el rechazo de sesión del ERP.
func (e *rpcError) sessionExpired() bool {
	return strings.Contains(e.Data.Name, "SessionExpired") ||
		strings.Contains(strings.ToLower(e.Message), "session expired")
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// ── Cliente ───────────────────────────────────────────────────────────────────

// Client es el almacén remoto del migrador: expone las cinco primitivas
// (search, create, read, write, invoke) sobre /web/dataset/call_kw. Ante una
// sesión expirada reautentica y reintenta exactamente una vez; cualquier otra
// falla de transporte se propaga sin reintento.
type Client struct {
	session *Session
	http    *http.Client
	url     string
	log     *logger.Logger
}

// NewClient construye el cliente sobre una sesión.
func NewClient(session *Session, log *logger.Logger) *Client {
	return &Client{
		session: session,
		http:    &http.Client{Timeout: 60 * time.Second},
		url:     session.creds.URL,
		log:     log,
	}
}

// call ejecuta un método de modelo y deserializa el resultado en out.
func (c *Client) call(ctx context.Context, model, method string, args []any, kwargs map[string]any, out any) error {
	err := c.doCall(ctx, model, method, args, kwargs, out)
	if errors.Is(err, domain.ErrSessionExpired) {
		c.log.Debug().Str("model", model).Str("method", method).Msg("sesión expirada, reautenticando")
		c.session.Invalidate()
		err = c.doCall(ctx, model, method, args, kwargs, out)
	}
	return err
}

func (c *Client) doCall(ctx context.Context, model, method string, args []any, kwargs map[string]any, out any) error {
	sessionID, _, err := c.session.Current(ctx)
	if err != nil {
		return err
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Model: model, Method: method, Args: args, Kwargs: kwargs},
	})
	if err != nil {
		return fmt.Errorf("serializar llamada %s.%s: %w", model, method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.url+"/web/dataset/call_kw", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("armar llamada %s.%s: %w", model, method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("llamar %s.%s: %w", model, method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("leer respuesta de %s.%s: %w", model, method, err)
	}
	var parsed rpcResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parsear respuesta de %s.%s: %w", model, method, err)
	}
	if parsed.Error != nil {
		if parsed.Error.sessionExpired() {
			return fmt.Errorf("%s.%s: %w", model, method, domain.ErrSessionExpired)
		}
		return fmt.Errorf("%s.%s: %w", model, method, parsed.Error)
	}
	if out != nil && len(parsed.Result) > 0 {
		if err := json.Unmarshal(parsed.Result, out); err != nil {
			return fmt.Errorf("deserializar resultado de %s.%s: %w", model, method, err)
		}
	}
	return nil
}

// Search devuelve los ids que cumplen el dominio de búsqueda.
func (c *Client) Search(ctx context.Context, model string, domainFilter []any, limit int) ([]int, error) {
	kwargs := map[string]any{}
	if limit > 0 {
		kwargs["limit"] = limit
	}
	var ids []int
	if err := c.call(ctx, model, "search", []any{domainFilter}, kwargs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Create crea un registro y devuelve su id.
func (c *Client) Create(ctx context.Context, model string, values map[string]any) (int, error) {
	var id int
	if err := c.call(ctx, model, "create", []any{values}, nil, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// Read lee los campos pedidos de un conjunto de registros.
func (c *Client) Read(ctx context.Context, model string, ids []int, fields []string) ([]map[string]any, error) {
	var records []map[string]any
	kwargs := map[string]any{"fields": fields}
	if err := c.call(ctx, model, "read", []any{ids}, kwargs, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Write aplica un parche sobre registros existentes.
func (c *Client) Write(ctx context.Context, model string, ids []int, values map[string]any) error {
	return c.call(ctx, model, "write", []any{ids, values}, nil, nil)
}

// Invoke ejecuta una acción de modelo (publicar, cancelar, conciliar).
func (c *Client) Invoke(ctx context.Context, model, action string, args []any) error {
	return c.call(ctx, model, action, args, nil, nil)
}
