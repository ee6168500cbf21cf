// Package odoo implementa el acceso al ERP por JSON-RPC: autenticación de
// sesión, el cliente genérico search/create/read/write/invoke y los servicios
// por entidad que consumen los pipelines.
package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Credentials son los datos de conexión al ERP. Solo esta capa los conoce:
// los casos de uso reciben un contexto de llamada ya autenticado.
type Credentials struct {
	URL      string // https://erp.ejemplo.cl
	DB       string
	Username string
	Password string
}

// Session administra el ciclo de vida de la sesión remota: autentica contra
// /web/session/authenticate, conserva la cookie session_id y el uid, y se
// reautentica bajo demanda cuando el cliente detecta expiración.
type Session struct {
	creds Credentials
	http  *http.Client

	mu        sync.Mutex
	sessionID string
	uid       int
}

// NewSession construye la sesión. El timeout es generoso: el ERP puede tardar
// varios segundos en responder una autenticación.
func NewSession(creds Credentials) *Session {
	return &Session{
		creds: creds,
		http:  &http.Client{Timeout: 60 * time.Second},
	}
}

type authRequest struct {
	JSONRPC string     `json:"jsonrpc"`
	Params  authParams `json:"params"`
}

type authParams struct {
	DB       string `json:"db"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	Result *struct {
		UID int `json:"uid"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

// Current devuelve la cookie de sesión y el uid vigentes, autenticando si
// todavía no hay sesión.
func (s *Session) Current(ctx context.Context) (sessionID string, uid int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID == "" {
		if err := s.authenticate(ctx); err != nil {
			return "", 0, err
		}
	}
	return s.sessionID, s.uid, nil
}

// Invalidate descarta la sesión vigente; la próxima llamada reautentica.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.sessionID = ""
	s.uid = 0
	s.mu.Unlock()
}

func (s *Session) authenticate(ctx context.Context) error {
	body, err := json.Marshal(authRequest{
		JSONRPC: "2.0",
		Params: authParams{
			DB:       s.creds.DB,
			Login:    s.creds.Username,
			Password: s.creds.Password,
		},
	})
	if err != nil {
		return fmt.Errorf("serializar autenticación: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.creds.URL+"/web/session/authenticate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("armar autenticación: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("autenticar contra el ERP: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("leer respuesta de autenticación: %w", err)
	}
	var parsed authResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parsear respuesta de autenticación: %w", err)
	}
	if parsed.Error != nil {
		return fmt.Errorf("autenticación rechazada: %s", parsed.Error.Message)
	}
	if parsed.Result == nil || parsed.Result.UID == 0 {
		return fmt.Errorf("autenticación sin uid en la respuesta")
	}

	sessionID := sessionCookie(resp)
	if sessionID == "" {
		return fmt.Errorf("autenticación sin cookie de sesión")
	}

	s.sessionID = sessionID
	s.uid = parsed.Result.UID
	return nil
}

// sessionCookie extrae la cookie session_id de la respuesta.
func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c.Value
		}
	}
	// Algunos proxies reescriben Set-Cookie; último recurso sobre el header.
	if raw := resp.Header.Get("Set-Cookie"); strings.HasPrefix(raw, "session_id=") {
		v := strings.TrimPrefix(raw, "session_id=")
		if i := strings.IndexByte(v, ';'); i >= 0 {
			v = v[:i]
		}
		return v
	}
	return ""
}
