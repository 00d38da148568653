package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized: credencial ausente, vencida o rechazada (401/403).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrServer: cualquier otra respuesta no-2xx.
	ErrServer = errors.New("request failed")
	// ErrNetwork: el request no obtuvo respuesta (transporte, timeout, cancelación).
	ErrNetwork = errors.New("network error")
)

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string

	// Detail es el campo "detail" del body JSON, si vino.
	Detail string
}

func newHTTPError(status int, raw []byte) *HTTPError {
	body := strings.TrimSpace(string(raw))
	return &HTTPError{
		StatusCode: status,
		Body:       body,
		Detail:     parseDetail(raw),
	}
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("http error: status=%d detail=%s", e.StatusCode, e.Detail)
	}
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return ErrServer
}

// NetworkError envuelve fallas de transporte.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return fmt.Sprintf("network error: op=%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// parseDetail soporta {"detail": "texto"} y la forma de validación
// {"detail": [{"msg": "..."}]}. Cualquier otra cosa => "".
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if m := strings.TrimSpace(it.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// Detail devuelve el detalle que mandó el servidor, si hay.
func Detail(err error) (string, bool) {
	var he *HTTPError
	if errors.As(err, &he) && he.Detail != "" {
		return he.Detail, true
	}
	return "", false
}

// UserMessage elige el texto a mostrar: el detail del servidor o el fallback.
func UserMessage(err error, fallback string) string {
	if d, ok := Detail(err); ok {
		return d
	}
	return fallback
}

// SessionInvalid dice si el error implica que la credencial ya no sirve
// (ausente o 401). Un 403 es falta de permiso: la sesión sigue vigente.
func SessionInvalid(err error) bool {
	if !errors.Is(err, ErrUnauthorized) {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) && he.StatusCode == http.StatusForbidden {
		return false
	}
	return true
}
