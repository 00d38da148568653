package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"petcheck-dashboard/internal/ports/auth"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20 // 1MB
)

// Client envuelve *http.Client con los helpers que necesitan los adapters.
type Client struct {
	HTTP    *http.Client
	BaseURL string // opcional; si se define, DoJSON puede recibir paths relativos

	// Credentials es opcional. Si está seteado, cada request autenticado
	// lleva "Authorization: Bearer <token>".
	Credentials auth.CredentialSource

	// Observer recibe el resultado de cada request (métricas).
	Observer Observer
}

// Observer recibe una observación por request terminado.
// status es el código HTTP o 0 si el request no llegó a tener respuesta.
type Observer interface {
	ObserveRequest(op, method string, status int, elapsed time.Duration)
}

// New crea un Client con timeout razonable.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	_, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// Request describe una llamada JSON.
type Request struct {
	// Op es un nombre estable para logs y métricas (p.ej. "appointments.list").
	Op     string
	Method string
	Path   string // URL absoluta o path relativo a BaseURL

	// Public evita exigir credencial (login).
	Public bool

	In  any // body a enviar; nil => sin body
	Out any // destino del JSON de respuesta; nil => se ignora
}

// DoJSON ejecuta el request y decodifica la respuesta.
// Errores posibles (ver errors.go): ErrUnauthorized, ErrServer (*HTTPError), ErrNetwork.
// No reintenta: POST/PATCH/DELETE no son idempotentes y el caller decide.
func (c *Client) DoJSON(ctx context.Context, r Request) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	var token string
	if !r.Public {
		if c.Credentials == nil {
			return fmt.Errorf("%w: no credential source", ErrUnauthorized)
		}
		t, ok := c.Credentials.Token()
		if !ok || strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: no session", ErrUnauthorized)
		}
		token = t
	}

	fullURL, err := c.resolveURL(r.Path)
	if err != nil {
		return err
	}

	var body io.Reader
	if r.In != nil {
		b, err := json.Marshal(r.In)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if r.In != nil || isStateChanging(method) {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.observe(r.Op, method, 0, started)
		return &NetworkError{Op: r.Op, Err: err}
	}
	defer resp.Body.Close()
	c.observe(r.Op, method, resp.StatusCode, started)

	raw, err := readAtMost(resp.Body, maxBodyBytes)
	if errors.Is(err, errBodyTooLarge) {
		return fmt.Errorf("%w: op=%s: %w", ErrServer, r.Op, err)
	}
	if err != nil {
		return &NetworkError{Op: r.Op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(resp.StatusCode, raw)
	}

	if r.Out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, r.Out); err != nil {
		// 2xx con un body que no es lo esperado: falla del servidor, no nuestra
		return fmt.Errorf("%w: op=%s: unmarshal json: %w", ErrServer, r.Op, err)
	}
	return nil
}

func (c *Client) observe(op, method string, status int, started time.Time) {
	if c.Observer == nil {
		return
	}
	c.Observer.ObserveRequest(op, method, status, time.Since(started))
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	// Si ya es URL absoluta, úsala tal cual.
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}

var errBodyTooLarge = errors.New("response body exceeds limit")

// readAtMost lee hasta max bytes; si el body es más largo no lo trunca, falla.
func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = maxBodyBytes
	}
	raw, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > max {
		return nil, fmt.Errorf("%w (%d bytes)", errBodyTooLarge, max)
	}
	return raw, nil
}
