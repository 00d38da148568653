// Package session guarda la credencial del usuario logueado.
//
// Reemplaza al slot global de token: se crea una Session por proceso y se
// pasa explícitamente a quien la necesite (cliente HTTP, router).
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"petcheck-dashboard/internal/ports/auth"
)

var ErrEmptyToken = errors.New("empty token")

type Session struct {
	mu     sync.RWMutex
	token  string
	claims auth.Claims
	// decoded=false si el token no es un JWT legible; igual se usa como bearer.
	decoded bool

	now func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// NewWithClock permite fijar el reloj (tests de vencimiento).
func NewWithClock(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{now: now}
}

// Login guarda el token y decodifica sus claims.
func (s *Session) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	claims, ok := decodeClaims(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.claims = claims
	s.decoded = ok
	return nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.claims = auth.Claims{}
	s.decoded = false
}

// Token implementa auth.CredentialSource. Un token vencido cuenta como ausente.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", false
	}
	if s.decoded && s.claims.Expired(s.now()) {
		return "", false
	}
	return s.token, true
}

// Authenticated es true si hay un token usable.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Claims devuelve los claims del token, si se pudieron leer.
func (s *Session) Claims() (auth.Claims, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || !s.decoded {
		return auth.Claims{}, false
	}
	return s.claims, true
}

type tokenPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// decodeClaims lee el payload sin verificar firma: quien verifica es la API.
func decodeClaims(token string) (auth.Claims, bool) {
	var p tokenPayload
	if _, _, err := jwt.NewParser().ParseUnverified(token, &p); err != nil {
		return auth.Claims{}, false
	}

	c := auth.Claims{
		Email: strings.TrimSpace(p.Email),
		Role:  strings.TrimSpace(p.Role),
	}
	if p.ExpiresAt != nil {
		c.ExpiresAt = p.ExpiresAt.Time
	}
	return c, true
}
