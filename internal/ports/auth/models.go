package auth

import "time"

// RoleAdmin habilita la vista de alta de usuarios.
const RoleAdmin = "admin"

// Claims representa la información que viaja en el token de la API.
type Claims struct {
	Email     string
	Role      string
	ExpiresAt time.Time // zero si el token no trae exp
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Expired es false cuando el token no declara vencimiento.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
