// Package users cubre el alta de cuentas del staff (vista solo admin).
package users

import (
	"net/mail"
	"strings"

	"petcheck-dashboard/internal/platform/validation"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// CreateInput es el body de POST /users.
type CreateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Validate normaliza y valida. Sin rol => employee.
func (in CreateInput) Validate() (CreateInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Role = Role(strings.ToLower(strings.TrimSpace(string(in.Role))))
	if in.Role == "" {
		in.Role = RoleEmployee
	}

	var es validation.Errors
	es.Required("email", in.Email)
	es.Required("password", in.Password)
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			es.Add("email", "invalid email")
		}
	}
	if in.Role != RoleEmployee && in.Role != RoleAdmin {
		es.Add("role", "must be employee or admin")
	}
	return in, es.Err()
}

// User es lo que devuelve la API al crear (sin password).
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
