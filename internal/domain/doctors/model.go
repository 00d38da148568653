package doctors

import (
	"strings"

	"petcheck-dashboard/internal/platform/validation"
)

// Doctor es referenciado por los turnos; no es dueño de ellos.
type Doctor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Form es el body de POST/PATCH /doctors.
type Form struct {
	Name string `json:"name"`
}

func (f Form) Validate() (Form, error) {
	f.Name = strings.TrimSpace(f.Name)
	var es validation.Errors
	es.Required("name", f.Name)
	return f, es.Err()
}
