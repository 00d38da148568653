package customers

import (
	"net/mail"
	"strconv"
	"strings"

	"petcheck-dashboard/internal/platform/validation"
)

// Rango aceptado para el teléfono: entre 7 y 10 dígitos.
const (
	minPhone = 1_000_000
	maxPhone = 9_999_999_999
)

// Customer es el dueño de las mascotas. Las mascotas no vienen embebidas:
// se piden aparte por cliente (ver pets.Cache).
type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     int64  `json:"phone,omitempty"`
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Form es lo que carga el usuario; el teléfono llega como texto.
type Form struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Payload es el body que se manda a POST/PATCH /customers.
type Payload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     int64  `json:"phone"`
}

// Validate exige todos los campos, email válido y teléfono numérico de 7 a 10 dígitos.
func (f Form) Validate() (Payload, error) {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)

	var es validation.Errors
	es.Required("firstName", f.FirstName)
	es.Required("lastName", f.LastName)
	es.Required("email", f.Email)
	es.Required("phone", f.Phone)
	if len(es) > 0 {
		return Payload{}, es.Err()
	}

	if _, err := mail.ParseAddress(f.Email); err != nil {
		es.Add("email", "invalid email")
	}

	phone, err := strconv.ParseInt(f.Phone, 10, 64)
	if err != nil || phone < minPhone || phone > maxPhone {
		es.Add("phone", "must be a number with 7 to 10 digits")
	}
	if err := es.Err(); err != nil {
		return Payload{}, err
	}

	return Payload{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     phone,
	}, nil
}
