package appointments

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Appointment es un turno tal como lo devuelve GET /appointments/with-names.
// Pet/owner/doctor vienen desnormalizados para mostrar; la fuente de verdad es la API.
type Appointment struct {
	ID        string    `json:"id"`
	Date      Instant   `json:"date"`
	Diagnosis string    `json:"diagnosis"`
	Treatment string    `json:"treatment"`
	Pet       PetRef    `json:"pet"`
	Doctor    DoctorRef `json:"doctor"`
}

type PetRef struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Owner OwnerRef `json:"owner"`
}

type OwnerRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (o OwnerRef) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

type DoctorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Instant es la fecha-hora del turno. Es la única fuente: fecha y hora
// para mostrar se derivan de acá.
//
// Valid=false si vino null, vacío o no parseable; esos turnos quedan
// fuera de toda vista por fecha.
type Instant struct {
	Time  time.Time
	Valid bool
}

func At(t time.Time) Instant {
	return Instant{Time: t.UTC(), Valid: true}
}

// formatos aceptados; los que no traen zona se toman como UTC
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

func ParseInstant(s string) Instant {
	s = strings.TrimSpace(s)
	if s == "" {
		return Instant{}
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return At(t)
		}
	}
	return Instant{}
}

func (i *Instant) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*i = Instant{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// un tipo inesperado no tumba toda la colección
		*i = Instant{}
		return nil
	}
	*i = ParseInstant(s)
	return nil
}

func (i Instant) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Time.UTC().Format(time.RFC3339))
}

// CreateRequest es el body de POST /appointments.
type CreateRequest struct {
	Date      time.Time `json:"date"`
	Diagnosis string    `json:"diagnosis"`
	Treatment string    `json:"treatment"`
	PetID     string    `json:"pet_id"`
	DoctorID  string    `json:"doctor_id"`
}

// UpdateRequest es el body de PATCH /appointments/{id}. nil = no tocar.
type UpdateRequest struct {
	Date      *time.Time `json:"date,omitempty"`
	Diagnosis *string    `json:"diagnosis,omitempty"`
	Treatment *string    `json:"treatment,omitempty"`
}
