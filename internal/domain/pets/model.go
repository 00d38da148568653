package pets

import (
	"strings"

	"petcheck-dashboard/internal/platform/validation"
)

// Pet es una mascota tal como la devuelve la API. Pertenece a un solo cliente.
type Pet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Animal     string `json:"animal"` // especie, texto libre ("Perro", "Gato")
	Breed      string `json:"breed"`
	Age        int    `json:"age"`
	CustomerID string `json:"customer_id"`
}

// CreateInput es el body de POST /pets.
type CreateInput struct {
	Name       string `json:"name"`
	Animal     string `json:"animal"`
	Breed      string `json:"breed"`
	Age        int    `json:"age"`
	CustomerID string `json:"customer_id"`
}

// Normalize recorta espacios antes de validar/enviar.
func (in CreateInput) Normalize() CreateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Animal = strings.TrimSpace(in.Animal)
	in.Breed = strings.TrimSpace(in.Breed)
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	return in
}

func (in CreateInput) Validate() error {
	var es validation.Errors
	es.Required("customer_id", in.CustomerID)
	es.Required("name", in.Name)
	es.Required("animal", in.Animal)
	es.Required("breed", in.Breed)
	if in.Age < 0 {
		es.Add("age", "must be zero or greater")
	}
	return es.Err()
}
