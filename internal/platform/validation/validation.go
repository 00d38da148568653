// Package validation reúne los errores de formulario que se muestran inline.
// Un error de validación nunca llega a la red.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

// FieldError apunta al campo del formulario que hay que corregir.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

func Field(field, msg string) *FieldError {
	return &FieldError{Field: field, Message: msg}
}

// Errors junta varios FieldError; se muestra el primero como mensaje.
type Errors []*FieldError

func (es Errors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (es Errors) Unwrap() error { return ErrInvalidInput }

// Err devuelve nil si no hay errores acumulados.
func (es Errors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// Required agrega un error por cada valor vacío (con trim).
func (es *Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		*es = append(*es, Field(field, "required"))
	}
}

func (es *Errors) Add(field, msg string) {
	*es = append(*es, Field(field, msg))
}

// Fields devuelve field => mensaje, para responder al front.
func Fields(err error) map[string]string {
	out := map[string]string{}
	var es Errors
	if errors.As(err, &es) {
		for _, e := range es {
			if _, seen := out[e.Field]; !seen {
				out[e.Field] = e.Message
			}
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		out[fe.Field] = fe.Message
	}
	return out
}
