package vetapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"petcheck-dashboard/internal/platform/httpclient"
)

// Collection es el nombre de una colección remota.
type Collection string

const (
	CollectionAppointments Collection = "appointments"
	CollectionCustomers    Collection = "customers"
	CollectionDoctors      Collection = "doctors"
	// CollectionPets va keyed por cliente.
	CollectionPets Collection = "pets"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrMissingKey        = errors.New("collection requires a key")
)

// Path resuelve el endpoint de la colección.
func (c Collection) Path(key string) (string, error) {
	switch c {
	case CollectionAppointments:
		return "/appointments/with-names", nil
	case CollectionCustomers:
		return "/customers", nil
	case CollectionDoctors:
		return "/doctors", nil
	case CollectionPets:
		if key == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingKey, c)
		}
		return itemPath("/pets/by-customer", key), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, string(c))
	}
}

// FetchCollection pide una colección completa con la credencial de la sesión.
// Sin credencial falla con httpclient.ErrUnauthorized sin salir a la red.
// Nunca devuelve nil en éxito: una respuesta vacía es una lista vacía.
func FetchCollection[T any](ctx context.Context, c *Client, collection Collection, key string) ([]T, error) {
	if c == nil || c.http == nil {
		return nil, ErrNotConfigured
	}
	path, err := collection.Path(key)
	if err != nil {
		return nil, err
	}

	var out []T
	err = c.http.DoJSON(ctx, httpclient.Request{
		Op:     string(collection) + ".list",
		Method: http.MethodGet,
		Path:   path,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
