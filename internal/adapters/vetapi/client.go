// Package vetapi es el cliente tipado de la API REST de la clínica (/api/v1).
package vetapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"petcheck-dashboard/internal/domain/appointments"
	"petcheck-dashboard/internal/domain/customers"
	"petcheck-dashboard/internal/domain/doctors"
	"petcheck-dashboard/internal/domain/pets"
	"petcheck-dashboard/internal/domain/users"
	"petcheck-dashboard/internal/platform/httpclient"
	"petcheck-dashboard/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("vetapi client not configured")
	ErrEmptyToken    = errors.New("login response without token")
)

// Config del cliente. BaseURL incluye el prefijo /api/v1.
type Config struct {
	BaseURL string
	Timeout time.Duration

	Credentials auth.CredentialSource
	Observer    httpclient.Observer
}

type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.Credentials = cfg.Credentials
	hc.Observer = cfg.Observer
	return &Client{http: hc}, nil
}

// Login cambia credenciales por el bearer token. No requiere sesión.
// La API responde el token como string JSON; también se acepta
// {"access_token": ...} o {"token": ...}.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	in := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	var raw json.RawMessage
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op:     "login",
		Method: http.MethodPost,
		Path:   "/login",
		Public: true,
		In:     in,
		Out:    &raw,
	})
	if err != nil {
		return "", err
	}
	token := decodeToken(raw)
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

func decodeToken(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	if t := strings.TrimSpace(obj.AccessToken); t != "" {
		return t
	}
	return strings.TrimSpace(obj.Token)
}

// --- appointments ---

func (c *Client) ListAppointments(ctx context.Context) ([]appointments.Appointment, error) {
	return FetchCollection[appointments.Appointment](ctx, c, CollectionAppointments, "")
}

func (c *Client) CreateAppointment(ctx context.Context, req appointments.CreateRequest) (appointments.Appointment, error) {
	var out appointments.Appointment
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op: "appointments.create", Method: http.MethodPost, Path: "/appointments", In: req, Out: &out,
	})
	return out, err
}

func (c *Client) UpdateAppointment(ctx context.Context, id string, req appointments.UpdateRequest) (appointments.Appointment, error) {
	var out appointments.Appointment
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op: "appointments.update", Method: http.MethodPatch, Path: itemPath("/appointments", id), In: req, Out: &out,
	})
	return out, err
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	return c.http.DoJSON(ctx, httpclient.Request{
		Op: "appointments.delete", Method: http.MethodDelete, Path: itemPath("/appointments", id),
	})
}

// --- customers ---

func (c *Client) ListCustomers(ctx context.Context) ([]customers.Customer, error) {
	return FetchCollection[customers.Customer](ctx, c, CollectionCustomers, "")
}

func (c *Client) CreateCustomer(ctx context.Context, p customers.Payload) (customers.Customer, error) {
	var out customers.Customer
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op: "customers.create", Method: http.MethodPost, Path: "/customers", In: p, Out: &out,
	})
	return out, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, p customers.Payload) (customers.Customer, error) {
	var out customers.Customer
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op: "customers.update", Method: http.MethodPatch, Path: itemPath("/customers", id), In: p, Out: &out,
	})
	return out, err
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.http.DoJSON(ctx, httpclient.Request{
		Op: "customers.delete", Method: http.MethodDelete, Path: itemPath("/customers", id),
	})
}

// --- pets ---

func (c *Client) GetPet(ctx context.Context, id string) (pets.Pet, error) {
	var out pets.Pet
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op: "pets.get", Method: http.MethodGet, Path: itemPath("/pets", id), Out: &out,
	})
	return out, err
}

// ListPetsByCustomer implementa pets.Fetcher.
func (c *Client) ListPetsByCustomer(ctx context.Context, customerID string) ([]pets.Pet, error) {
	return FetchCollection[pets.Pet](ctx, c, CollectionPets, customerID)
}

func (c *Client) CreatePet(ctx context.Context, in pets.CreateInput) (pets.Pet, error) {
	var out pets.Pet
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op: "pets.create", Method: http.MethodPost, Path: "/pets", In: in, Out: &out,
	})
	return out, err
}

// --- doctors ---

func (c *Client) ListDoctors(ctx context.Context) ([]doctors.Doctor, error) {
	return FetchCollection[doctors.Doctor](ctx, c, CollectionDoctors, "")
}

func (c *Client) CreateDoctor(ctx context.Context, f doctors.Form) (doctors.Doctor, error) {
	var out doctors.Doctor
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op: "doctors.create", Method: http.MethodPost, Path: "/doctors", In: f, Out: &out,
	})
	return out, err
}

func (c *Client) UpdateDoctor(ctx context.Context, id string, f doctors.Form) (doctors.Doctor, error) {
	var out doctors.Doctor
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op: "doctors.update", Method: http.MethodPatch, Path: itemPath("/doctors", id), In: f, Out: &out,
	})
	return out, err
}

func (c *Client) DeleteDoctor(ctx context.Context, id string) error {
	return c.http.DoJSON(ctx, httpclient.Request{
		Op: "doctors.delete", Method: http.MethodDelete, Path: itemPath("/doctors", id),
	})
}

// --- users ---

func (c *Client) CreateUser(ctx context.Context, in users.CreateInput) (users.User, error) {
	var out users.User
	err := c.http.DoJSON(ctx, httpclient.Request{
		Op: "users.create", Method: http.MethodPost, Path: "/users", In: in, Out: &out,
	})
	return out, err
}

func itemPath(base, id string) string {
	return fmt.Sprintf("%s/%s", base, url.PathEscape(strings.TrimSpace(id)))
}
