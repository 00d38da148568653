// Package fakevetapi es una API de clínica en memoria para tests.
//
// Expone las mismas rutas que la API real bajo /api/v1, firma tokens JWT
// propios, cuenta llamadas por ruta y permite inyectar fallas o frenar una
// ruta hasta que el test la libere.
package fakevetapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"petcheck-dashboard/internal/domain/customers"
	"petcheck-dashboard/internal/domain/doctors"
	"petcheck-dashboard/internal/domain/pets"
	"petcheck-dashboard/internal/domain/users"
)

const BasePath = "/api/v1"

// Rutas, como las usan Calls/FailNext/Hold.
const (
	RouteLogin             = "POST /login"
	RouteListAppointments  = "GET /appointments/with-names"
	RouteCreateAppointment = "POST /appointments"
	RouteUpdateAppointment = "PATCH /appointments/{id}"
	RouteDeleteAppointment = "DELETE /appointments/{id}"
	RouteListCustomers     = "GET /customers"
	RouteCreateCustomer    = "POST /customers"
	RouteUpdateCustomer    = "PATCH /customers/{id}"
	RouteDeleteCustomer    = "DELETE /customers/{id}"
	RouteGetPet            = "GET /pets/{id}"
	RoutePetsByCustomer    = "GET /pets/by-customer/{customerID}"
	RouteCreatePet         = "POST /pets"
	RouteListDoctors       = "GET /doctors"
	RouteCreateDoctor      = "POST /doctors"
	RouteUpdateDoctor      = "PATCH /doctors/{id}"
	RouteDeleteDoctor      = "DELETE /doctors/{id}"
	RouteCreateUser        = "POST /users"
)

type failure struct {
	status int
	detail string
}

type Server struct {
	*httptest.Server

	store  *store
	secret []byte

	mu       sync.Mutex
	calls    map[string]int
	failures map[string][]failure
	holds    map[string]chan struct{}
	bodies   map[string][]json.RawMessage
}

// New levanta el servidor; se cierra con t.Cleanup(srv.Close) o srv.Close().
func New() *Server {
	s := &Server{
		store:    newStore(),
		secret:   []byte("fakevetapi-secret"),
		calls:    make(map[string]int),
		failures: make(map[string][]failure),
		holds:    make(map[string]chan struct{}),
		bodies:   make(map[string][]json.RawMessage),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// BaseURL es la URL a configurar en el cliente (incluye /api/v1).
func (s *Server) BaseURL() string {
	return s.URL + BasePath
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Route(BasePath, func(api chi.Router) {
		s.handle(api, RouteLogin, false, s.login)

		s.handle(api, RouteListAppointments, true, s.listAppointments)
		s.handle(api, RouteCreateAppointment, true, s.createAppointment)
		s.handle(api, RouteUpdateAppointment, true, s.updateAppointment)
		s.handle(api, RouteDeleteAppointment, true, s.deleteAppointment)

		s.handle(api, RouteListCustomers, true, s.listCustomers)
		s.handle(api, RouteCreateCustomer, true, s.createCustomer)
		s.handle(api, RouteUpdateCustomer, true, s.updateCustomer)
		s.handle(api, RouteDeleteCustomer, true, s.deleteCustomer)

		s.handle(api, RoutePetsByCustomer, true, s.petsByCustomer)
		s.handle(api, RouteGetPet, true, s.getPet)
		s.handle(api, RouteCreatePet, true, s.createPet)

		s.handle(api, RouteListDoctors, true, s.listDoctors)
		s.handle(api, RouteCreateDoctor, true, s.createDoctor)
		s.handle(api, RouteUpdateDoctor, true, s.updateDoctor)
		s.handle(api, RouteDeleteDoctor, true, s.deleteDoctor)

		s.handle(api, RouteCreateUser, true, s.createUser)
	})
	return r
}

type ctxKey string

const claimsKey ctxKey = "claims"

// handle registra la ruta envuelta con: conteo, falla inyectada, hold y auth.
func (s *Server) handle(r chi.Router, route string, authenticated bool, h http.HandlerFunc) {
	method, pattern, _ := strings.Cut(route, " ")
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gate, f, failed := s.enter(route, req)
		if gate != nil {
			select {
			case <-gate:
			case <-req.Context().Done():
				return
			}
		}
		if failed {
			writeDetail(w, f.status, f.detail)
			return
		}
		if authenticated {
			claims, err := s.verify(req.Header.Get("Authorization"))
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			req = req.WithContext(withClaims(req.Context(), claims))
		}
		h(w, req)
	}))
}

func (s *Server) enter(route string, req *http.Request) (chan struct{}, failure, bool) {
	var raw json.RawMessage
	if req.Body != nil && req.ContentLength != 0 {
		if err := json.NewDecoder(req.Body).Decode(&raw); err == nil {
			req.Body = readCloser(raw)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[route]++
	if raw != nil {
		s.bodies[route] = append(s.bodies[route], raw)
	}
	gate := s.holds[route]

	q := s.failures[route]
	if len(q) == 0 {
		return gate, failure{}, false
	}
	f := q[0]
	s.failures[route] = q[1:]
	return gate, f, true
}

// Calls devuelve cuántas veces se pidió la ruta.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Bodies devuelve los bodies JSON recibidos por la ruta, en orden.
func (s *Server) Bodies(route string) []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]json.RawMessage(nil), s.bodies[route]...)
}

func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
	s.bodies = make(map[string][]json.RawMessage)
}

// FailNext hace que el próximo request a la ruta responda status + detail.
func (s *Server) FailNext(route string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, detail: detail})
}

// Hold frena los requests a la ruta hasta llamar a release.
func (s *Server) Hold(route string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.holds[route] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[route] == gate {
				delete(s.holds, route)
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

// --- seeds ---

func (s *Server) AddUser(email, password string, role users.Role) users.User {
	u, err := s.store.putUser(userRec{User: users.User{Email: email, Role: role}, Password: password})
	if err != nil {
		panic(err)
	}
	return u
}

func (s *Server) AddCustomer(firstName, lastName string) customers.Customer {
	return s.store.putCustomer(customers.Customer{
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.ToLower(firstName) + "@example.com",
		Phone:     5551234,
	})
}

func (s *Server) AddPet(customerID, name, animal string) pets.Pet {
	p, err := s.store.putPet(pets.Pet{Name: name, Animal: animal, Breed: "Mestizo", Age: 3, CustomerID: customerID})
	if err != nil {
		panic(err)
	}
	return p
}

func (s *Server) AddDoctor(name string) doctors.Doctor {
	return s.store.putDoctor(doctors.Doctor{Name: name})
}

// AddAppointment guarda date en RFC 3339 UTC.
func (s *Server) AddAppointment(petID, doctorID string, at time.Time, diagnosis string) string {
	return s.AddRawAppointment(petID, doctorID, at.UTC().Format(time.RFC3339), diagnosis)
}

// AddRawAppointment guarda date tal cual (sirve para fechas inválidas).
func (s *Server) AddRawAppointment(petID, doctorID, date, diagnosis string) string {
	a, err := s.store.putAppointment(appointmentRec{Date: date, Diagnosis: diagnosis, PetID: petID, DoctorID: doctorID})
	if err != nil {
		panic(err)
	}
	return a.ID
}

// Token firma un token válido por una hora para email/role.
func (s *Server) Token(email string, role users.Role) string {
	tok, err := s.sign(email, role, time.Now().Add(time.Hour))
	if err != nil {
		panic(err)
	}
	return tok
}

// --- auth ---

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) sign(email string, role users.Role, exp time.Time) (string, error) {
	claims := tokenClaims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) verify(header string) (tokenClaims, error) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return tokenClaims{}, errors.New("missing bearer token")
	}
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return tokenClaims{}, err
	}
	return claims, nil
}
