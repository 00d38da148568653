package fakevetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petcheck-dashboard/internal/domain/customers"
	"petcheck-dashboard/internal/domain/doctors"
	"petcheck-dashboard/internal/domain/pets"
	"petcheck-dashboard/internal/domain/users"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	u, ok := s.store.checkPassword(req.Email, req.Password)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	tok, err := s.sign(u.Email, u.Role, time.Now().Add(time.Hour))
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not sign token")
		return
	}
	// la API real responde el token como string JSON
	writeJSON(w, http.StatusOK, tok)
}

// --- appointments ---

func (s *Server) listAppointments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.withNames())
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      string `json:"date"`
		Diagnosis string `json:"diagnosis"`
		Treatment string `json:"treatment"`
		PetID     string `json:"pet_id"`
		DoctorID  string `json:"doctor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := time.Parse(time.RFC3339, req.Date); err != nil {
		writeValidation(w, "date must be an ISO 8601 datetime")
		return
	}
	a, err := s.store.putAppointment(appointmentRec{
		Date:      req.Date,
		Diagnosis: req.Diagnosis,
		Treatment: req.Treatment,
		PetID:     req.PetID,
		DoctorID:  req.DoctorID,
	})
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Pet or doctor not found")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.wire(a))
}

func (s *Server) updateAppointment(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.getAppointment(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	var req struct {
		Date      *string `json:"date"`
		Diagnosis *string `json:"diagnosis"`
		Treatment *string `json:"treatment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Date != nil {
		if _, err := time.Parse(time.RFC3339, *req.Date); err != nil {
			writeValidation(w, "date must be an ISO 8601 datetime")
			return
		}
		a.Date = *req.Date
	}
	if req.Diagnosis != nil {
		a.Diagnosis = *req.Diagnosis
	}
	if req.Treatment != nil {
		a.Treatment = *req.Treatment
	}
	a, err = s.store.putAppointment(a)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Pet or doctor not found")
		return
	}
	writeJSON(w, http.StatusOK, s.store.wire(a))
}

func (s *Server) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteAppointment(chi.URLParam(r, "id")); err != nil {
		writeDetail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- customers ---

func (s *Server) listCustomers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listCustomers())
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var p customers.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	c := s.store.putCustomer(customers.Customer{FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, Phone: p.Phone})
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.getCustomer(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Customer not found")
		return
	}
	var p customers.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	c.FirstName, c.LastName, c.Email, c.Phone = p.FirstName, p.LastName, p.Email, p.Phone
	writeJSON(w, http.StatusOK, s.store.putCustomer(c))
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteCustomer(chi.URLParam(r, "id")); err != nil {
		writeDetail(w, http.StatusNotFound, "Customer not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- pets ---

func (s *Server) getPet(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.getPet(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Pet not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) petsByCustomer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.petsByCustomer(chi.URLParam(r, "customerID")))
}

func (s *Server) createPet(w http.ResponseWriter, r *http.Request) {
	var in pets.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := s.store.putPet(pets.Pet{Name: in.Name, Animal: in.Animal, Breed: in.Breed, Age: in.Age, CustomerID: in.CustomerID})
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Customer not found")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// --- doctors ---

func (s *Server) listDoctors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listDoctors())
}

func (s *Server) createDoctor(w http.ResponseWriter, r *http.Request) {
	var f doctors.Form
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.putDoctor(doctors.Doctor{Name: f.Name}))
}

func (s *Server) updateDoctor(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.getDoctor(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Doctor not found")
		return
	}
	var f doctors.Form
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	d.Name = f.Name
	writeJSON(w, http.StatusOK, s.store.putDoctor(d))
}

func (s *Server) deleteDoctor(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteDoctor(chi.URLParam(r, "id")); err != nil {
		writeDetail(w, http.StatusNotFound, "Doctor not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- users ---

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	if claims.Role != string(users.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin role required")
		return
	}
	var in users.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := s.store.putUser(userRec{User: users.User{Email: in.Email, Role: in.Role}, Password: in.Password})
	if err != nil {
		writeDetail(w, http.StatusConflict, "Email already registered")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// --- helpers ---

func withClaims(ctx context.Context, c tokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func claimsFrom(ctx context.Context) (tokenClaims, bool) {
	c, ok := ctx.Value(claimsKey).(tokenClaims)
	return c, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidation imita la forma 422 {"detail": [{"msg": ...}]}.
func writeValidation(w http.ResponseWriter, msgs ...string) {
	items := make([]map[string]string, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, map[string]string{"msg": m})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": items})
}

func readCloser(raw json.RawMessage) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(raw))
}
