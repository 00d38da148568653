package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"petcheck-dashboard/internal/domain/customers"
	"petcheck-dashboard/internal/domain/doctors"
	"petcheck-dashboard/internal/domain/pets"
	"petcheck-dashboard/internal/domain/users"
)

// --- customers ---

// listCustomers godoc
// @Summary Listar clientes
// @Tags customers
// @Produce json
// @Success 200 {array} customers.Customer
// @Router /customers [get]
func (h *handlers) listCustomers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Store().Customers())
}

// createCustomer godoc
// @Summary Crear cliente
// @Description Valida email y teléfono antes de llamar a la API.
// @Tags customers
// @Accept json
// @Produce json
// @Param body body customers.Form true "Cliente"
// @Success 201 {object} customers.Customer
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /customers [post]
func (h *handlers) createCustomer(w http.ResponseWriter, r *http.Request) {
	var f customers.Form
	if !decodeJSON(w, r, &f) {
		return
	}
	c, err := h.svc.CreateCustomer(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "could not save customer")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// updateCustomer godoc
// @Summary Editar cliente
// @Tags customers
// @Accept json
// @Produce json
// @Param customerID path string true "Cliente"
// @Param body body customers.Form true "Cliente"
// @Success 200 {object} customers.Customer
// @Failure 400 {object} errorResponse
// @Router /customers/{customerID} [patch]
func (h *handlers) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var f customers.Form
	if !decodeJSON(w, r, &f) {
		return
	}
	c, err := h.svc.UpdateCustomer(r.Context(), chi.URLParam(r, "customerID"), f)
	if err != nil {
		h.fail(w, r, err, "could not save customer")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// deleteCustomer godoc
// @Summary Borrar cliente
// @Description La API borra en cascada mascotas y turnos; se refrescan clientes y turnos.
// @Tags customers
// @Param customerID path string true "Cliente"
// @Success 204
// @Router /customers/{customerID} [delete]
func (h *handlers) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCustomer(r.Context(), chi.URLParam(r, "customerID")); err != nil {
		h.fail(w, r, err, "could not delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- pets ---

// customerPets godoc
// @Summary Mascotas de un cliente
// @Description Se piden a la API una sola vez por cliente (cache).
// @Tags pets
// @Produce json
// @Param customerID path string true "Cliente"
// @Success 200 {array} pets.Pet
// @Failure 502 {object} errorResponse
// @Router /customers/{customerID}/pets [get]
func (h *handlers) customerPets(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.CustomerPets(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.fail(w, r, err, "could not load pets")
		return
	}
	writeJSON(w, http.StatusOK, snap.Pets)
}

// createPet godoc
// @Summary Crear mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param customerID path string true "Cliente"
// @Param body body pets.CreateInput true "Mascota"
// @Success 201 {object} pets.Pet
// @Failure 400 {object} errorResponse
// @Router /customers/{customerID}/pets [post]
func (h *handlers) createPet(w http.ResponseWriter, r *http.Request) {
	var in pets.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.CustomerID = chi.URLParam(r, "customerID")
	p, err := h.svc.CreatePet(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "could not save pet")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// getPet godoc
// @Summary Detalle de mascota
// @Tags pets
// @Produce json
// @Param petID path string true "Mascota"
// @Success 200 {object} pets.Pet
// @Failure 502 {object} errorResponse
// @Router /pets/{petID} [get]
func (h *handlers) getPet(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Pet(r.Context(), chi.URLParam(r, "petID"))
	if err != nil {
		h.fail(w, r, err, "could not load pet")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- doctors ---

// listDoctors godoc
// @Summary Listar doctores
// @Tags doctors
// @Produce json
// @Success 200 {array} doctors.Doctor
// @Router /doctors [get]
func (h *handlers) listDoctors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Store().Doctors())
}

// createDoctor godoc
// @Summary Crear doctor
// @Tags doctors
// @Accept json
// @Produce json
// @Param body body doctors.Form true "Doctor"
// @Success 201 {object} doctors.Doctor
// @Failure 400 {object} errorResponse
// @Router /doctors [post]
func (h *handlers) createDoctor(w http.ResponseWriter, r *http.Request) {
	var f doctors.Form
	if !decodeJSON(w, r, &f) {
		return
	}
	d, err := h.svc.CreateDoctor(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "could not save doctor")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// updateDoctor godoc
// @Summary Editar doctor
// @Tags doctors
// @Accept json
// @Produce json
// @Param doctorID path string true "Doctor"
// @Param body body doctors.Form true "Doctor"
// @Success 200 {object} doctors.Doctor
// @Router /doctors/{doctorID} [patch]
func (h *handlers) updateDoctor(w http.ResponseWriter, r *http.Request) {
	var f doctors.Form
	if !decodeJSON(w, r, &f) {
		return
	}
	d, err := h.svc.UpdateDoctor(r.Context(), chi.URLParam(r, "doctorID"), f)
	if err != nil {
		h.fail(w, r, err, "could not save doctor")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// deleteDoctor godoc
// @Summary Borrar doctor
// @Tags doctors
// @Param doctorID path string true "Doctor"
// @Success 204
// @Router /doctors/{doctorID} [delete]
func (h *handlers) deleteDoctor(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDoctor(r.Context(), chi.URLParam(r, "doctorID")); err != nil {
		h.fail(w, r, err, "could not delete doctor")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- users ---

// createUser godoc
// @Summary Crear usuario
// @Description Solo para rol admin.
// @Tags users
// @Accept json
// @Produce json
// @Param body body users.CreateInput true "Usuario"
// @Success 201 {object} users.User
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /users [post]
func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var in users.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.svc.CreateUser(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "could not create user")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}
