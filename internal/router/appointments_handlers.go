package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"petcheck-dashboard/internal/domain/appointments"
	"petcheck-dashboard/internal/platform/validation"
)

type draftResponse struct {
	ID   string            `json:"id"`
	View appointments.View `json:"view"`
}

// draftPatchRequest: customer_id pasa por SelectCustomer (carga sus mascotas).
type draftPatchRequest struct {
	CustomerID *string `json:"customer_id"`
	appointments.DraftPatch
}

// futureAppointments godoc
// @Summary Turnos futuros
// @Description Turnos con fecha posterior a ahora, ordenados, con fecha y hora locales.
// @Tags appointments
// @Produce json
// @Success 200 {array} appointments.Row
// @Failure 401 {object} errorResponse
// @Router /appointments/future [get]
func (h *handlers) futureAppointments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.FutureRows())
}

// todayAppointments godoc
// @Summary Turnos de hoy
// @Tags appointments
// @Produce json
// @Success 200 {array} appointments.Row
// @Router /appointments/today [get]
func (h *handlers) todayAppointments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.TodayRows())
}

// calendar godoc
// @Summary Calendario mensual
// @Description Sin parámetros usa el mes actual en la zona de la clínica.
// @Tags appointments
// @Produce json
// @Param year query int false "Año"
// @Param month query int false "Mes (1-12)"
// @Success 200 {object} appointments.Month
// @Failure 400 {object} errorResponse
// @Router /appointments/calendar [get]
func (h *handlers) calendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(h.svc.Location())
	year, month := now.Year(), now.Month()

	var errs validation.Errors
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			errs.Add("year", "must be a positive integer")
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			errs.Add("month", "must be between 1 and 12")
		}
		month = time.Month(m)
	}
	if err := errs.Err(); err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Calendar(year, month))
}

// createDraft godoc
// @Summary Abrir formulario de alta de turno
// @Tags appointments
// @Produce json
// @Success 201 {object} draftResponse
// @Router /appointments/drafts [post]
func (h *handlers) createDraft(w http.ResponseWriter, r *http.Request) {
	id, wf, err := h.svc.Drafts().Create()
	if err != nil {
		h.fail(w, r, err, "could not open form")
		return
	}
	writeJSON(w, http.StatusCreated, draftResponse{ID: id, View: wf.View()})
}

// editDraft godoc
// @Summary Abrir formulario de edición de turno
// @Description Precarga fecha y hora locales del turno.
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "Turno"
// @Success 201 {object} draftResponse
// @Failure 404 {object} errorResponse
// @Router /appointments/{appointmentID}/drafts [post]
func (h *handlers) editDraft(w http.ResponseWriter, r *http.Request) {
	id, wf, err := h.svc.Drafts().Edit(chi.URLParam(r, "appointmentID"))
	if err != nil {
		h.fail(w, r, err, "could not open form")
		return
	}
	writeJSON(w, http.StatusCreated, draftResponse{ID: id, View: wf.View()})
}

// getDraft godoc
// @Summary Estado del formulario
// @Tags appointments
// @Produce json
// @Param draftID path string true "Formulario"
// @Success 200 {object} draftResponse
// @Failure 404 {object} errorResponse
// @Router /appointments/drafts/{draftID} [get]
func (h *handlers) getDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "draftID")
	wf, err := h.svc.Drafts().Get(id)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{ID: id, View: wf.View()})
}

// updateDraft godoc
// @Summary Editar campos del formulario
// @Description Cambiar el cliente vacía la mascota elegida y carga las mascotas del cliente nuevo.
// @Tags appointments
// @Accept json
// @Produce json
// @Param draftID path string true "Formulario"
// @Param body body draftPatchRequest true "Campos a cambiar"
// @Success 200 {object} draftResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /appointments/drafts/{draftID} [patch]
func (h *handlers) updateDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "draftID")
	wf, err := h.svc.Drafts().Get(id)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	var req draftPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.CustomerID != nil {
		if err := wf.SelectCustomer(r.Context(), *req.CustomerID); err != nil {
			v := wf.View()
			h.failWith(w, r, err, "could not load pets", &v)
			return
		}
	}
	if err := wf.Update(req.DraftPatch); err != nil {
		v := wf.View()
		h.failWith(w, r, err, "", &v)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{ID: id, View: wf.View()})
}

// closeDraft godoc
// @Summary Cerrar formulario
// @Description Un envío en curso queda descartado.
// @Tags appointments
// @Param draftID path string true "Formulario"
// @Success 204
// @Failure 404 {object} errorResponse
// @Router /appointments/drafts/{draftID} [delete]
func (h *handlers) closeDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Drafts().Close(chi.URLParam(r, "draftID")); err != nil {
		h.fail(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// submitDraft godoc
// @Summary Guardar turno
// @Description Valida, envía la fecha en UTC y refresca la lista de turnos.
// @Tags appointments
// @Produce json
// @Param draftID path string true "Formulario"
// @Success 201 {object} appointments.Appointment
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /appointments/drafts/{draftID}/submit [post]
func (h *handlers) submitDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "draftID")
	wf, err := h.svc.Drafts().Get(id)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	a, err := wf.Submit(r.Context())
	if err != nil {
		v := wf.View()
		h.failWith(w, r, err, "could not save appointment", &v)
		return
	}
	h.svc.Drafts().Done(id)
	writeJSON(w, http.StatusCreated, a)
}

// deleteAppointment godoc
// @Summary Borrar turno
// @Description Corre la baja ya confirmada y refresca la lista.
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "Turno"
// @Success 204
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /appointments/{appointmentID} [delete]
func (h *handlers) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteAppointment(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
		h.fail(w, r, err, "could not delete appointment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
