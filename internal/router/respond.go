package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"petcheck-dashboard/internal/dashboard"
	"petcheck-dashboard/internal/domain/appointments"
	"petcheck-dashboard/internal/platform/httpclient"
	"petcheck-dashboard/internal/platform/logger"
	"petcheck-dashboard/internal/platform/validation"
)

const loginPath = "/login"

type handlers struct {
	svc *dashboard.Service
	log logger.Logger
}

type errorResponse struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	// Draft acompaña los errores de submit para repintar el formulario.
	Draft *appointments.View `json:"draft,omitempty"`
}

// fail traduce el error a status + body. Un 401 de la API cierra la sesión.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	h.failWith(w, r, err, fallback, nil)
}

func (h *handlers) failWith(w http.ResponseWriter, r *http.Request, err error, fallback string, draft *appointments.View) {
	status, body := h.classify(err, fallback)
	body.Draft = draft
	if status == http.StatusUnauthorized {
		h.svc.Logout()
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", map[string]any{"path": r.URL.Path, "method": r.Method, "err": err})
	}
	writeJSON(w, status, body)
}

func (h *handlers) classify(err error, fallback string) (int, errorResponse) {
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Fields: validation.Fields(err)}
	case errors.Is(err, dashboard.ErrNotAuthenticated), httpclient.SessionInvalid(err):
		return http.StatusUnauthorized, errorResponse{Error: "session expired", Redirect: loginPath}
	case errors.Is(err, dashboard.ErrForbidden), errors.Is(err, httpclient.ErrUnauthorized):
		return http.StatusForbidden, errorResponse{Error: httpclient.UserMessage(err, "forbidden")}
	case errors.Is(err, dashboard.ErrDraftNotFound), errors.Is(err, dashboard.ErrAppointmentNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, appointments.ErrInvalidTransition),
		errors.Is(err, appointments.ErrPetsNotLoaded),
		errors.Is(err, appointments.ErrDiscarded):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, httpclient.ErrServer), errors.Is(err, httpclient.ErrNetwork):
		return http.StatusBadGateway, errorResponse{Error: httpclient.UserMessage(err, fallback)}
	default:
		return http.StatusInternalServerError, errorResponse{Error: fallback}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return false
	}
	return true
}
