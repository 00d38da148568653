package router

import (
	"errors"
	"net/http"
	"strings"

	"petcheck-dashboard/internal/platform/httpclient"
	"petcheck-dashboard/internal/platform/validation"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login godoc
// @Summary Iniciar sesión
// @Description Cambia email y contraseña por un token de la API de la clínica y carga el panel.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credenciales"
// @Success 204
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /login [post]
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var errs validation.Errors
	errs.Required("email", req.Email)
	errs.Required("password", req.Password)
	if err := errs.Err(); err != nil {
		h.fail(w, r, err, "")
		return
	}

	if err := h.svc.Login(r.Context(), strings.TrimSpace(req.Email), req.Password); err != nil {
		if errors.Is(err, httpclient.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{
				Error: httpclient.UserMessage(err, "invalid credentials"),
			})
			return
		}
		h.fail(w, r, err, "could not log in")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logout godoc
// @Summary Cerrar sesión
// @Tags auth
// @Success 204
// @Router /logout [post]
func (h *handlers) logout(w http.ResponseWriter, _ *http.Request) {
	h.svc.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// overview godoc
// @Summary Resumen del panel
// @Description Carga las colecciones que falten y devuelve contadores, estado de carga y usuario.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dashboard.Overview
// @Failure 401 {object} errorResponse
// @Router /dashboard [get]
func (h *handlers) overview(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.EnsureLoaded(r.Context()); err != nil && httpclient.SessionInvalid(err) {
		h.fail(w, r, err, "")
		return
	}
	// un fallo de carga queda en Collections; se muestra lo que haya
	writeJSON(w, http.StatusOK, h.svc.Overview())
}
