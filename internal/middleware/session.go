package middleware

import (
	"encoding/json"
	"net/http"
)

// SessionChecker dice si hay un usuario logueado.
type SessionChecker interface {
	Authenticated() bool
}

// RequireSession corta los requests sin sesión:
// - GET a una de pages => 303 a loginPath
// - el resto => 401 {"error", "redirect"}
// Con sesión el request sigue igual.
func RequireSession(s SessionChecker, loginPath string, pages ...string) func(http.Handler) http.Handler {
	isPage := make(map[string]bool, len(pages))
	for _, p := range pages {
		isPage[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s != nil && s.Authenticated() {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method == http.MethodGet && isPage[r.URL.Path] {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":    "not authenticated",
				"redirect": loginPath,
			})
		})
	}
}
