package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"petcheck-dashboard/internal/dashboard"
	"petcheck-dashboard/internal/middleware"
	"petcheck-dashboard/internal/platform/logger"

	_ "petcheck-dashboard/docs"
)

type Options struct {
	Dashboard *dashboard.Service
	Session   SessionState
	Logger    logger.Logger

	// Metrics es el handler de /metrics (promhttp). nil => no se expone.
	Metrics http.Handler
	Swagger bool
}

// SessionState es lo que el router mira para decidir si hay sesión.
type SessionState = middleware.SessionChecker

func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	h := &handlers{svc: opts.Dashboard, log: opts.Logger}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(opts.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}
	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Post("/login", h.login)
	r.Post("/logout", h.logout)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireSession(opts.Session, loginPath, "/dashboard"))

		pr.Get("/dashboard", h.overview)

		pr.Route("/appointments", func(ar chi.Router) {
			ar.Get("/future", h.futureAppointments)
			ar.Get("/today", h.todayAppointments)
			ar.Get("/calendar", h.calendar)

			ar.Post("/drafts", h.createDraft)
			ar.Get("/drafts/{draftID}", h.getDraft)
			ar.Patch("/drafts/{draftID}", h.updateDraft)
			ar.Delete("/drafts/{draftID}", h.closeDraft)
			ar.Post("/drafts/{draftID}/submit", h.submitDraft)

			ar.Post("/{appointmentID}/drafts", h.editDraft)
			ar.Delete("/{appointmentID}", h.deleteAppointment)
		})

		pr.Route("/customers", func(cr chi.Router) {
			cr.Get("/", h.listCustomers)
			cr.Post("/", h.createCustomer)
			cr.Patch("/{customerID}", h.updateCustomer)
			cr.Delete("/{customerID}", h.deleteCustomer)
			cr.Get("/{customerID}/pets", h.customerPets)
			cr.Post("/{customerID}/pets", h.createPet)
		})

		pr.Get("/pets/{petID}", h.getPet)

		pr.Route("/doctors", func(dr chi.Router) {
			dr.Get("/", h.listDoctors)
			dr.Post("/", h.createDoctor)
			dr.Patch("/{doctorID}", h.updateDoctor)
			dr.Delete("/{doctorID}", h.deleteDoctor)
		})

		pr.Post("/users", h.createUser)
	})

	return r
}
