// Package dashboard mantiene el estado de vista del panel: colecciones,
// cache de mascotas, formularios en curso y los refrescos posteriores a cada
// mutación.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"petcheck-dashboard/internal/adapters/vetapi"
	"petcheck-dashboard/internal/domain/appointments"
	"petcheck-dashboard/internal/domain/customers"
	"petcheck-dashboard/internal/domain/doctors"
	"petcheck-dashboard/internal/domain/pets"
	"petcheck-dashboard/internal/domain/users"
	"petcheck-dashboard/internal/platform/logger"
	"petcheck-dashboard/internal/ports/auth"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// API es lo que el panel necesita de la API de la clínica.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)

	ListAppointments(ctx context.Context) ([]appointments.Appointment, error)
	appointments.Gateway

	ListCustomers(ctx context.Context) ([]customers.Customer, error)
	CreateCustomer(ctx context.Context, p customers.Payload) (customers.Customer, error)
	UpdateCustomer(ctx context.Context, id string, p customers.Payload) (customers.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	pets.Fetcher
	GetPet(ctx context.Context, id string) (pets.Pet, error)
	CreatePet(ctx context.Context, in pets.CreateInput) (pets.Pet, error)

	ListDoctors(ctx context.Context) ([]doctors.Doctor, error)
	CreateDoctor(ctx context.Context, f doctors.Form) (doctors.Doctor, error)
	UpdateDoctor(ctx context.Context, id string, f doctors.Form) (doctors.Doctor, error)
	DeleteDoctor(ctx context.Context, id string) error

	CreateUser(ctx context.Context, in users.CreateInput) (users.User, error)
}

// Session es la credencial compartida del proceso.
type Session interface {
	Login(token string) error
	Logout()
	Authenticated() bool
	Claims() (auth.Claims, bool)
}

// Recorder es opcional (métricas).
type Recorder interface {
	pets.FetchRecorder
	ObserveRefresh(collection string, err error)
}

type Deps struct {
	API      API
	Session  Session
	Logger   logger.Logger
	Recorder Recorder
	Location *time.Location
	Now      func() time.Time
}

type Service struct {
	api     API
	session Session
	log     logger.Logger
	rec     Recorder
	loc     *time.Location
	now     func() time.Time

	store  *Store
	pets   *pets.Cache
	drafts *Drafts

	group singleflight.Group
}

func New(d Deps) (*Service, error) {
	if d.API == nil || d.Session == nil {
		return nil, errors.New("dashboard: api and session are required")
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	s := &Service{
		api:     d.API,
		session: d.Session,
		log:     d.Logger.With(map[string]any{"component": "dashboard"}),
		rec:     d.Recorder,
		loc:     d.Location,
		now:     d.Now,
		store:   NewStore(),
	}

	opts := []pets.CacheOption{pets.WithLogger(s.log)}
	if d.Recorder != nil {
		opts = append(opts, pets.WithRecorder(d.Recorder))
	}
	s.pets = pets.NewCache(d.API, opts...)
	s.drafts = newDrafts(s)
	return s, nil
}

func (s *Service) Store() *Store            { return s.store }
func (s *Service) Pets() *pets.Cache        { return s.pets }
func (s *Service) Drafts() *Drafts          { return s.drafts }
func (s *Service) Location() *time.Location { return s.loc }

// Login cambia credenciales por token, lo guarda y carga el panel.
// Con credenciales inválidas no se guarda nada.
func (s *Service) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Info("login rejected", map[string]any{"email": email, "err": err})
		return err
	}
	// otro usuario puede loguearse sin pasar por logout: nada del anterior sobrevive
	s.resetState()
	if err := s.session.Login(token); err != nil {
		return err
	}
	s.log.Info("login ok", map[string]any{"email": email})

	// los errores de carga quedan en el estado de cada colección
	_ = s.Load(ctx)
	return nil
}

// Logout limpia la sesión y todo el estado derivado de ella.
func (s *Service) Logout() {
	s.session.Logout()
	s.resetState()
}

func (s *Service) resetState() {
	s.store.Reset()
	s.pets.Reset()
	s.drafts.Reset()
}

// Load pide turnos, clientes y doctores una vez cada uno, en paralelo.
func (s *Service) Load(ctx context.Context) error {
	if !s.session.Authenticated() {
		return ErrNotAuthenticated
	}
	var g errgroup.Group
	for _, col := range []vetapi.Collection{
		vetapi.CollectionAppointments,
		vetapi.CollectionCustomers,
		vetapi.CollectionDoctors,
	} {
		g.Go(func() error { return s.Refresh(ctx, col) })
	}
	return g.Wait()
}

// EnsureLoaded carga solo las colecciones que todavía no se cargaron.
func (s *Service) EnsureLoaded(ctx context.Context) error {
	var g errgroup.Group
	for _, col := range []vetapi.Collection{
		vetapi.CollectionAppointments,
		vetapi.CollectionCustomers,
		vetapi.CollectionDoctors,
	} {
		if s.store.Loaded(col) {
			continue
		}
		g.Go(func() error { return s.Refresh(ctx, col) })
	}
	return g.Wait()
}

// Refresh pide la colección; llamadas concurrentes comparten el mismo request.
// El request compartido no hereda la cancelación de quien lo inició (lo
// acota el timeout del transporte); cada llamador deja de esperar con su ctx.
func (s *Service) Refresh(ctx context.Context, col vetapi.Collection) error {
	ch := s.group.DoChan(string(col), func() (any, error) {
		return nil, s.fetch(context.WithoutCancel(ctx), col)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refreshFresh es el refresh posterior a una mutación: no se une a un
// request que haya salido antes del ack.
func (s *Service) refreshFresh(ctx context.Context, col vetapi.Collection) error {
	s.group.Forget(string(col))
	return s.Refresh(ctx, col)
}

func (s *Service) fetch(ctx context.Context, col vetapi.Collection) error {
	t := s.store.markLoading(col)

	var err error
	switch col {
	case vetapi.CollectionAppointments:
		var list []appointments.Appointment
		if list, err = s.api.ListAppointments(ctx); err == nil {
			s.store.setAppointments(t, list)
		}
	case vetapi.CollectionCustomers:
		var list []customers.Customer
		if list, err = s.api.ListCustomers(ctx); err == nil {
			s.store.setCustomers(t, list)
		}
	case vetapi.CollectionDoctors:
		var list []doctors.Doctor
		if list, err = s.api.ListDoctors(ctx); err == nil {
			s.store.setDoctors(t, list)
		}
	default:
		err = fmt.Errorf("%w: %q", vetapi.ErrUnknownCollection, string(col))
	}

	if s.rec != nil {
		s.rec.ObserveRefresh(string(col), err)
	}
	if err != nil {
		s.store.markFailed(t, col, err)
		s.log.Warn("collection refresh failed", map[string]any{"collection": string(col), "err": err})
		return err
	}
	return nil
}

// --- vistas ---

type Overview struct {
	Summary     appointments.Summary        `json:"summary"`
	Collections map[string]CollectionStatus `json:"collections"`
	User        *auth.Claims                `json:"user,omitempty"`
}

func (s *Service) Overview() Overview {
	o := Overview{
		Summary:     appointments.Summarize(s.store.Appointments(), s.nowLocal()),
		Collections: s.store.Status(),
	}
	if c, ok := s.session.Claims(); ok {
		o.User = &c
	}
	return o
}

func (s *Service) FutureRows() []appointments.Row {
	return appointments.Rows(appointments.Future(s.store.Appointments(), s.nowLocal()), s.loc)
}

func (s *Service) TodayRows() []appointments.Row {
	now := s.nowLocal()
	return appointments.Rows(appointments.Today(appointments.Future(s.store.Appointments(), now), now), s.loc)
}

func (s *Service) Calendar(year int, month time.Month) appointments.Month {
	return appointments.Calendar(s.store.Appointments(), year, month, s.nowLocal(), s.loc)
}

// CustomerPets asegura el cache del cliente y devuelve lo cargado.
func (s *Service) CustomerPets(ctx context.Context, customerID string) (pets.Snapshot, error) {
	if err := s.pets.EnsureLoaded(ctx, customerID); err != nil {
		return s.pets.Get(customerID), err
	}
	return s.pets.Get(customerID), nil
}

func (s *Service) Pet(ctx context.Context, id string) (pets.Pet, error) {
	return s.api.GetPet(ctx, id)
}

// nowLocal es now en la zona de la clínica: define qué día es "hoy".
func (s *Service) nowLocal() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) workflowDeps() appointments.Deps {
	return appointments.Deps{
		Gateway:   s.api,
		Pets:      s.pets,
		Refresher: s,
		Location:  s.loc,
		Logger:    s.log,
	}
}
