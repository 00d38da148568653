package appointments

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"petcheck-dashboard/internal/domain/pets"
	"petcheck-dashboard/internal/platform/httpclient"
	"petcheck-dashboard/internal/platform/logger"
	"petcheck-dashboard/internal/platform/validation"
)

var (
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrPetsNotLoaded     = errors.New("customer pets not loaded yet")
	// ErrDiscarded: el flujo se canceló mientras esperaba a la API.
	ErrDiscarded = errors.New("workflow result discarded")
)

const (
	msgSaveFailed   = "could not save appointment"
	msgDeleteFailed = "could not delete appointment"
	msgPetsFailed   = "could not load customer pets"
)

// Gateway son las mutaciones de turnos contra la API.
type Gateway interface {
	CreateAppointment(ctx context.Context, req CreateRequest) (Appointment, error)
	UpdateAppointment(ctx context.Context, id string, req UpdateRequest) (Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

// PetLoader es la parte del cache de mascotas que usa el flujo.
type PetLoader interface {
	EnsureLoaded(ctx context.Context, customerID string) error
	Get(customerID string) pets.Snapshot
	Owns(customerID, petID string) bool
}

type Change string

const (
	ChangeCreated Change = "created"
	ChangeUpdated Change = "updated"
	ChangeDeleted Change = "deleted"
)

// Refresher se llama después del ack de la API, nunca antes.
type Refresher interface {
	AppointmentsChanged(ctx context.Context, change Change) error
}

type State string

const (
	StateIdle       State = "idle"
	StateComposing  State = "composing"
	StateSubmitting State = "submitting"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Draft son los valores del formulario. Fecha y hora son de pared en la zona de la clínica.
type Draft struct {
	CustomerID string `json:"customer_id"`
	PetID      string `json:"pet_id"`
	DoctorID   string `json:"doctor_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Diagnosis  string `json:"diagnosis"`
	Treatment  string `json:"treatment"`
}

// DraftPatch cambia solo los campos no-nil. El cliente se cambia con SelectCustomer.
type DraftPatch struct {
	PetID     *string `json:"pet_id"`
	DoctorID  *string `json:"doctor_id"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Diagnosis *string `json:"diagnosis"`
	Treatment *string `json:"treatment"`
}

// View es el estado que se muestra en el modal.
type View struct {
	State         State             `json:"state"`
	Mode          Mode              `json:"mode,omitempty"`
	AppointmentID string            `json:"appointment_id,omitempty"`
	Draft         Draft             `json:"draft"`
	Pets          []pets.Pet        `json:"pets"`
	PetsLoading   bool              `json:"pets_loading"`
	CanSubmit     bool              `json:"can_submit"`
	Error         string            `json:"error,omitempty"`
	FieldErrors   map[string]string `json:"field_errors,omitempty"`
}

type Deps struct {
	Gateway   Gateway
	Pets      PetLoader
	Refresher Refresher
	Location  *time.Location
	Logger    logger.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	return d
}

// Workflow es una sesión de alta/edición de un turno:
// idle → composing → submitting → idle (ok) | composing (error).
type Workflow struct {
	mu sync.Mutex

	state  State
	mode   Mode
	target Appointment
	draft  Draft

	errMsg    string
	fieldErrs map[string]string

	// epoch sube en cada Start/Cancel; un resultado con epoch viejo se descarta.
	epoch uint64

	deps Deps
}

func NewWorkflow(deps Deps) *Workflow {
	return &Workflow{state: StateIdle, deps: deps.withDefaults()}
}

// StartCreate abre el formulario vacío.
func (w *Workflow) StartCreate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return ErrInvalidTransition
	}
	w.reset()
	w.state = StateComposing
	w.mode = ModeCreate
	return nil
}

// StartEdit abre el formulario con fecha y hora del turno en hora local.
func (w *Workflow) StartEdit(a Appointment) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return ErrInvalidTransition
	}
	w.reset()
	w.state = StateComposing
	w.mode = ModeEdit
	w.target = a
	w.draft = Draft{
		CustomerID: a.Pet.Owner.ID,
		PetID:      a.Pet.ID,
		DoctorID:   a.Doctor.ID,
		Diagnosis:  a.Diagnosis,
		Treatment:  a.Treatment,
	}
	if a.Date.Valid {
		w.draft.Date, w.draft.Time = Decompose(a.Date.Time, w.deps.Location)
	}
	return nil
}

// SelectCustomer fija el cliente y asegura que sus mascotas estén en cache.
// Mientras cargan, CanSubmit es false.
func (w *Workflow) SelectCustomer(ctx context.Context, customerID string) error {
	customerID = strings.TrimSpace(customerID)

	w.mu.Lock()
	if w.state != StateComposing || w.mode != ModeCreate {
		w.mu.Unlock()
		return ErrInvalidTransition
	}
	if w.draft.CustomerID != customerID {
		w.draft.CustomerID = customerID
		w.draft.PetID = ""
	}
	epoch := w.epoch
	w.mu.Unlock()

	if customerID == "" {
		return nil
	}

	err := w.deps.Pets.EnsureLoaded(ctx, customerID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		return ErrDiscarded
	}
	if err != nil {
		w.errMsg = msgPetsFailed
		w.deps.Logger.Warn("load customer pets failed", map[string]any{"customer_id": customerID, "err": err})
		return err
	}
	return nil
}

func (w *Workflow) Update(p DraftPatch) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateComposing {
		return ErrInvalidTransition
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&w.draft.PetID, p.PetID)
	set(&w.draft.DoctorID, p.DoctorID)
	set(&w.draft.Date, p.Date)
	set(&w.draft.Time, p.Time)
	set(&w.draft.Diagnosis, p.Diagnosis)
	set(&w.draft.Treatment, p.Treatment)
	return nil
}

func (w *Workflow) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked()
}

func (w *Workflow) canSubmitLocked() bool {
	if w.state != StateComposing {
		return false
	}
	if w.mode == ModeEdit {
		return true
	}
	if w.draft.CustomerID == "" {
		return false
	}
	return w.deps.Pets.Get(w.draft.CustomerID).Loaded
}

// Submit valida, arma el instante UTC y llama a la API.
// Error de validación: no sale a la red. Error de API: vuelve a composing con el mensaje.
// Éxito: refresca turnos (después del ack) y vuelve a idle.
func (w *Workflow) Submit(ctx context.Context) (Appointment, error) {
	w.mu.Lock()
	if w.state != StateComposing {
		w.mu.Unlock()
		return Appointment{}, ErrInvalidTransition
	}
	instant, err := w.validateLocked()
	if err != nil {
		if !errors.Is(err, ErrPetsNotLoaded) {
			w.fieldErrs = validation.Fields(err)
			w.errMsg = err.Error()
		}
		w.mu.Unlock()
		return Appointment{}, err
	}

	w.state = StateSubmitting
	w.errMsg = ""
	w.fieldErrs = nil
	epoch := w.epoch
	mode := w.mode
	target := w.target
	draft := w.draft
	w.mu.Unlock()

	var (
		saved  Appointment
		change Change
	)
	switch mode {
	case ModeCreate:
		change = ChangeCreated
		saved, err = w.deps.Gateway.CreateAppointment(ctx, CreateRequest{
			Date:      instant,
			Diagnosis: draft.Diagnosis,
			Treatment: draft.Treatment,
			PetID:     draft.PetID,
			DoctorID:  draft.DoctorID,
		})
	default:
		change = ChangeUpdated
		saved, err = w.deps.Gateway.UpdateAppointment(ctx, target.ID, editRequest(target, draft, instant))
	}

	if err != nil {
		w.deps.Logger.Warn("appointment mutation failed", map[string]any{"mode": string(mode), "appointment_id": target.ID, "err": err})

		w.mu.Lock()
		defer w.mu.Unlock()
		if w.epoch != epoch {
			return Appointment{}, ErrDiscarded
		}
		w.state = StateComposing
		w.errMsg = httpclient.UserMessage(err, msgSaveFailed)
		return Appointment{}, err
	}

	// La API ya confirmó: refrescar aunque la sesión se haya cancelado.
	if w.deps.Refresher != nil {
		if rerr := w.deps.Refresher.AppointmentsChanged(ctx, change); rerr != nil {
			w.deps.Logger.Warn("appointments refresh failed", map[string]any{"err": rerr})
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		return saved, ErrDiscarded
	}
	w.reset()
	return saved, nil
}

// Cancel cierra el formulario. Un Submit en curso queda descartado.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
}

func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		State:     w.state,
		Mode:      w.mode,
		Draft:     w.draft,
		Pets:      []pets.Pet{},
		CanSubmit: w.canSubmitLocked(),
		Error:     w.errMsg,
	}
	if w.mode == ModeEdit {
		v.AppointmentID = w.target.ID
	}
	if len(w.fieldErrs) > 0 {
		v.FieldErrors = make(map[string]string, len(w.fieldErrs))
		for k, msg := range w.fieldErrs {
			v.FieldErrors[k] = msg
		}
	}
	if w.draft.CustomerID != "" && w.mode == ModeCreate {
		snap := w.deps.Pets.Get(w.draft.CustomerID)
		v.Pets = snap.Pets
		v.PetsLoading = snap.Loading
	}
	return v
}

func (w *Workflow) validateLocked() (time.Time, error) {
	var es validation.Errors
	if w.mode == ModeCreate {
		es.Required("customer_id", w.draft.CustomerID)
		es.Required("pet_id", w.draft.PetID)
		es.Required("doctor_id", w.draft.DoctorID)
	}
	es.Required("date", w.draft.Date)
	es.Required("time", w.draft.Time)
	if err := es.Err(); err != nil {
		return time.Time{}, err
	}

	if w.mode == ModeCreate {
		if !w.deps.Pets.Get(w.draft.CustomerID).Loaded {
			return time.Time{}, ErrPetsNotLoaded
		}
		if !w.deps.Pets.Owns(w.draft.CustomerID, w.draft.PetID) {
			es.Add("pet_id", "pet does not belong to customer")
			return time.Time{}, es.Err()
		}
	}

	instant, err := Compose(w.draft.Date, w.draft.Time, w.deps.Location)
	switch {
	case errors.Is(err, ErrInvalidDate):
		es.Add("date", ErrInvalidDate.Error())
	case errors.Is(err, ErrInvalidTime):
		es.Add("time", ErrInvalidTime.Error())
	}
	if err := es.Err(); err != nil {
		return time.Time{}, err
	}
	return instant, nil
}

func (w *Workflow) reset() {
	w.epoch++
	w.state = StateIdle
	w.mode = ""
	w.target = Appointment{}
	w.draft = Draft{}
	w.errMsg = ""
	w.fieldErrs = nil
}

// editRequest manda siempre la fecha; diagnóstico/tratamiento solo si cambiaron.
func editRequest(target Appointment, d Draft, instant time.Time) UpdateRequest {
	req := UpdateRequest{Date: &instant}
	if d.Diagnosis != target.Diagnosis {
		diag := d.Diagnosis
		req.Diagnosis = &diag
	}
	if d.Treatment != target.Treatment {
		tr := d.Treatment
		req.Treatment = &tr
	}
	return req
}
