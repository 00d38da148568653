package dashboard

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"petcheck-dashboard/internal/domain/appointments"
)

var ErrDraftNotFound = errors.New("draft not found")

// Drafts guarda los formularios de turno abiertos, por id.
type Drafts struct {
	mu    sync.Mutex
	items map[string]*appointments.Workflow
	svc   *Service
}

func newDrafts(s *Service) *Drafts {
	return &Drafts{items: map[string]*appointments.Workflow{}, svc: s}
}

// Create abre un formulario de alta.
func (d *Drafts) Create() (string, *appointments.Workflow, error) {
	w := appointments.NewWorkflow(d.svc.workflowDeps())
	if err := w.StartCreate(); err != nil {
		return "", nil, err
	}
	return d.put(w), w, nil
}

// Edit abre un formulario de edición sobre un turno de la colección cargada.
func (d *Drafts) Edit(appointmentID string) (string, *appointments.Workflow, error) {
	a, ok := d.svc.store.Appointment(appointmentID)
	if !ok {
		return "", nil, ErrAppointmentNotFound
	}
	w := appointments.NewWorkflow(d.svc.workflowDeps())
	if err := w.StartEdit(a); err != nil {
		return "", nil, err
	}
	return d.put(w), w, nil
}

func (d *Drafts) Get(id string) (*appointments.Workflow, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.items[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return w, nil
}

// Close cancela el formulario; un submit en curso queda descartado.
func (d *Drafts) Close(id string) error {
	d.mu.Lock()
	w, ok := d.items[id]
	delete(d.items, id)
	d.mu.Unlock()
	if !ok {
		return ErrDraftNotFound
	}
	w.Cancel()
	return nil
}

// Done saca el formulario del registro sin cancelarlo (submit exitoso).
func (d *Drafts) Done(id string) {
	d.mu.Lock()
	delete(d.items, id)
	d.mu.Unlock()
}

func (d *Drafts) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

func (d *Drafts) Reset() {
	d.mu.Lock()
	items := d.items
	d.items = map[string]*appointments.Workflow{}
	d.mu.Unlock()
	for _, w := range items {
		w.Cancel()
	}
}

func (d *Drafts) put(w *appointments.Workflow) string {
	id := uuid.NewString()
	d.mu.Lock()
	d.items[id] = w
	d.mu.Unlock()
	return id
}
