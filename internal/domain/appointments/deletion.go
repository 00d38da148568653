package appointments

import (
	"context"
	"sync"

	"petcheck-dashboard/internal/platform/httpclient"
)

type DeleteState string

const (
	DeleteIdle       DeleteState = "idle"
	DeleteConfirming DeleteState = "confirming"
	DeleteDeleting   DeleteState = "deleting"
	DeleteFailed     DeleteState = "failed"
)

type DeleteView struct {
	State         DeleteState `json:"state"`
	AppointmentID string      `json:"appointment_id,omitempty"`
	Pet           string      `json:"pet,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// Deletion es el diálogo de confirmación de baja de un turno:
// idle → confirming → deleting → idle | failed.
type Deletion struct {
	mu     sync.Mutex
	state  DeleteState
	target Appointment
	errMsg string

	deps Deps
}

func NewDeletion(deps Deps) *Deletion {
	return &Deletion{state: DeleteIdle, deps: deps.withDefaults()}
}

// Request abre la confirmación. Desde failed se puede volver a pedir.
func (d *Deletion) Request(a Appointment) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == DeleteDeleting {
		return ErrInvalidTransition
	}
	d.state = DeleteConfirming
	d.target = a
	d.errMsg = ""
	return nil
}

// Dismiss cierra el diálogo (cancelar o aceptar el error).
func (d *Deletion) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == DeleteDeleting {
		return
	}
	d.state = DeleteIdle
	d.target = Appointment{}
	d.errMsg = ""
}

// Confirm borra el turno. Con éxito refresca turnos y vuelve a idle;
// con error queda en failed mostrando el mensaje.
func (d *Deletion) Confirm(ctx context.Context) error {
	d.mu.Lock()
	if d.state != DeleteConfirming {
		d.mu.Unlock()
		return ErrInvalidTransition
	}
	d.state = DeleteDeleting
	id := d.target.ID
	d.mu.Unlock()

	err := d.deps.Gateway.DeleteAppointment(ctx, id)
	if err != nil {
		d.deps.Logger.Warn("appointment delete failed", map[string]any{"appointment_id": id, "err": err})

		d.mu.Lock()
		d.state = DeleteFailed
		d.errMsg = httpclient.UserMessage(err, msgDeleteFailed)
		d.mu.Unlock()
		return err
	}

	if d.deps.Refresher != nil {
		if rerr := d.deps.Refresher.AppointmentsChanged(ctx, ChangeDeleted); rerr != nil {
			d.deps.Logger.Warn("appointments refresh failed", map[string]any{"err": rerr})
		}
	}

	d.mu.Lock()
	d.state = DeleteIdle
	d.target = Appointment{}
	d.errMsg = ""
	d.mu.Unlock()
	return nil
}

func (d *Deletion) View() DeleteView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DeleteView{
		State:         d.state,
		AppointmentID: d.target.ID,
		Pet:           d.target.Pet.Name,
		Error:         d.errMsg,
	}
}
