package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"petcheck-dashboard/internal/adapters/vetapi"
	"petcheck-dashboard/internal/domain/appointments"
)

// Mutation identifica una escritura aceptada por la API.
type Mutation string

const (
	AppointmentCreated Mutation = "appointment.created"
	AppointmentUpdated Mutation = "appointment.updated"
	AppointmentDeleted Mutation = "appointment.deleted"
	CustomerCreated    Mutation = "customer.created"
	CustomerUpdated    Mutation = "customer.updated"
	CustomerDeleted    Mutation = "customer.deleted"
	PetCreated         Mutation = "pet.created"
	DoctorCreated      Mutation = "doctor.created"
	DoctorUpdated      Mutation = "doctor.updated"
	DoctorDeleted      Mutation = "doctor.deleted"
	UserCreated        Mutation = "user.created"
)

// Scope acota el refresh cuando la colección va keyed (pets por cliente).
type Scope struct {
	CustomerID string
}

// refreshTable: qué colecciones se vuelven a pedir después de cada mutación.
// Los turnos traen nombres denormalizados de cliente, mascota y doctor,
// por eso los cambios de cliente/doctor también refrescan turnos.
var refreshTable = map[Mutation][]vetapi.Collection{
	AppointmentCreated: {vetapi.CollectionAppointments},
	AppointmentUpdated: {vetapi.CollectionAppointments},
	AppointmentDeleted: {vetapi.CollectionAppointments},
	CustomerCreated:    {vetapi.CollectionCustomers},
	CustomerUpdated:    {vetapi.CollectionCustomers, vetapi.CollectionAppointments},
	CustomerDeleted:    {vetapi.CollectionCustomers, vetapi.CollectionAppointments},
	PetCreated:         {vetapi.CollectionPets},
	DoctorCreated:      {vetapi.CollectionDoctors},
	DoctorUpdated:      {vetapi.CollectionDoctors, vetapi.CollectionAppointments},
	DoctorDeleted:      {vetapi.CollectionDoctors, vetapi.CollectionAppointments},
	UserCreated:        nil,
}

// RefreshesFor devuelve la lista declarada para la mutación.
func RefreshesFor(m Mutation) ([]vetapi.Collection, bool) {
	cols, ok := refreshTable[m]
	return cols, ok
}

// Apply corre los refrescos que corresponden a m. Se llama solo después del
// ack de la API. Cada colección se pide una vez, en paralelo.
func (s *Service) Apply(ctx context.Context, m Mutation, scope Scope) error {
	cols, ok := refreshTable[m]
	if !ok {
		return fmt.Errorf("unknown mutation %q", m)
	}

	if m == CustomerDeleted && scope.CustomerID != "" {
		s.pets.Forget(scope.CustomerID)
	}

	// sin WithContext: un refresh fallido no cancela los demás
	var g errgroup.Group
	for _, col := range cols {
		g.Go(func() error {
			if col == vetapi.CollectionPets {
				return s.reloadPets(ctx, scope.CustomerID)
			}
			return s.refreshFresh(ctx, col)
		})
	}
	err := g.Wait()
	if err != nil {
		s.log.Warn("refresh after mutation failed", map[string]any{"mutation": string(m), "err": err})
	}
	return err
}

// AppointmentsChanged implementa appointments.Refresher.
func (s *Service) AppointmentsChanged(ctx context.Context, change appointments.Change) error {
	m := AppointmentUpdated
	switch change {
	case appointments.ChangeCreated:
		m = AppointmentCreated
	case appointments.ChangeDeleted:
		m = AppointmentDeleted
	}
	return s.Apply(ctx, m, Scope{})
}

func (s *Service) reloadPets(ctx context.Context, customerID string) error {
	if customerID == "" {
		return nil
	}
	s.pets.Invalidate(customerID)
	return s.pets.EnsureLoaded(ctx, customerID)
}
