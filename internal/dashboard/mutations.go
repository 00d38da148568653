package dashboard

import (
	"context"
	"errors"

	"petcheck-dashboard/internal/domain/appointments"
	"petcheck-dashboard/internal/domain/customers"
	"petcheck-dashboard/internal/domain/doctors"
	"petcheck-dashboard/internal/domain/pets"
	"petcheck-dashboard/internal/domain/users"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrForbidden           = errors.New("admin role required")
)

// Cada mutación: validar (sin red), llamar a la API y, con el ack, aplicar
// los refrescos de la tabla. Un refresh fallido se loguea pero no convierte
// la mutación en error: la API ya la aceptó.

func (s *Service) CreateCustomer(ctx context.Context, f customers.Form) (customers.Customer, error) {
	p, err := f.Validate()
	if err != nil {
		return customers.Customer{}, err
	}
	c, err := s.api.CreateCustomer(ctx, p)
	if err != nil {
		return customers.Customer{}, err
	}
	_ = s.Apply(ctx, CustomerCreated, Scope{CustomerID: c.ID})
	return c, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, f customers.Form) (customers.Customer, error) {
	p, err := f.Validate()
	if err != nil {
		return customers.Customer{}, err
	}
	c, err := s.api.UpdateCustomer(ctx, id, p)
	if err != nil {
		return customers.Customer{}, err
	}
	_ = s.Apply(ctx, CustomerUpdated, Scope{CustomerID: id})
	return c, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.api.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	_ = s.Apply(ctx, CustomerDeleted, Scope{CustomerID: id})
	return nil
}

// CreatePet da de alta la mascota y recarga el cache de ese cliente.
func (s *Service) CreatePet(ctx context.Context, in pets.CreateInput) (pets.Pet, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return pets.Pet{}, err
	}
	p, err := s.api.CreatePet(ctx, in)
	if err != nil {
		return pets.Pet{}, err
	}
	_ = s.Apply(ctx, PetCreated, Scope{CustomerID: in.CustomerID})
	return p, nil
}

func (s *Service) CreateDoctor(ctx context.Context, f doctors.Form) (doctors.Doctor, error) {
	f, err := f.Validate()
	if err != nil {
		return doctors.Doctor{}, err
	}
	d, err := s.api.CreateDoctor(ctx, f)
	if err != nil {
		return doctors.Doctor{}, err
	}
	_ = s.Apply(ctx, DoctorCreated, Scope{})
	return d, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id string, f doctors.Form) (doctors.Doctor, error) {
	f, err := f.Validate()
	if err != nil {
		return doctors.Doctor{}, err
	}
	d, err := s.api.UpdateDoctor(ctx, id, f)
	if err != nil {
		return doctors.Doctor{}, err
	}
	_ = s.Apply(ctx, DoctorUpdated, Scope{})
	return d, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	if err := s.api.DeleteDoctor(ctx, id); err != nil {
		return err
	}
	_ = s.Apply(ctx, DoctorDeleted, Scope{})
	return nil
}

// CreateUser solo para rol admin (según los claims del token).
func (s *Service) CreateUser(ctx context.Context, in users.CreateInput) (users.User, error) {
	claims, ok := s.session.Claims()
	if !ok || !claims.IsAdmin() {
		return users.User{}, ErrForbidden
	}
	in, err := in.Validate()
	if err != nil {
		return users.User{}, err
	}
	u, err := s.api.CreateUser(ctx, in)
	if err != nil {
		return users.User{}, err
	}
	_ = s.Apply(ctx, UserCreated, Scope{})
	return u, nil
}

// DeleteAppointment corre el flujo de baja ya confirmado por el usuario.
func (s *Service) DeleteAppointment(ctx context.Context, id string) (appointments.DeleteView, error) {
	a, ok := s.store.Appointment(id)
	if !ok {
		return appointments.DeleteView{}, ErrAppointmentNotFound
	}
	d := appointments.NewDeletion(s.workflowDeps())
	if err := d.Request(a); err != nil {
		return d.View(), err
	}
	err := d.Confirm(ctx)
	return d.View(), err
}
