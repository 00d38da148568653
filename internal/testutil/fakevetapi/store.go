package fakevetapi

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"petcheck-dashboard/internal/domain/customers"
	"petcheck-dashboard/internal/domain/doctors"
	"petcheck-dashboard/internal/domain/pets"
	"petcheck-dashboard/internal/domain/users"
)

var ErrNotFound = errors.New("not found")

type appointmentRec struct {
	ID        string
	Date      string // tal cual llegó; puede ser inválida a propósito
	Diagnosis string
	Treatment string
	PetID     string
	DoctorID  string
	seq       int
}

type userRec struct {
	users.User
	Password string
}

// store es el estado en memoria de la API falsa. Orden de listado: inserción.
type store struct {
	mu sync.RWMutex

	seq          int
	customers    map[string]customers.Customer
	customerSeq  map[string]int
	pets         map[string]pets.Pet
	petSeq       map[string]int
	doctors      map[string]doctors.Doctor
	doctorSeq    map[string]int
	appointments map[string]appointmentRec
	users        map[string]userRec // por email
}

func newStore() *store {
	return &store{
		customers:    make(map[string]customers.Customer),
		customerSeq:  make(map[string]int),
		pets:         make(map[string]pets.Pet),
		petSeq:       make(map[string]int),
		doctors:      make(map[string]doctors.Doctor),
		doctorSeq:    make(map[string]int),
		appointments: make(map[string]appointmentRec),
		users:        make(map[string]userRec),
	}
}

func (s *store) next() int {
	s.seq++
	return s.seq
}

// --- customers ---

func (s *store) putCustomer(c customers.Customer) customers.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	if _, ok := s.customerSeq[c.ID]; !ok {
		s.customerSeq[c.ID] = s.next()
	}
	s.customers[c.ID] = c
	return c
}

func (s *store) getCustomer(id string) (customers.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return customers.Customer{}, ErrNotFound
	}
	return c, nil
}

func (s *store) listCustomers() []customers.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]customers.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return s.customerSeq[out[i].ID] < s.customerSeq[out[j].ID] })
	return out
}

// deleteCustomer borra en cascada mascotas y turnos del cliente.
func (s *store) deleteCustomer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		return ErrNotFound
	}
	delete(s.customers, id)
	delete(s.customerSeq, id)
	for pid, p := range s.pets {
		if p.CustomerID != id {
			continue
		}
		delete(s.pets, pid)
		delete(s.petSeq, pid)
		for aid, a := range s.appointments {
			if a.PetID == pid {
				delete(s.appointments, aid)
			}
		}
	}
	return nil
}

// --- pets ---

func (s *store) putPet(p pets.Pet) (pets.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[p.CustomerID]; !ok {
		return pets.Pet{}, ErrNotFound
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if _, ok := s.petSeq[p.ID]; !ok {
		s.petSeq[p.ID] = s.next()
	}
	s.pets[p.ID] = p
	return p, nil
}

func (s *store) getPet(id string) (pets.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pets[id]
	if !ok {
		return pets.Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *store) petsByCustomer(customerID string) []pets.Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]pets.Pet, 0)
	for _, p := range s.pets {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.petSeq[out[i].ID] < s.petSeq[out[j].ID] })
	return out
}

// --- doctors ---

func (s *store) putDoctor(d doctors.Doctor) doctors.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(d.ID) == "" {
		d.ID = uuid.NewString()
	}
	if _, ok := s.doctorSeq[d.ID]; !ok {
		s.doctorSeq[d.ID] = s.next()
	}
	s.doctors[d.ID] = d
	return d
}

func (s *store) getDoctor(id string) (doctors.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.doctors[id]
	if !ok {
		return doctors.Doctor{}, ErrNotFound
	}
	return d, nil
}

func (s *store) listDoctors() []doctors.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]doctors.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return s.doctorSeq[out[i].ID] < s.doctorSeq[out[j].ID] })
	return out
}

// deleteDoctor también borra los turnos del doctor.
func (s *store) deleteDoctor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[id]; !ok {
		return ErrNotFound
	}
	delete(s.doctors, id)
	delete(s.doctorSeq, id)
	for aid, a := range s.appointments {
		if a.DoctorID == id {
			delete(s.appointments, aid)
		}
	}
	return nil
}

// --- appointments ---

func (s *store) putAppointment(a appointmentRec) (appointmentRec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[a.PetID]; !ok {
		return appointmentRec{}, ErrNotFound
	}
	if _, ok := s.doctors[a.DoctorID]; !ok {
		return appointmentRec{}, ErrNotFound
	}
	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	if prev, ok := s.appointments[a.ID]; ok {
		a.seq = prev.seq
	} else {
		a.seq = s.next()
	}
	s.appointments[a.ID] = a
	return a, nil
}

func (s *store) getAppointment(id string) (appointmentRec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return appointmentRec{}, ErrNotFound
	}
	return a, nil
}

func (s *store) deleteAppointment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return ErrNotFound
	}
	delete(s.appointments, id)
	return nil
}

// withNames arma la vista denormalizada de /appointments/with-names.
func (s *store) withNames() []appointmentWire {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]appointmentRec, 0, len(s.appointments))
	for _, a := range s.appointments {
		recs = append(recs, a)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	out := make([]appointmentWire, 0, len(recs))
	for _, a := range recs {
		out = append(out, s.wireLocked(a))
	}
	return out
}

func (s *store) wire(a appointmentRec) appointmentWire {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wireLocked(a)
}

func (s *store) wireLocked(a appointmentRec) appointmentWire {
	p := s.pets[a.PetID]
	c := s.customers[p.CustomerID]
	d := s.doctors[a.DoctorID]

	w := appointmentWire{
		ID:        a.ID,
		Diagnosis: a.Diagnosis,
		Treatment: a.Treatment,
		Pet: petWire{
			ID:   p.ID,
			Name: p.Name,
			Owner: ownerWire{
				ID:        c.ID,
				FirstName: c.FirstName,
				LastName:  c.LastName,
			},
		},
		Doctor: d,
	}
	if a.Date != "" {
		date := a.Date
		w.Date = &date
	}
	return w
}

// --- users ---

func (s *store) putUser(u userRec) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(strings.TrimSpace(u.Email))
	if _, exists := s.users[key]; exists {
		return users.User{}, errors.New("user already exists")
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[key] = u
	return u.User, nil
}

func (s *store) checkPassword(email, password string) (users.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || u.Password != password {
		return users.User{}, false
	}
	return u.User, true
}

type appointmentWire struct {
	ID        string         `json:"id"`
	Date      *string        `json:"date"`
	Diagnosis string         `json:"diagnosis"`
	Treatment string         `json:"treatment"`
	Pet       petWire        `json:"pet"`
	Doctor    doctors.Doctor `json:"doctor"`
}

type petWire struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Owner ownerWire `json:"owner"`
}

type ownerWire struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
