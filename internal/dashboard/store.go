package dashboard

import (
	"sync"

	"petcheck-dashboard/internal/adapters/vetapi"
	"petcheck-dashboard/internal/domain/appointments"
	"petcheck-dashboard/internal/domain/customers"
	"petcheck-dashboard/internal/domain/doctors"
)

// collectionState es el estado visible de una colección en la UI.
type collectionState struct {
	Loaded  bool
	Loading bool
	Err     string

	// seq es el último fetch iniciado; solo ese puede escribir.
	seq uint64
}

// ticket identifica un fetch: epoch de sesión + secuencia de la colección.
type ticket struct {
	epoch uint64
	seq   uint64
}

// Store guarda la última copia de cada colección. Un refresh fallido
// conserva los datos anteriores y deja el error para mostrar.
type Store struct {
	mu sync.RWMutex

	appointments []appointments.Appointment
	customers    []customers.Customer
	doctors      []doctors.Doctor

	state map[vetapi.Collection]*collectionState

	// epoch sube con Reset (logout/login); un fetch iniciado antes se descarta.
	epoch uint64
}

func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.appointments = []appointments.Appointment{}
	s.customers = []customers.Customer{}
	s.doctors = []doctors.Doctor{}
	s.state = map[vetapi.Collection]*collectionState{
		vetapi.CollectionAppointments: {},
		vetapi.CollectionCustomers:    {},
		vetapi.CollectionDoctors:      {},
	}
}

// markLoading abre un fetch nuevo. Los fetches anteriores de la misma
// colección quedan vencidos: su respuesta se descarta aunque llegue después.
func (s *Store) markLoading(c vetapi.Collection) ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := ticket{epoch: s.epoch}
	if st, ok := s.state[c]; ok {
		st.seq++
		st.Loading = true
		t.seq = st.seq
	}
	return t
}

// current devuelve el estado de c si t sigue siendo el último fetch. Con lock tomado.
func (s *Store) current(t ticket, c vetapi.Collection) (*collectionState, bool) {
	if t.epoch != s.epoch {
		return nil, false
	}
	st, ok := s.state[c]
	if !ok || st.seq != t.seq {
		return nil, false
	}
	return st, true
}

func (s *Store) markFailed(t ticket, c vetapi.Collection, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.current(t, c)
	if !ok {
		return
	}
	st.Loading = false
	st.Err = err.Error()
}

func (s *Store) setAppointments(t ticket, list []appointments.Appointment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.current(t, vetapi.CollectionAppointments)
	if !ok {
		return false
	}
	s.appointments = list
	st.done()
	return true
}

func (s *Store) setCustomers(t ticket, list []customers.Customer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.current(t, vetapi.CollectionCustomers)
	if !ok {
		return false
	}
	s.customers = list
	st.done()
	return true
}

func (s *Store) setDoctors(t ticket, list []doctors.Doctor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.current(t, vetapi.CollectionDoctors)
	if !ok {
		return false
	}
	s.doctors = list
	st.done()
	return true
}

func (st *collectionState) done() {
	st.Loaded = true
	st.Loading = false
	st.Err = ""
}

func (s *Store) Appointments() []appointments.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]appointments.Appointment(nil), s.appointments...)
}

func (s *Store) Customers() []customers.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]customers.Customer{}, s.customers...)
}

func (s *Store) Doctors() []doctors.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]doctors.Doctor{}, s.doctors...)
}

func (s *Store) Appointment(id string) (appointments.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.ID == id {
			return a, true
		}
	}
	return appointments.Appointment{}, false
}

func (s *Store) Loaded(c vetapi.Collection) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.state[c]
	return ok && st.Loaded
}

// CollectionStatus es lo que se serializa para el front.
type CollectionStatus struct {
	Loaded  bool   `json:"loaded"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

func (s *Store) Status() map[string]CollectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]CollectionStatus, len(s.state))
	for c, st := range s.state {
		out[string(c)] = CollectionStatus{Loaded: st.Loaded, Loading: st.Loading, Error: st.Err}
	}
	return out
}
