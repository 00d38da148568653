package pets

import (
	"context"
	"sync"
	"sync/atomic"

	"petcheck-dashboard/internal/platform/logger"
)

// Fetcher trae las mascotas de un cliente desde la API.
type Fetcher interface {
	ListPetsByCustomer(ctx context.Context, customerID string) ([]Pet, error)
}

// FetchRecorder es opcional; recibe "ok" | "error" | "stale" por cada fetch.
type FetchRecorder interface {
	ObservePetCacheFetch(outcome string)
}

// State del ciclo de vida de una entrada del cache.
type State int

const (
	StateAbsent State = iota
	StateLoading
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	default:
		return "absent"
	}
}

// flight es un fetch en curso. done se cierra al terminar.
// stale=true si la entrada se invalidó mientras cargaba: el resultado se descarta.
type flight struct {
	done  chan struct{}
	err   error
	stale bool
}

type entry struct {
	state State
	pets  []Pet
	gen   uint64
	cur   *flight
}

// Cache mapea cliente => mascotas, cargado bajo demanda.
//
// Una sola transición absent→loading por clave dispara un fetch; quien
// encuentra la entrada en loading espera ese mismo fetch.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	fetcher  Fetcher
	log      logger.Logger
	recorder FetchRecorder

	// waiting cuenta callers bloqueados en un fetch ajeno.
	waiting atomic.Int64
}

type CacheOption func(*Cache)

func WithLogger(l logger.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

func WithRecorder(r FetchRecorder) CacheOption {
	return func(c *Cache) { c.recorder = r }
}

func NewCache(f Fetcher, opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		fetcher: f,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot es lo que ve la UI para un cliente.
type Snapshot struct {
	Pets    []Pet `json:"pets"`
	Loading bool  `json:"loading"`
	Loaded  bool  `json:"loaded"`
}

// EnsureLoaded carga las mascotas del cliente si la entrada está ausente.
// Si ya está cargando, espera ese fetch; si está poblada, no hace nada.
// Un fetch fallido deja la entrada ausente (se puede reintentar).
//
// El fetch compartido no hereda la cancelación de quien lo disparó (lo acota
// el timeout del transporte): ctx solo corta la espera de este llamador.
func (c *Cache) EnsureLoaded(ctx context.Context, customerID string) error {
	for {
		c.mu.Lock()
		e := c.entryLocked(customerID)

		var (
			f      *flight
			joined bool
		)
		switch e.state {
		case StatePopulated:
			c.mu.Unlock()
			return nil

		case StateLoading:
			f = e.cur
			joined = true
			c.mu.Unlock()

		default:
			f = &flight{done: make(chan struct{})}
			e.state = StateLoading
			e.cur = f
			gen := e.gen
			c.mu.Unlock()

			go c.load(context.WithoutCancel(ctx), customerID, e, gen, f)
		}

		if err := c.wait(ctx, f, joined); err != nil {
			return err
		}
		if f.stale {
			// invalidado mientras cargaba: volver a mirar el estado
			continue
		}
		return f.err
	}
}

// wait espera el fetch f o la cancelación de ctx. joined cuenta en waiting.
func (c *Cache) wait(ctx context.Context, f *flight, joined bool) error {
	if joined {
		c.waiting.Add(1)
		defer c.waiting.Add(-1)
	}
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cache) load(ctx context.Context, customerID string, e *entry, gen uint64, f *flight) {
	items, err := c.fetcher.ListPetsByCustomer(ctx, customerID)

	c.mu.Lock()
	switch {
	case e.gen != gen:
		f.stale = true
	case err != nil:
		f.err = err
		e.state = StateAbsent
		e.cur = nil
	default:
		if items == nil {
			items = []Pet{}
		}
		e.state = StatePopulated
		e.pets = items
		e.cur = nil
	}
	c.mu.Unlock()
	close(f.done)

	switch {
	case f.stale:
		c.record("stale")
		c.log.Debug("pet cache load discarded", map[string]any{"customer_id": customerID})
	case err != nil:
		c.record("error")
		c.log.Warn("pet cache load failed", map[string]any{"customer_id": customerID, "err": err})
	default:
		c.record("ok")
	}
}

// Invalidate fuerza que el próximo EnsureLoaded vuelva a pedir a la API.
// Un fetch en curso para esa clave queda descartado al llegar.
func (c *Cache) Invalidate(customerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[customerID]
	if !ok {
		return
	}
	e.gen++
	e.state = StateAbsent
	e.pets = nil
	e.cur = nil
}

// Forget saca la entrada (cliente eliminado). No dispara fetch.
func (c *Cache) Forget(customerID string) {
	c.Invalidate(customerID)

	c.mu.Lock()
	delete(c.entries, customerID)
	c.mu.Unlock()
}

// Reset vacía el cache (logout). Los fetches en curso quedan descartados.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.gen++
		e.state = StateAbsent
		e.pets = nil
		e.cur = nil
	}
	c.entries = make(map[string]*entry)
}

// Get devuelve la lista actual (vacía si absent/loading) y el flag de carga.
func (c *Cache) Get(customerID string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[customerID]
	if !ok {
		return Snapshot{Pets: []Pet{}}
	}
	snap := Snapshot{
		Pets:    []Pet{},
		Loading: e.state == StateLoading,
		Loaded:  e.state == StatePopulated,
	}
	if e.state == StatePopulated {
		snap.Pets = append(snap.Pets, e.pets...)
	}
	return snap
}

// StateOf expone el estado de la entrada (tests y diagnóstico).
func (c *Cache) StateOf(customerID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[customerID]; ok {
		return e.state
	}
	return StateAbsent
}

// Owns dice si petID está entre las mascotas cargadas del cliente.
func (c *Cache) Owns(customerID, petID string) bool {
	for _, p := range c.Get(customerID).Pets {
		if p.ID == petID {
			return true
		}
	}
	return false
}

func (c *Cache) entryLocked(customerID string) *entry {
	e, ok := c.entries[customerID]
	if !ok {
		e = &entry{}
		c.entries[customerID] = e
	}
	return e
}

func (c *Cache) record(outcome string) {
	if c.recorder != nil {
		c.recorder.ObservePetCacheFetch(outcome)
	}
}
