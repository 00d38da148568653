package pets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedFetcher cuenta llamadas por cliente y, si gate != nil, bloquea hasta que se cierre.
type gatedFetcher struct {
	mu     sync.Mutex
	calls  map[string]int
	gate   chan struct{}
	errs   []error
	result map[string][]Pet
	called chan string
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		calls:  map[string]int{},
		result: map[string][]Pet{},
		called: make(chan string, 16),
	}
}

func (f *gatedFetcher) ListPetsByCustomer(ctx context.Context, customerID string) ([]Pet, error) {
	f.mu.Lock()
	f.calls[customerID]++
	gate := f.gate
	var err error
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	pets := f.result[customerID]
	f.mu.Unlock()

	f.called <- customerID
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return pets, nil
}

func (f *gatedFetcher) count(customerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[customerID]
}

type countingRecorder struct{ ok, failed, stale atomic.Int32 }

func (r *countingRecorder) ObservePetCacheFetch(outcome string) {
	switch outcome {
	case "ok":
		r.ok.Add(1)
	case "error":
		r.failed.Add(1)
	case "stale":
		r.stale.Add(1)
	}
}

func TestCache_ConcurrentEnsureLoadedCoalesces(t *testing.T) {
	f := newGatedFetcher()
	f.gate = make(chan struct{})
	f.result["c1"] = []Pet{{ID: "p1", Name: "Milo", CustomerID: "c1"}}
	c := NewCache(f)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.EnsureLoaded(context.Background(), "c1")
		}(i)
	}

	<-f.called
	assert.Equal(t, StateLoading, c.StateOf("c1"))
	assert.True(t, c.Get("c1").Loading)
	assert.Empty(t, c.Get("c1").Pets)

	close(f.gate)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.count("c1"))
	snap := c.Get("c1")
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)
	require.Len(t, snap.Pets, 1)
	assert.Equal(t, "Milo", snap.Pets[0].Name)
}

func TestCache_PopulatedIsNoop(t *testing.T) {
	f := newGatedFetcher()
	c := NewCache(f)

	require.NoError(t, c.EnsureLoaded(context.Background(), "c1"))
	require.NoError(t, c.EnsureLoaded(context.Background(), "c1"))
	assert.Equal(t, 1, f.count("c1"))
	assert.True(t, c.Get("c1").Loaded)
	assert.NotNil(t, c.Get("c1").Pets)
}

func TestCache_InvalidateForcesRefetch(t *testing.T) {
	f := newGatedFetcher()
	c := NewCache(f)

	require.NoError(t, c.EnsureLoaded(context.Background(), "c1"))
	c.Invalidate("c1")
	assert.Equal(t, StateAbsent, c.StateOf("c1"))

	f.mu.Lock()
	f.result["c1"] = []Pet{{ID: "p2", CustomerID: "c1"}}
	f.mu.Unlock()

	require.NoError(t, c.EnsureLoaded(context.Background(), "c1"))
	assert.Equal(t, 2, f.count("c1"))
	assert.True(t, c.Owns("c1", "p2"))
}

func TestCache_FailureLeavesEntryAbsent(t *testing.T) {
	f := newGatedFetcher()
	f.errs = []error{errors.New("boom")}
	rec := &countingRecorder{}
	c := NewCache(f, WithRecorder(rec))

	err := c.EnsureLoaded(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, StateAbsent, c.StateOf("c1"))
	assert.False(t, c.Get("c1").Loading)

	require.NoError(t, c.EnsureLoaded(context.Background(), "c1"))
	assert.Equal(t, 2, f.count("c1"))
	assert.EqualValues(t, 1, rec.failed.Load())
	assert.EqualValues(t, 1, rec.ok.Load())
}

func TestCache_WaitersShareFailureWithoutRetrying(t *testing.T) {
	f := newGatedFetcher()
	f.gate = make(chan struct{})
	f.errs = []error{errors.New("boom")}
	c := NewCache(f)

	first := make(chan error, 1)
	go func() { first <- c.EnsureLoaded(context.Background(), "c1") }()
	<-f.called

	second := make(chan error, 1)
	go func() { second <- c.EnsureLoaded(context.Background(), "c1") }()

	// el segundo tiene que quedar esperando el mismo fetch
	require.Eventually(t, func() bool { return c.waiting.Load() == 1 }, time.Second, time.Millisecond)
	close(f.gate)

	assert.Error(t, <-first)
	assert.Error(t, <-second)
	assert.Equal(t, 1, f.count("c1"))
}

func TestCache_InvalidateWhileLoadingDiscardsResult(t *testing.T) {
	f := newGatedFetcher()
	f.gate = make(chan struct{})
	f.result["c1"] = []Pet{{ID: "old"}}
	rec := &countingRecorder{}
	c := NewCache(f, WithRecorder(rec))

	done := make(chan error, 1)
	go func() { done <- c.EnsureLoaded(context.Background(), "c1") }()
	<-f.called

	c.Invalidate("c1")
	f.mu.Lock()
	f.result["c1"] = []Pet{{ID: "new"}}
	f.mu.Unlock()

	// liberamos el primer fetch y también el refetch que dispara el waiter
	close(f.gate)
	require.NoError(t, <-done)

	assert.Equal(t, 2, f.count("c1"))
	assert.True(t, c.Owns("c1", "new"))
	assert.False(t, c.Owns("c1", "old"))
	assert.EqualValues(t, 1, rec.stale.Load())
}

func TestCache_WaiterContextCancelled(t *testing.T) {
	f := newGatedFetcher()
	f.gate = make(chan struct{})
	c := NewCache(f)

	go func() { _ = c.EnsureLoaded(context.Background(), "c1") }()
	<-f.called

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.EnsureLoaded(ctx, "c1")
	assert.ErrorIs(t, err, context.Canceled)

	close(f.gate)
	require.Eventually(t, func() bool { return c.StateOf("c1") == StatePopulated }, time.Second, time.Millisecond)
	assert.Equal(t, 1, f.count("c1"))
}

func TestCache_LeaderCancelDoesNotFailJoiners(t *testing.T) {
	f := newGatedFetcher()
	f.gate = make(chan struct{})
	f.result["c1"] = []Pet{{ID: "p1", Name: "Milo"}}
	c := NewCache(f)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leader := make(chan error, 1)
	go func() { leader <- c.EnsureLoaded(leaderCtx, "c1") }()
	<-f.called

	joiner := make(chan error, 1)
	go func() { joiner <- c.EnsureLoaded(context.Background(), "c1") }()
	require.Eventually(t, func() bool { return c.waiting.Load() == 1 }, time.Second, time.Millisecond)

	// quien disparó el fetch se va; el fetch sigue para el resto
	cancelLeader()
	assert.ErrorIs(t, <-leader, context.Canceled)
	assert.Equal(t, StateLoading, c.StateOf("c1"))

	close(f.gate)
	require.NoError(t, <-joiner)
	assert.Equal(t, StatePopulated, c.StateOf("c1"))
	assert.True(t, c.Owns("c1", "p1"))
	assert.Equal(t, 1, f.count("c1"))
}

func TestCache_IndependentKeys(t *testing.T) {
	f := newGatedFetcher()
	c := NewCache(f)

	require.NoError(t, c.EnsureLoaded(context.Background(), "c1"))
	require.NoError(t, c.EnsureLoaded(context.Background(), "c2"))
	c.Forget("c1")

	assert.Equal(t, StateAbsent, c.StateOf("c1"))
	assert.Equal(t, StatePopulated, c.StateOf("c2"))
	assert.Equal(t, 1, f.count("c1"))
	assert.Equal(t, 1, f.count("c2"))
}

func TestCreateInput_Validate(t *testing.T) {
	in := CreateInput{Name: " Firulais ", Animal: "Perro", Breed: "Labrador", Age: 3, CustomerID: "c1"}.Normalize()
	require.NoError(t, in.Validate())
	assert.Equal(t, "Firulais", in.Name)

	err := CreateInput{Age: -1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age")
	assert.Contains(t, err.Error(), "customer_id")
}

func TestCache_ResetDropsEverything(t *testing.T) {
	f := newGatedFetcher()
	c := NewCache(f)

	require.NoError(t, c.EnsureLoaded(context.Background(), "c1"))
	c.Reset()
	assert.Equal(t, StateAbsent, c.StateOf("c1"))
	assert.False(t, c.Get("c1").Loaded)

	require.NoError(t, c.EnsureLoaded(context.Background(), "c1"))
	assert.Equal(t, 2, f.count("c1"))
}
