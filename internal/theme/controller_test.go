package theme

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"alcyxob/fitness-testkit/internal/prefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetString(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStore) SetString(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockStore) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// gatedStore blocks the first write of gated until release is closed.
type gatedStore struct {
	*prefs.MemoryStore
	gated   string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStore) SetString(ctx context.Context, key, value string) error {
	if err := g.MemoryStore.SetString(ctx, key, value); err != nil {
		return err
	}
	if value == g.gated {
		g.once.Do(func() {
			close(g.entered)
			<-g.release
		})
	}
	return nil
}

func newController(t *testing.T, store prefs.Store) *Controller {
	t.Helper()
	c, err := NewController(context.Background(), store, nil)
	require.NoError(t, err)
	return c
}

func persisted(t *testing.T, store *prefs.MemoryStore) string {
	t.Helper()
	v, _, err := store.GetString(context.Background(), PreferenceKey)
	require.NoError(t, err)
	return v
}

func TestController_DefaultsToSystem(t *testing.T) {
	store := prefs.NewMemoryStore(nil)
	c := newController(t, store)

	assert.Equal(t, ModeSystem, c.Mode())
	assert.Zero(t, store.Writes())
}

func TestController_RestoresSavedMode(t *testing.T) {
	c := newController(t, prefs.NewMemoryStore(map[string]string{PreferenceKey: "dark"}))
	assert.Equal(t, ModeDark, c.Mode())
}

func TestController_UnknownTokenFallsBack(t *testing.T) {
	c := newController(t, prefs.NewMemoryStore(map[string]string{PreferenceKey: "sepia"}))
	assert.Equal(t, ModeSystem, c.Mode())
}

func TestController_SetLightAndDark(t *testing.T) {
	ctx := context.Background()
	for _, m := range []Mode{ModeLight, ModeDark} {
		t.Run(string(m), func(t *testing.T) {
			store := prefs.NewMemoryStore(nil)
			c := newController(t, store)

			require.NoError(t, c.SetMode(ctx, m))
			assert.Equal(t, m, c.Mode())
			assert.Equal(t, string(m), persisted(t, store))
		})
	}
}

func TestController_SequentialTransitions(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore(nil)
	c := newController(t, store)

	for _, m := range []Mode{ModeLight, ModeDark, ModeSystem} {
		require.NoError(t, c.SetMode(ctx, m))
		assert.Equal(t, m, c.Mode())
		assert.Equal(t, string(m), persisted(t, store))
	}
	assert.Equal(t, 3, store.Writes())
}

func TestController_Cycle(t *testing.T) {
	ctx := context.Background()
	c := newController(t, prefs.NewMemoryStore(nil))

	var seen []Mode
	for i := 0; i < 4; i++ {
		m, err := c.Cycle(ctx)
		require.NoError(t, err)
		seen = append(seen, m)
	}
	assert.Equal(t, []Mode{ModeLight, ModeDark, ModeSystem, ModeLight}, seen)
}

func TestController_RestartRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore(nil)

	require.NoError(t, newController(t, store).SetMode(ctx, ModeDark))

	restarted := newController(t, store)
	assert.Equal(t, ModeDark, restarted.Mode())
}

func TestController_SameModeIsNoop(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore(nil)
	c := newController(t, store)

	notified := 0
	cancel := c.Subscribe(func(Mode) { notified++ })
	defer cancel()

	require.NoError(t, c.SetMode(ctx, ModeDark))
	require.NoError(t, c.SetMode(ctx, ModeDark))
	require.NoError(t, c.SetMode(ctx, ModeDark))

	assert.Equal(t, 1, notified)
	assert.Equal(t, 1, store.Writes())

	// System is the initial mode, so selecting it first changes nothing.
	fresh := newController(t, prefs.NewMemoryStore(nil))
	freshNotified := 0
	fresh.Subscribe(func(Mode) { freshNotified++ })
	require.NoError(t, fresh.SetMode(ctx, ModeSystem))
	assert.Zero(t, freshNotified)
}

func TestController_SubscribeCancel(t *testing.T) {
	ctx := context.Background()
	c := newController(t, prefs.NewMemoryStore(nil))

	var a, b []Mode
	cancelA := c.Subscribe(func(m Mode) { a = append(a, m) })
	c.Subscribe(func(m Mode) { b = append(b, m) })

	require.NoError(t, c.SetMode(ctx, ModeLight))
	cancelA()
	require.NoError(t, c.SetMode(ctx, ModeDark))

	assert.Equal(t, []Mode{ModeLight}, a)
	assert.Equal(t, []Mode{ModeLight, ModeDark}, b)
}

func TestController_PersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("GetString", mock.Anything, PreferenceKey).Return("light", true, nil)
	store.On("SetString", mock.Anything, PreferenceKey, "dark").Return(errors.New("disk full"))

	c := newController(t, store)
	notified := false
	c.Subscribe(func(Mode) { notified = true })

	assert.Error(t, c.SetMode(ctx, ModeDark))
	assert.Equal(t, ModeLight, c.Mode())
	assert.False(t, notified)
	store.AssertExpectations(t)
}

func TestController_LoadFailure(t *testing.T) {
	store := &mockStore{}
	store.On("GetString", mock.Anything, PreferenceKey).Return("", false, errors.New("unreachable"))

	_, err := NewController(context.Background(), store, nil)
	assert.Error(t, err)
}

func TestController_RejectsUnknownMode(t *testing.T) {
	store := prefs.NewMemoryStore(nil)
	c := newController(t, store)

	assert.Error(t, c.SetMode(context.Background(), Mode("sepia")))
	assert.Equal(t, ModeSystem, c.Mode())
	assert.Zero(t, store.Writes())
}

func TestController_OverlappingSetModeStaysConsistent(t *testing.T) {
	ctx := context.Background()
	store := &gatedStore{
		MemoryStore: prefs.NewMemoryStore(nil),
		gated:       string(ModeLight),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	c := newController(t, store)

	var mu sync.Mutex
	var seen []Mode
	c.Subscribe(func(m Mode) {
		mu.Lock()
		seen = append(seen, m)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.SetMode(ctx, ModeLight))
	}()
	<-store.entered

	var darkDone atomic.Bool
	go func() {
		defer wg.Done()
		assert.NoError(t, c.SetMode(ctx, ModeDark))
		darkDone.Store(true)
	}()
	assert.Never(t, darkDone.Load, 50*time.Millisecond, 5*time.Millisecond)

	close(store.release)
	wg.Wait()

	assert.Equal(t, ModeDark, c.Mode())
	assert.Equal(t, string(ModeDark), persisted(t, store.MemoryStore))
	assert.Equal(t, []Mode{ModeLight, ModeDark}, seen)
	assert.Equal(t, 2, store.Writes())
}
