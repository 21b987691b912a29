package theme

import (
	"context"
	"fmt"
	"sync"

	"alcyxob/fitness-testkit/internal/prefs"

	"go.uber.org/zap"
)

// Listener is called with the new mode after every actual change. Calls
// are serialized and must not call SetMode.
type Listener func(Mode)

// Controller owns the current Mode. Changes are written to the preference
// store before they become visible.
type Controller struct {
	store  prefs.Store
	logger *zap.Logger

	writeMu sync.Mutex

	mu        sync.Mutex
	mode      Mode
	nextID    int
	listeners map[int]Listener
}

// NewController restores the mode saved in store. A missing or unknown
// token yields ModeSystem.
func NewController(ctx context.Context, store prefs.Store, logger *zap.Logger) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		store:     store,
		logger:    logger,
		mode:      ModeSystem,
		listeners: make(map[int]Listener),
	}

	token, ok, err := store.GetString(ctx, PreferenceKey)
	if err != nil {
		return nil, fmt.Errorf("load theme mode: %w", err)
	}
	if ok {
		mode, err := ParseMode(token)
		if err != nil {
			logger.Warn("ignoring saved theme mode", zap.String("token", token), zap.Error(err))
		}
		c.mode = mode
	}
	logger.Debug("theme mode restored", zap.Stringer("mode", c.mode))
	return c, nil
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode persists m, makes it current and notifies listeners once. It does
// nothing when m is already current. On a store error the current mode is
// kept and nobody is notified.
func (c *Controller) SetMode(ctx context.Context, m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}

	// writeMu keeps the saved token and c.mode in step across callers.
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.Mode() == m {
		return nil
	}
	if err := c.store.SetString(ctx, PreferenceKey, string(m)); err != nil {
		return fmt.Errorf("persist theme mode: %w", err)
	}

	c.mu.Lock()
	c.mode = m
	listeners := make([]Listener, 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	c.mu.Unlock()

	c.logger.Info("theme mode changed", zap.Stringer("mode", m))
	for _, fn := range listeners {
		fn(m)
	}
	return nil
}

// Cycle moves to the next mode.
func (c *Controller) Cycle(ctx context.Context) (Mode, error) {
	next := c.Mode().Next()
	if err := c.SetMode(ctx, next); err != nil {
		return c.Mode(), err
	}
	return next, nil
}

// Subscribe registers fn for mode changes. The returned func removes it.
func (c *Controller) Subscribe(fn Listener) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}
