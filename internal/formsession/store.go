// Package formsession keeps one form controller per browser session.
package formsession

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/authform/internal/form"
)

// Factory builds the controller for a new session.
type Factory func() *form.Controller

type entry struct {
	ctrl     *form.Controller
	lastUsed time.Time
}

// Store maps session ids to controllers and forgets sessions idle for longer
// than the configured TTL.
type Store struct {
	newController Factory
	idleTTL       time.Duration
	now           func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty Store.
func New(factory Factory, idleTTL time.Duration) *Store {
	return &Store{
		newController: factory,
		idleTTL:       idleTTL,
		now:           time.Now,
		entries:       make(map[string]*entry),
	}
}

// Get returns the controller for id and marks the session as used.
func (s *Store) Get(id string) (*form.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = s.now()
	return e.ctrl, true
}

// GetOrCreate returns the controller for id, or starts a new session with a
// fresh id when id is unknown.
func (s *Store) GetOrCreate(id string) (string, *form.Controller) {
	if id != "" {
		if ctrl, ok := s.Get(id); ok {
			return id, ctrl
		}
	}

	id = uuid.NewString()
	ctrl := s.newController()

	s.mu.Lock()
	s.entries[id] = &entry{ctrl: ctrl, lastUsed: s.now()}
	s.mu.Unlock()
	return id, ctrl
}

// Delete drops the session id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is canceled.
func (s *Store) Run(ctx context.Context) {
	interval := s.idleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("swept idle form sessions", "count", n)
			}
		}
	}
}
