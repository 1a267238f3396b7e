package organizer

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
)

// Registry owns the open editing sessions, one Manager each.
type Registry struct {
	lib   pdf.Library
	cache PreviewCache
	log   logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Manager
	next     uint64
}

// NewRegistry creates a registry whose sessions share lib and cache. A nil
// cache gives every session its own in-memory cache.
func NewRegistry(lib pdf.Library, cache PreviewCache, log logger.Logger) *Registry {
	return &Registry{
		lib:      lib,
		cache:    cache,
		log:      log,
		sessions: make(map[string]*Manager),
	}
}

// Open starts a new, empty session.
func (r *Registry) Open() *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	id := fmt.Sprintf("s%d", r.next)
	var opts []Option
	if r.cache != nil {
		opts = append(opts, WithPreviewCache(r.cache))
	}
	m := NewManager(id, r.lib, r.log.Named(id), opts...)
	r.sessions[id] = m
	r.log.Info("opened session %s", id)
	return m
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return m, nil
}

// Close resets the session, releasing its sources and previews, and
// forgets it.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	m, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	m.Reset()
	r.log.Info("closed session %s", id)
	return nil
}

// List returns the open session IDs in the order they were opened.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		return sessionNumber(a) - sessionNumber(b)
	})
	return ids
}

func sessionNumber(id string) int {
	var n int
	fmt.Sscanf(id, "s%d", &n)
	return n
}
