// internal/server/repository.go
package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/valpere/SolarArchiver/internal/catalog"
	"github.com/valpere/SolarArchiver/internal/store"
)

// Editable fields accepted by ApplyEdit.
const (
	FieldTarget   = "target"
	FieldComments = "comments"
)

// Sentinel errors returned by the repository, so the HTTP layer can map
// failures to status codes.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrFieldNotEditable = errors.New("field not editable")
)

// Repository holds the in-memory catalog behind the edit API. Edits go
// through ApplyEdit and are flushed back to the configured store, so the
// curation surface never mutates sessions directly.
type Repository struct {
	mu       sync.RWMutex
	sessions []catalog.Session
	manager  *store.Manager
}

// NewRepository creates a repository over the given sessions. manager may
// be nil, in which case edits stay in memory only.
func NewRepository(sessions []catalog.Session, manager *store.Manager) *Repository {
	return &Repository{sessions: sessions, manager: manager}
}

// Len returns the number of sessions held.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns a copy of all sessions in catalog order.
func (r *Repository) List() []catalog.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// Get returns the session at the positional index assigned at load time.
func (r *Repository) Get(id int) (catalog.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || id >= len(r.sessions) {
		return catalog.Session{}, fmt.Errorf("no session with id %d: %w", id, ErrSessionNotFound)
	}
	return r.sessions[id], nil
}

// ApplyEdit sets one curated field on one session and persists the
// catalog. An empty value clears the field back to unset.
func (r *Repository) ApplyEdit(id int, field, value string) (catalog.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 0 || id >= len(r.sessions) {
		return catalog.Session{}, fmt.Errorf("no session with id %d: %w", id, ErrSessionNotFound)
	}

	var target **string
	switch field {
	case FieldTarget:
		target = &r.sessions[id].Target
	case FieldComments:
		target = &r.sessions[id].Comments
	default:
		return catalog.Session{}, fmt.Errorf("field %q: %w", field, ErrFieldNotEditable)
	}

	if value == "" {
		*target = nil
	} else {
		v := value
		*target = &v
	}

	if r.manager != nil {
		if err := r.manager.Write(r.sessions); err != nil {
			return catalog.Session{}, fmt.Errorf("persist edit: %w", err)
		}
	}
	return r.sessions[id], nil
}
