package pos

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jhoicas/tienda-pos/internal/domain"
)

// SessionStore borradores abiertos indexados por ID, para el API HTTP.
type SessionStore struct {
	c      *Coordinator
	mu     sync.RWMutex
	drafts map[string]*Draft
}

// NewSessionStore crea el registro sobre un coordinador.
func NewSessionStore(c *Coordinator) *SessionStore {
	return &SessionStore{c: c, drafts: make(map[string]*Draft)}
}

// Open crea un borrador nuevo y devuelve su ID.
func (s *SessionStore) Open(actor string) (string, *Draft) {
	id := uuid.NewString()
	d := s.c.NewDraft(actor)
	s.mu.Lock()
	s.drafts[id] = d
	s.mu.Unlock()
	return id, d
}

// Get busca un borrador. ErrNotFound si no existe.
func (s *SessionStore) Get(id string) (*Draft, error) {
	s.mu.RLock()
	d, ok := s.drafts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("borrador %s: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

// Remove olvida un borrador terminado. Un borrador en curso no se puede eliminar
// sin anularlo antes, ya que tiene stock descontado.
func (s *SessionStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return fmt.Errorf("borrador %s: %w", id, domain.ErrNotFound)
	}
	if st := d.State(); st == StateBuilding {
		return fmt.Errorf("borrador %s en curso: %w", id, domain.ErrConflict)
	}
	delete(s.drafts, id)
	return nil
}

// Len borradores registrados.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}
