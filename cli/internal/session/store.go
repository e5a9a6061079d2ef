// ABOUTME: Token Store: the single source of truth for the session token
// ABOUTME: Persists to Storage with an in-memory fallback and notifies listeners on change

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/markalston/wusuleable-web/cli/internal/storage"
)

// Change is delivered to listeners after every Set or Clear, and for token
// changes made by other processes (External).
type Change struct {
	Token    string
	External bool
}

// Store holds the current token. A Store built without storage is inert:
// Get returns "" and Set/Clear neither write nor notify.
type Store struct {
	storage storage.Storage
	log     *slog.Logger

	mu        sync.Mutex
	memory    string
	unsaved   bool // storage rejected the last Set or Clear; memory wins
	listeners map[int]func(Change)
	nextID    int
}

func NewStore(s storage.Storage, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		storage:   s,
		log:       log,
		listeners: map[int]func(Change){},
	}
}

// Get returns the current token, or "" when signed out.
func (s *Store) Get() string {
	if s.storage == nil {
		return ""
	}

	s.mu.Lock()
	memory, unsaved := s.memory, s.unsaved
	s.mu.Unlock()
	if unsaved {
		return memory
	}

	v, ok, err := s.storage.GetItem(storage.KeyToken)
	if err != nil {
		return memory
	}
	if ok {
		return v
	}
	return ""
}

// Set stores token and notifies listeners once. A failed storage write
// keeps the token in memory for this process.
func (s *Store) Set(token string) {
	if s.storage == nil {
		return
	}

	err := s.storage.SetItem(storage.KeyToken, token)
	if err != nil {
		s.log.Debug("Token write failed; keeping in-memory copy", "error", err)
	}

	s.mu.Lock()
	s.memory = token
	s.unsaved = err != nil
	s.mu.Unlock()

	s.notify(Change{Token: token})
}

// Clear removes the token everywhere and notifies listeners once.
func (s *Store) Clear() {
	if s.storage == nil {
		return
	}

	err := s.storage.RemoveItem(storage.KeyToken)
	if err != nil {
		s.log.Debug("Token removal failed; treating as signed out", "error", err)
	}

	s.mu.Lock()
	s.memory = ""
	s.unsaved = err != nil
	s.mu.Unlock()

	s.notify(Change{})
}

// Subscribe registers fn for change notifications. The returned function
// unregisters it.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Follow re-emits token changes from other processes until events closes
// or ctx is done.
func (s *Store) Follow(ctx context.Context, events <-chan storage.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Key != storage.KeyToken {
				continue
			}

			s.mu.Lock()
			s.memory = ev.NewValue
			s.unsaved = false
			s.mu.Unlock()

			s.notify(Change{Token: ev.NewValue, External: true})
		}
	}
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
