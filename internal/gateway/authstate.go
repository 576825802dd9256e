package gateway

import (
	"sync"
)

// AuthState holds the current identity and fans changes out to observers.
// Gateway implementations embed it to provide ObserveAuthState.
type AuthState struct {
	mu        sync.RWMutex
	current   *Identity
	observers map[int]func(*Identity)
	nextID    int
}

// Current returns a copy of the signed-in identity, or nil.
func (s *AuthState) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyIdentity(s.current)
}

// Set replaces the identity (nil signs out) and notifies every observer.
func (s *AuthState) Set(id *Identity) {
	s.mu.Lock()
	s.current = copyIdentity(id)
	observers := make([]func(*Identity), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(copyIdentity(id))
	}
}

func (s *AuthState) ObserveAuthState(fn func(*Identity)) (cancel func()) {
	s.mu.Lock()
	if s.observers == nil {
		s.observers = make(map[int]func(*Identity))
	}
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	current := copyIdentity(s.current)
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func copyIdentity(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
