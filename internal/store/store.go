package store

import "sync"

// Store holds the state and notifies subscribers after every dispatch.
// It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     State
	reducer   Reducer
	listeners map[int]func()
	nextID    int
}

// New creates a store with the given initial state and the root reducer.
func New(initial State) *Store {
	return &Store{
		state:     initial,
		reducer:   Reduce,
		listeners: make(map[int]func()),
	}
}

// GetState returns the current state. The returned value must be treated as
// read-only.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies the action and notifies subscribers. Listeners run on the
// dispatching goroutine, after the lock is released.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = s.reducer(s.state, a)
	listeners := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Subscribe registers fn to run after every dispatch. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
