// Package stream provides the replay-latest value streams the repositories
// publish their snapshots on.
package stream

import "sync"

// Source is an ordered, replay-latest value stream. Subscribe delivers the
// most recently published value immediately (when one exists), then every
// subsequent Publish in order, on the publishing goroutine.
type Source[T any] struct {
	mu     sync.Mutex
	latest T
	has    bool
	subs   map[int]func(T)
	nextID int
}

func NewSource[T any]() *Source[T] {
	return &Source[T]{subs: make(map[int]func(T))}
}

// Publish records v as the latest value and delivers it to every live
// subscriber.
func (s *Source[T]) Publish(v T) {
	s.mu.Lock()
	s.latest = v
	s.has = true
	handlers := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		handlers = append(handlers, fn)
	}
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(v)
	}
}

// Latest returns the most recently published value, if any.
func (s *Source[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.has
}

// Subscribe registers fn and replays the latest value to it before returning.
// The returned Subscription must be cancelled to release the handler.
func (s *Source[T]) Subscribe(fn func(T)) *Subscription {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	latest, has := s.latest, s.has
	s.mu.Unlock()

	if has {
		fn(latest)
	}
	return &Subscription{cancel: func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel detaches the handler. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}
