package state

import "sync"

// subscribers is an ordered listener list shared by the holders.
type subscribers[T any] struct {
	mu     sync.Mutex
	nextID int
	list   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func (s *subscribers[T]) add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.list = append(s.list, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.list {
				if sub.id == id {
					s.list = append(s.list[:i:i], s.list[i+1:]...)
					return
				}
			}
		})
	}
}

// emit calls every listener in registration order, outside the list lock.
func (s *subscribers[T]) emit(v T) {
	s.mu.Lock()
	snap := make([]subscriber[T], len(s.list))
	copy(snap, s.list)
	s.mu.Unlock()

	for _, sub := range snap {
		sub.fn(v)
	}
}
