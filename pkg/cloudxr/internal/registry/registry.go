package registry

import (
	"math"
	"sync"
)

// Handle is an opaque token for a live value in a Table.
type Handle uint64

// None is the sentinel "no handle" value.
const None Handle = 0

func makeHandle(gen uint32, idx int) Handle {
	return Handle(uint64(gen)<<32 | uint64(idx+1))
}

func (h Handle) split() (gen uint32, idx int, ok bool) {
	low := uint32(h)
	if low == 0 {
		return 0, 0, false
	}
	return uint32(h >> 32), int(low - 1), true
}

type slot[T any] struct {
	gen   uint32
	live  bool
	value T
}

// Table maps handles to values. Insert and Remove take the lock exclusively;
// Resolve may run concurrently from any number of goroutines.
type Table[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []int
	live  int
}

// New returns an empty table.
func New[T any]() *Table[T] {
	return &Table[T]{
		slots: make([]slot[T], 0, 8),
		free:  make([]int, 0, 4),
	}
}

// Insert stores v and returns its handle. It returns None only if the
// table cannot address another slot.
func (t *Table[T]) Insert(v T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var idx int
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		if len(t.slots) >= math.MaxUint32 {
			return None
		}
		t.slots = append(t.slots, slot[T]{gen: 1})
		idx = len(t.slots) - 1
	}

	s := &t.slots[idx]
	s.live = true
	s.value = v
	t.live++
	return makeHandle(s.gen, idx)
}

// Resolve returns the value for a live handle.
func (t *Table[T]) Resolve(h Handle) (T, bool) {
	var zero T
	gen, idx, ok := h.split()
	if !ok {
		return zero, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if idx >= len(t.slots) {
		return zero, false
	}
	s := t.slots[idx]
	if !s.live || s.gen != gen {
		return zero, false
	}
	return s.value, true
}

// Remove invalidates h and returns the value it referred to. Only the first
// Remove of a handle succeeds.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	var zero T
	gen, idx, ok := h.split()
	if !ok {
		return zero, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if idx >= len(t.slots) {
		return zero, false
	}
	s := &t.slots[idx]
	if !s.live || s.gen != gen {
		return zero, false
	}

	v := s.value
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	t.free = append(t.free, idx)
	t.live--
	return v, true
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Handles returns a snapshot of the live handles.
func (t *Table[T]) Handles() []Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Handle, 0, t.live)
	for i, s := range t.slots {
		if s.live {
			out = append(out, makeHandle(s.gen, i))
		}
	}
	return out
}
