package arena

import (
	"fmt"
	"iter"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	// ErrTypeInvalidHandle is the error type returned when a handle is stale,
	// nil or out of range.
	ErrTypeInvalidHandle = "invalid_handle"
)

// Handle identifies a value stored in an Arena. A handle stays valid until the
// value is freed. Once freed, the slot generation moves forward so the old
// handle never matches again, even when the slot index is reused.
type Handle struct {
	index      uint32
	generation uint32
}

// Nil is the zero handle. It never identifies a live value.
var Nil Handle

func (h Handle) Index() uint32 {
	return h.index
}

func (h Handle) Generation() uint32 {
	return h.generation
}

func (h Handle) IsNil() bool {
	return h.generation == 0
}

func (h Handle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%dv%d", h.index, h.generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena is a slot storage with generation-checked handles and a free list of
// reusable slots. It is not safe for concurrent mutation.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

func New[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		capacity = 0
	}

	return &Arena[T]{
		slots: make([]slot[T], 0, capacity),
	}
}

// Allocate stores v and returns its handle. Freed slots are reused in
// priority, most recently freed first.
func (a *Arena[T]) Allocate(v T) Handle {
	a.live++

	if n := len(a.free); n != 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]

		s := &a.slots[index]
		s.value = v
		s.occupied = true
		return Handle{index: index, generation: s.generation}
	}

	index := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{
		value:      v,
		generation: 1,
		occupied:   true,
	})
	return Handle{index: index, generation: 1}
}

// Get returns a pointer to the value identified by h. The pointer must not be
// retained across a call to Allocate since the storage may grow.
func (a *Arena[T]) Get(h Handle) (*T, error) {
	s, err := a.slot(h)
	if err != nil {
		return nil, err
	}
	return &s.value, nil
}

func (a *Arena[T]) Contains(h Handle) bool {
	_, err := a.slot(h)
	return err == nil
}

// Free releases the slot of h and returns the value it held.
func (a *Arena[T]) Free(h Handle) (T, error) {
	s, err := a.slot(h)
	if err != nil {
		var zero T
		return zero, err
	}

	v := s.value
	var zero T
	s.value = zero
	s.occupied = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}

	a.free = append(a.free, h.index)
	a.live--
	return v, nil
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.live
}

// All iterates over live values in slot order.
func (a *Arena[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(Handle{index: uint32(i), generation: s.generation}, &s.value) {
				return
			}
		}
	}
}

func (a *Arena[T]) slot(h Handle) (*slot[T], error) {
	if h.IsNil() || int(h.index) >= len(a.slots) {
		return nil, errors.New("invalid handle").
			WithType(ErrTypeInvalidHandle).
			WithTag("handle", h.String())
	}

	s := &a.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil, errors.New("stale handle").
			WithType(ErrTypeInvalidHandle).
			WithTag("handle", h.String()).
			WithTag("generation", s.generation)
	}
	return s, nil
}
