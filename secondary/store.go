// Package secondary holds caller-side stores keyed by tree handles.
//
// Trees carry no payload. Callers attach data to nodes with a Store and keep
// it in sync by purging the handles a tree reports as removed, since freed
// handles never identify a node again.
package secondary

import (
	"github.com/aukilabs/spatialtrees/arena"
	"github.com/aukilabs/spatialtrees/ntree"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is a payload store keyed by node identity.
type Store[K comparable, V any] interface {
	Get(k K) (V, bool)
	Set(k K, v V)
	// Delete removes the payload of k and reports whether there was one.
	Delete(k K) bool
	Len() int
}

// MapStore is an unbounded Store backed by a map.
type MapStore[K comparable, V any] struct {
	values map[K]V
}

func NewMapStore[K comparable, V any]() *MapStore[K, V] {
	return &MapStore[K, V]{
		values: make(map[K]V),
	}
}

func (s *MapStore[K, V]) Get(k K) (V, bool) {
	v, ok := s.values[k]
	return v, ok
}

func (s *MapStore[K, V]) Set(k K, v V) {
	s.values[k] = v
}

func (s *MapStore[K, V]) Delete(k K) bool {
	_, ok := s.values[k]
	delete(s.values, k)
	return ok
}

func (s *MapStore[K, V]) Len() int {
	return len(s.values)
}

// LRUStore is a bounded Store that evicts the least recently used payloads.
// It is safe for concurrent use.
type LRUStore[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

func NewLRUStore[K comparable, V any](size int) (*LRUStore[K, V], error) {
	cache, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	return &LRUStore[K, V]{cache: cache}, nil
}

func (s *LRUStore[K, V]) Get(k K) (V, bool) {
	return s.cache.Get(k)
}

func (s *LRUStore[K, V]) Set(k K, v V) {
	s.cache.Add(k, v)
}

func (s *LRUStore[K, V]) Delete(k K) bool {
	return s.cache.Remove(k)
}

func (s *LRUStore[K, V]) Len() int {
	return s.cache.Len()
}

// Purge deletes the payloads of removed nodes and returns how many were
// stored.
func Purge[K comparable, V any](s Store[K, V], removed []K) int {
	purged := 0
	for _, k := range removed {
		if s.Delete(k) {
			purged++
		}
	}
	return purged
}

// ApplyEvents purges the nodes removed by a tree refine.
func ApplyEvents[V any](s Store[arena.Handle, V], events []ntree.Event) int {
	purged := 0
	for _, e := range events {
		purged += Purge(s, e.Removed)
	}
	return purged
}
