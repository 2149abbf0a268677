// Package dedupe tracks which tickers a batch has already accepted.
package dedupe

import (
	"container/list"
	"context"
	"strings"
	"sync"
)

// DefaultMaxSize bounds the set when no size is configured.
const DefaultMaxSize = 10000

// Deduper records seen keys so each is processed at most once per batch.
type Deduper interface {
	// SeenAndRecord reports whether key was already seen and records it if
	// not. The check and the record happen under one lock.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key, so a job that could not be enqueued can be
	// submitted again.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// set is a bounded key set. When full, the oldest key is evicted.
type set struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List
	seen    map[string]*list.Element
}

// New creates an in-memory Deduper. Keys are compared after trimming space
// and upper-casing, so "brk.b" and "BRK.B " are the same ticker.
func New(opts ...Option) Deduper {
	s := &set{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(s)
	}
	s.order = list.New()
	s.seen = make(map[string]*list.Element)
	return s
}

// Key normalises a ticker for comparison.
func Key(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func (s *set) SeenAndRecord(_ context.Context, key string) bool {
	k := Key(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[k]; ok {
		return true
	}
	if s.maxSize > 0 && s.order.Len() >= s.maxSize {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.seen, oldest.Value.(string))
	}
	s.seen[k] = s.order.PushBack(k)
	return false
}

func (s *set) Unrecord(_ context.Context, key string) {
	k := Key(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.seen[k]; ok {
		s.order.Remove(e)
		delete(s.seen, k)
	}
}

func (s *set) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(s.order.Len())
}
