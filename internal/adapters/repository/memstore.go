package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/internal/domain/valuation"
	"github.com/okian/finmacro/pkg/metrics"
)

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu   sync.RWMutex
	vals map[string]model.Valuation
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vals: make(map[string]model.Valuation)}
}

func key(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Put stores v.
func (s *MemoryStore) Put(_ context.Context, v model.Valuation) error { //nolint:gocritic // hugeParam: stored by value
	k := key(v.Ticker)
	if k == "" {
		return ErrInvalidTicker
	}

	s.mu.Lock()
	s.vals[k] = v
	n := len(s.vals)
	s.mu.Unlock()

	metrics.UpdateStoreRecords(n)
	return nil
}

// Get returns the valuation of ticker.
func (s *MemoryStore) Get(_ context.Context, ticker string) (model.Valuation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vals[key(ticker)]
	if !ok {
		return model.Valuation{}, fmt.Errorf("%s: %w", ticker, ErrNotFound)
	}
	return v, nil
}

// List returns every valuation ordered by ticker.
func (s *MemoryStore) List(_ context.Context) ([]model.Valuation, error) {
	s.mu.RLock()
	out := make([]model.Valuation, 0, len(s.vals))
	for _, v := range s.vals {
		out = append(out, v)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return key(out[i].Ticker) < key(out[j].Ticker) })
	return out, nil
}

// TopN ranks tickers by upside for method. Equal upsides share a rank and
// are ordered by ticker.
func (s *MemoryStore) TopN(ctx context.Context, method valuation.Method, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	pick, err := resultOf(method)
	if err != nil {
		return nil, err
	}

	vals, _ := s.List(ctx)
	entries := make([]Entry, 0, len(vals))
	for _, v := range vals {
		value, ok := pick(v).Get()
		if !ok || !(v.LastPrice > 0) || math.IsInf(v.LastPrice, 0) {
			continue
		}
		entries = append(entries, Entry{
			Ticker:    v.Ticker,
			Name:      v.Name,
			Value:     value,
			LastPrice: v.LastPrice,
			Upside:    value/v.LastPrice - 1,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Upside > entries[j].Upside })
	assignRanksWithTies(entries)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Count returns the number of stored valuations.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vals)
}

func resultOf(m valuation.Method) (func(model.Valuation) valuation.Result, error) {
	switch m {
	case valuation.MethodDiscountedFutureEarnings:
		return func(v model.Valuation) valuation.Result { return v.DFE }, nil
	case valuation.MethodDiscountedCashFlow:
		return func(v model.Valuation) valuation.Result { return v.DCF }, nil
	case valuation.MethodPriceToSales:
		return func(v model.Valuation) valuation.Result { return v.PS }, nil
	case valuation.MethodPriceToEarnings:
		return func(v model.Valuation) valuation.Result { return v.PE }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
	}
}

// assignRanksWithTies numbers sorted entries 1, 2, 2, 4, ...
func assignRanksWithTies(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Upside == entries[i-1].Upside {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
