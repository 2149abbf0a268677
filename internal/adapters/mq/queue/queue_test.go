package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/finmacro/internal/domain/model"
)

func job(symbol string) Job {
	return model.Job{ID: "job-" + symbol, RunID: "run", Company: model.Company{Symbol: symbol}}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job("AAPL")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.Company.Symbol != "AAPL" {
		t.Errorf("expected AAPL, got %v", got.Company.Symbol)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_BlocksWhenFull(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("A")) {
		t.Fatal("expected first enqueue to succeed")
	}

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if q.Enqueue(short, job("B")) {
		t.Error("expected enqueue to give up when the context expires")
	}

	done := make(chan bool)
	go func() { done <- q.Enqueue(ctx, job("C")) }()

	select {
	case <-done:
		t.Fatal("expected enqueue to block while full")
	case <-time.After(20 * time.Millisecond):
	}

	deq := q.Dequeue(ctx)
	if got := <-deq; got.Company.Symbol != "A" {
		t.Errorf("expected A, got %s", got.Company.Symbol)
	}
	if ok := <-done; !ok {
		t.Error("expected blocked enqueue to succeed once space freed")
	}
	if got := <-deq; got.Company.Symbol != "C" {
		t.Errorf("expected C, got %s", got.Company.Symbol)
	}
}

func TestInMemoryQueue_CloseDrains(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(8))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		q.Enqueue(ctx, job(fmt.Sprintf("T%d", i)))
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, job("late")) {
		t.Error("expected enqueue after close to fail")
	}

	var got []string
	for j := range q.Dequeue(ctx) {
		got = append(got, j.Company.Symbol)
	}
	if len(got) != 3 || got[0] != "T0" || got[2] != "T2" {
		t.Errorf("expected T0..T2 in order, got %v", got)
	}
}

func TestInMemoryQueue_CloseWakesProducers(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()
	q.Enqueue(ctx, job("A"))

	var wg sync.WaitGroup
	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- q.Enqueue(ctx, job("blocked"))
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Close()
	wg.Wait()
	close(results)

	for ok := range results {
		if ok {
			t.Error("expected blocked producers to fail on close")
		}
	}
}

func TestInMemoryQueue_AbandonedDequeueKeepsJobs(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx, cancel := context.WithCancel(context.Background())
	_ = q.Dequeue(ctx)
	cancel()

	q.Enqueue(context.Background(), job("A"))
	time.Sleep(20 * time.Millisecond)
	if l := q.Len(context.Background()); l != 1 {
		t.Fatalf("expected the job to stay queued, got length %d", l)
	}

	select {
	case got := <-q.Dequeue(context.Background()):
		if got.Company.Symbol != "A" {
			t.Errorf("expected A, got %s", got.Company.Symbol)
		}
	case <-time.After(time.Second):
		t.Error("expected a later consumer to receive the job")
	}
}

func TestInMemoryQueue_ConsumersShareJobs(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(8))
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		q.Enqueue(ctx, job(fmt.Sprintf("T%d", i)))
	}
	q.Close()

	var (
		mu   sync.Mutex
		seen = map[string]int{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range q.Dequeue(ctx) {
				mu.Lock()
				seen[j.Company.Symbol]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != 6 {
		t.Errorf("expected 6 distinct jobs, got %v", seen)
	}
	for sym, n := range seen {
		if n != 1 {
			t.Errorf("expected %s delivered once, got %d", sym, n)
		}
	}
}
