package correlation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paycrux/switch-connector/internal/model"
)

func TestKey(t *testing.T) {
	if got := Key(model.IDTypeMSISDN, "27821234567"); got != "MSISDN/27821234567" {
		t.Fatalf("Key = %q", got)
	}
}

func TestMemoryStorePutTake(t *testing.T) {
	s := NewMemoryStore(30 * time.Second)
	ctx := context.Background()

	e := Entry{TransactionID: "tx-1", TenantID: "tn01", CreatedAt: time.Now()}
	if err := s.Put(ctx, "MSISDN/1", e); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Take(ctx, "MSISDN/1")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got.TransactionID != "tx-1" || got.TenantID != "tn01" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestMemoryStoreDuplicateVsDangling(t *testing.T) {
	s := NewMemoryStore(30 * time.Second)
	ctx := context.Background()

	if _, err := s.Take(ctx, "MSISDN/unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown key: expected ErrNotFound, got %v", err)
	}

	_ = s.Put(ctx, "MSISDN/1", Entry{TransactionID: "tx-1"})
	if _, err := s.Take(ctx, "MSISDN/1"); err != nil {
		t.Fatalf("first take: %v", err)
	}
	if _, err := s.Take(ctx, "MSISDN/1"); !errors.Is(err, ErrAlreadyConsumed) {
		t.Fatalf("second take: expected ErrAlreadyConsumed, got %v", err)
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	s := NewMemoryStore(30 * time.Second)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	_ = s.Put(ctx, "MSISDN/1", Entry{TransactionID: "tx-1"})

	// a late callback after expiry is dangling, not duplicate
	now = now.Add(31 * time.Second)
	if _, err := s.Take(ctx, "MSISDN/1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired entry: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreTombstoneExpiry(t *testing.T) {
	s := NewMemoryStore(30 * time.Second)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	_ = s.Put(ctx, "MSISDN/1", Entry{TransactionID: "tx-1"})
	if _, err := s.Take(ctx, "MSISDN/1"); err != nil {
		t.Fatalf("take: %v", err)
	}

	now = now.Add(31 * time.Second)
	if _, err := s.Take(ctx, "MSISDN/1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale tombstone: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreAtMostOneWinner(t *testing.T) {
	s := NewMemoryStore(30 * time.Second)
	ctx := context.Background()

	_ = s.Put(ctx, "MSISDN/1", Entry{TransactionID: "tx-1"})

	const racers = 32
	var wins atomic.Int32
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.Take(ctx, "MSISDN/1"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins.Load())
	}
}

func TestMemoryStorePutRestartsEntry(t *testing.T) {
	s := NewMemoryStore(30 * time.Second)
	ctx := context.Background()

	_ = s.Put(ctx, "MSISDN/1", Entry{TransactionID: "tx-1"})
	if _, err := s.Take(ctx, "MSISDN/1"); err != nil {
		t.Fatalf("take: %v", err)
	}

	// a fresh lookup for the same subscriber clears the tombstone
	_ = s.Put(ctx, "MSISDN/1", Entry{TransactionID: "tx-2"})
	got, err := s.Take(ctx, "MSISDN/1")
	if err != nil {
		t.Fatalf("take after re-put: %v", err)
	}
	if got.TransactionID != "tx-2" {
		t.Fatalf("expected tx-2, got %q", got.TransactionID)
	}
}
