package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU(2, nil)
	ctx := context.Background()
	_ = c.Put(ctx, domain.Profile{Name: "a", Score: 1})
	_ = c.Put(ctx, domain.Profile{Name: "b", Score: 2})

	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatalf("get a: %v", err)
	}
	_ = c.Put(ctx, domain.Profile{Name: "c", Score: 3})

	if _, err := c.Get(ctx, "b"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected b evicted, got %v", err)
	}
	for _, n := range []string{"a", "c"} {
		if _, err := c.Get(ctx, n); err != nil {
			t.Errorf("expected %s present, got %v", n, err)
		}
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestLRU_UpdateInPlace(t *testing.T) {
	c := NewLRU(2, nil)
	ctx := context.Background()
	_ = c.Put(ctx, domain.Profile{Name: "Ritika", Score: 1})
	_ = c.Put(ctx, domain.Profile{Name: "ritika", Score: 9})

	got, err := c.Get(ctx, "RITIKA")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 9 || c.Len() != 1 {
		t.Errorf("expected single updated entry, got %+v len=%d", got, c.Len())
	}
}

func TestLRU_DefaultSize(t *testing.T) {
	c := NewLRU(0, nil)
	if c.maxSize != DefaultMaxSize {
		t.Errorf("maxSize = %d, want %d", c.maxSize, DefaultMaxSize)
	}
}

func TestLRU_Metrics(t *testing.T) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_profile_cache_total"}, []string{"result"})
	c := NewLRU(1, total)
	ctx := context.Background()

	_, _ = c.Get(ctx, "a")
	_ = c.Put(ctx, domain.Profile{Name: "a"})
	_, _ = c.Get(ctx, "a")
	_ = c.Put(ctx, domain.Profile{Name: "b"})

	for label, want := range map[string]float64{"miss": 1, "hit": 1, "evict": 1} {
		if got := testutil.ToFloat64(total.WithLabelValues(label)); got != want {
			t.Errorf("%s = %v, want %v", label, got, want)
		}
	}
}

func TestLRU_DeleteListPing(t *testing.T) {
	c := NewLRU(10, nil)
	ctx := context.Background()
	_ = c.Put(ctx, domain.Profile{Name: "b"})
	_ = c.Put(ctx, domain.Profile{Name: "a"})
	_ = c.Delete(ctx, "b")
	_ = c.Delete(ctx, "absent")

	names, _ := c.List(ctx)
	if len(names) != 1 || names[0] != "a" {
		t.Errorf("unexpected names %v", names)
	}
	if err := c.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU(16, nil)
	ctx := context.Background()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				name := fmt.Sprintf("user-%d", (w*7+i)%32)
				_ = c.Put(ctx, domain.Profile{Name: name, Score: i})
				_, _ = c.Get(ctx, name)
			}
		}(w)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("len %d exceeds max size", c.Len())
	}
}
