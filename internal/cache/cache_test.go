package cache

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func TestGetOrFetchWithinTTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := NewWithClock[[]int](clock.Now)

	calls := 0
	fetch := func() ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	first, err := c.GetOrFetch("k", time.Hour, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(59 * time.Minute)
	second, err := c.GetOrFetch("k", time.Hour, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected one fetch within TTL, got %d", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached value mismatch: %v != %v", first, second)
	}
}

func TestGetOrFetchExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := NewWithClock[string](clock.Now)

	calls := 0
	fetch := func() (string, error) {
		calls++
		if calls == 1 {
			return "old", nil
		}
		return "new", nil
	}

	if _, err := c.GetOrFetch("k", 3600*time.Second, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(3601 * time.Second)
	got, err := c.GetOrFetch("k", 3600*time.Second, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", calls)
	}
	if got != "new" {
		t.Fatalf("expected replaced value, got %q", got)
	}
}

func TestGetOrFetchErrorLeavesEntryUntouched(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := NewWithClock[string](clock.Now)

	if _, err := c.GetOrFetch("k", time.Hour, func() (string, error) { return "cached", nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(2 * time.Hour)
	boom := errors.New("upstream down")
	_, err := c.GetOrFetch("k", time.Hour, func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}

	value, ok := c.Peek("k")
	if !ok || value != "cached" {
		t.Fatalf("prior entry should survive a failed fetch, got %q (ok=%v)", value, ok)
	}
}

func TestStats(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := NewWithClock[int](clock.Now)

	fetch := func() (int, error) { return 7, nil }
	if _, err := c.GetOrFetch("k", time.Hour, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.GetOrFetch("k", time.Hour, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit / 1 miss, got %+v", stats)
	}
}
