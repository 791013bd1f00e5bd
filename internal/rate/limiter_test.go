package rate

import (
	"fmt"
	"testing"
	"time"
)

func TestLimiterAllowsBurstThenDenies(t *testing.T) {
	l := New(time.Hour, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("ana@example.com") {
			t.Fatalf("attempt %d denied within burst", i)
		}
	}
	if l.Allow("ana@example.com") {
		t.Fatal("expected denial after burst exhausted")
	}
}

func TestLimiterTracksKeysIndependently(t *testing.T) {
	l := New(time.Hour, 1)

	if !l.Allow("a") {
		t.Fatal("first key denied")
	}
	if !l.Allow("b") {
		t.Fatal("second key denied despite separate budget")
	}
	if l.Allow("a") {
		t.Fatal("first key must be exhausted")
	}
}

func TestLimiterEvictsWhenFull(t *testing.T) {
	l := New(time.Hour, 1)

	for i := 0; i < maxKeys+10; i++ {
		l.Allow(fmt.Sprintf("key-%d", i))
	}

	l.mu.Lock()
	size := len(l.entries)
	l.mu.Unlock()

	if size > maxKeys {
		t.Fatalf("entries = %d, want at most %d", size, maxKeys)
	}
}

func TestLimiterMinimumBurst(t *testing.T) {
	l := New(time.Hour, 0)
	if !l.Allow("x") {
		t.Fatal("burst floor of 1 must allow the first attempt")
	}
}
