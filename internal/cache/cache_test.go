// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package cache

import (
	"bytes"
	"testing"
	"time"

	"github.com/tomtom215/cinegraph/internal/recommend"
)

// Ensure Cache satisfies the engine's cache dependency
var _ recommend.ResultCache = (*Cache)(nil)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := New("test", ttl)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return c
}

// TestCache_RoundTrip verifies set-then-get returns the stored value.
func TestCache_RoundTrip(t *testing.T) {
	c := newTestCache(t, time.Minute)

	want := []byte(`[{"rank":1,"movieId":1,"title":"The Matrix (1999)","rating":4.19}]`)
	if err := c.Set("rec:lexical:10:matrix", want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get("rec:lexical:10:matrix")
	if !ok {
		t.Fatal("Get reported miss for stored key")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %q, want %q", got, want)
	}
}

// TestCache_MissingKey verifies unknown keys report a miss.
func TestCache_MissingKey(t *testing.T) {
	c := newTestCache(t, time.Minute)

	if _, ok := c.Get("rec:lexical:10:unknown"); ok {
		t.Error("Get reported hit for missing key")
	}
}

// TestCache_Overwrite verifies the latest value wins.
func TestCache_Overwrite(t *testing.T) {
	c := newTestCache(t, time.Minute)

	if err := c.Set("key", []byte("old")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set("key", []byte("new")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get("key")
	if !ok || string(got) != "new" {
		t.Errorf("Get = (%q, %v), want (new, true)", got, ok)
	}
}

// TestCache_TTLExpiry verifies entries expire after the TTL. Badger expiry
// has one-second granularity, so the TTL must be comfortably above it.
func TestCache_TTLExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping expiry wait in short mode")
	}
	c := newTestCache(t, 2*time.Second)

	if err := c.Set("key", []byte("value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := c.Get("key"); !ok {
		t.Fatal("entry missing immediately after Set")
	}

	time.Sleep(3500 * time.Millisecond)
	if _, ok := c.Get("key"); ok {
		t.Error("entry still present after TTL elapsed")
	}
}

// TestCache_SubSecondTTLClamped verifies sub-second TTLs are raised to
// Badger's minimum expiry granularity so entries do not expire on write.
func TestCache_SubSecondTTLClamped(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)

	if c.ttl != time.Second {
		t.Errorf("ttl = %v, want clamped to 1s", c.ttl)
	}

	if err := c.Set("key", []byte("value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := c.Get("key"); !ok {
		t.Error("entry missing immediately after Set with sub-second TTL")
	}
}

// TestCache_ZeroTTLNeverExpires verifies non-positive TTL disables
// expiry.
func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := newTestCache(t, 0)

	if err := c.Set("key", []byte("value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("key"); !ok {
		t.Error("entry expired with zero TTL")
	}
}

// TestCache_Delete verifies explicit removal, including of missing keys.
func TestCache_Delete(t *testing.T) {
	c := newTestCache(t, time.Minute)

	if err := c.Set("key", []byte("value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Delete("key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := c.Get("key"); ok {
		t.Error("entry still present after Delete")
	}

	if err := c.Delete("never-existed"); err != nil {
		t.Errorf("Delete of missing key = %v, want nil", err)
	}
}

// TestCache_ConcurrentAccess verifies concurrent readers and writers do
// not race.
func TestCache_ConcurrentAccess(t *testing.T) {
	c := newTestCache(t, time.Minute)

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				if err := c.Set("shared", []byte("value")); err != nil {
					t.Errorf("Set failed: %v", err)
					return
				}
				c.Get("shared")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
