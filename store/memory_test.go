package store

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || v != "1" {
		t.Fatalf("got %q ok=%v err=%v", v, ok, err)
	}

	if err := s.Remove(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatal("key survived Remove")
	}
	// Removing twice is fine.
	if err := s.Remove(ctx, "a"); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryStoreKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, k := range []string{"raceRatings:2023", "raceRatings:2024", "quickRatings:2023"} {
		if err := s.Set(ctx, k, "{}"); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys(ctx, "raceRatings:")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "raceRatings:2023" || keys[1] != "raceRatings:2024" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
