package private

import (
	"errors"
	"testing"
)

func TestHashIdentifier_DeterministicAcrossInstances(t *testing.T) {
	pepper := "0123456789abcdef0123456789abcdef"
	a := New(pepper)
	b := New(pepper)

	if a.HashIdentifier("user@example.com") != b.HashIdentifier("user@example.com") {
		t.Fatalf("same pepper must yield same hash across instances")
	}
	if a.HashIdentifier("user@example.com") == New("another-pepper-another-pepper!!!").HashIdentifier("user@example.com") {
		t.Fatalf("distinct peppers must yield distinct hashes")
	}
}

func TestHashIdentifier_NormalizesBeforeHashing(t *testing.T) {
	h := New("0123456789abcdef0123456789abcdef")

	variants := []string{
		"User@Example.COM",
		"  user@example.com  ",
		"user@example.com",
	}
	want := h.HashIdentifier("user@example.com")
	for _, v := range variants {
		if got := h.HashIdentifier(v); got != want {
			t.Fatalf("HashIdentifier(%q) = %q, want %q", v, got, want)
		}
	}

	if h.HashIdentifier("other@example.com") == want {
		t.Fatalf("distinct identifiers collided")
	}
}

func TestFromEnv_ProductionPolicy(t *testing.T) {
	t.Setenv(PepperEnvKey, "")
	if _, err := FromEnv(true); !errors.Is(err, ErrPepperMissing) {
		t.Fatalf("expected ErrPepperMissing, got %v", err)
	}

	t.Setenv(PepperEnvKey, "too-short")
	if _, err := FromEnv(true); !errors.Is(err, ErrPepperTooShort) {
		t.Fatalf("expected ErrPepperTooShort, got %v", err)
	}

	t.Setenv(PepperEnvKey, "")
	h, err := FromEnv(false)
	if err != nil {
		t.Fatalf("dev mode must fall back to a default pepper: %v", err)
	}
	if h.HashIdentifier("x") != h.HashIdentifier("x") {
		t.Fatalf("dev hasher not deterministic")
	}
}
