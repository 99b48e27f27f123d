package token

import "testing"

func TestNewSecret_UniqueAndDelimiterFree(t *testing.T) {
	a, err := NewSecret(32)
	if err != nil {
		t.Fatalf("NewSecret: %v", err)
	}
	b, err := NewSecret(32)
	if err != nil {
		t.Fatalf("NewSecret: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct secrets")
	}
	for _, s := range []string{a, b} {
		for _, r := range s {
			if r == '.' {
				t.Fatalf("secret contains delimiter: %q", s)
			}
		}
	}
}

func TestHashSHA256Hex_Stable(t *testing.T) {
	if HashSHA256Hex("abc") != HashSHA256Hex("abc") {
		t.Fatalf("hash not deterministic")
	}
	if len(HashSHA256Hex("abc")) != 64 {
		t.Fatalf("expected 64 hex chars")
	}
	if HashSHA256Hex("abc") == HashSHA256Hex("abd") {
		t.Fatalf("distinct inputs collided")
	}
}

func TestEqual(t *testing.T) {
	if !Equal("deadbeef", "deadbeef") {
		t.Fatalf("expected equal")
	}
	if Equal("deadbeef", "deadbeee") {
		t.Fatalf("expected not equal")
	}
	if Equal("", "") {
		t.Fatalf("empty strings must not compare equal")
	}
	if Equal("abc", "abcd") {
		t.Fatalf("length mismatch must not compare equal")
	}
}
