package password

import (
	"strings"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	// Keep tests fast; bounds still hold.
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	return cfg
}

func TestArgon2id_HashAndVerify(t *testing.T) {
	h := Select(testConfig())

	enc, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(enc, "$argon2id$") {
		t.Fatalf("unexpected encoding: %q", enc)
	}

	ok, err := h.Verify("correct horse battery staple", enc)
	if err != nil || !ok {
		t.Fatalf("Verify(match) = %v, %v", ok, err)
	}

	ok, err = h.Verify("wrong password", enc)
	if err != nil {
		t.Fatalf("Verify(mismatch): %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestArgon2id_SaltedHashesDiffer(t *testing.T) {
	h := Select(testConfig())

	a, err := h.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatalf("expected salted hashes to differ")
	}
	for _, enc := range []string{a, b} {
		ok, err := h.Verify("same password", enc)
		if err != nil || !ok {
			t.Fatalf("Verify: %v, %v", ok, err)
		}
	}
}

func TestArgon2id_PepperMarker(t *testing.T) {
	cfg := testConfig()
	cfg.Pepper = "0123456789abcdef0123456789abcdef"
	h := Select(cfg)

	enc, err := h.Hash("hunter2hunter2")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(enc, "$peppered$argon2id$") {
		t.Fatalf("missing pepper marker: %q", enc)
	}

	ok, err := h.Verify("hunter2hunter2", enc)
	if err != nil || !ok {
		t.Fatalf("Verify(peppered) = %v, %v", ok, err)
	}

	// A hasher without the pepper cannot verify peppered records.
	bare := Select(testConfig())
	if _, err := bare.Verify("hunter2hunter2", enc); err != ErrPepperMissing {
		t.Fatalf("expected ErrPepperMissing, got %v", err)
	}
}

func TestBcryptFallback_VerifiesBothFamilies(t *testing.T) {
	cfg := testConfig()
	cfg.PreferBcrypt = true
	fb := Select(cfg)

	enc, err := fb.Hash("fallback password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(enc, "$2") {
		t.Fatalf("expected bcrypt encoding, got %q", enc)
	}

	ok, err := fb.Verify("fallback password", enc)
	if err != nil || !ok {
		t.Fatalf("Verify(bcrypt) = %v, %v", ok, err)
	}
	ok, err = fb.Verify("nope", enc)
	if err != nil || ok {
		t.Fatalf("Verify(bcrypt mismatch) = %v, %v", ok, err)
	}

	// Migration path: argon2id records stay verifiable under the fallback
	// strategy, and bcrypt records under the primary one.
	primary := Select(testConfig())
	argonEnc, err := primary.Hash("migrated password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	ok, err = fb.Verify("migrated password", argonEnc)
	if err != nil || !ok {
		t.Fatalf("fallback could not verify argon2id record: %v, %v", ok, err)
	}
	ok, err = primary.Verify("fallback password", enc)
	if err != nil || !ok {
		t.Fatalf("primary could not verify bcrypt record: %v, %v", ok, err)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	h := Select(testConfig())
	for _, enc := range []string{"", "not-a-hash", "$argon2id$v=19$garbage", "$argon2id$v=18$m=8192,t=1,p=1$AAAA$BBBB"} {
		if _, err := h.Verify("x", enc); err == nil {
			t.Fatalf("expected error for %q", enc)
		}
	}
}

func TestVerify_RejectsPathologicalParams(t *testing.T) {
	small := testConfig()
	h := Select(small)

	big := DefaultConfig()
	big.Params.MemoryKiB = small.Params.MemoryKiB * 64
	enc, err := Select(big).Hash("x")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if _, err := h.Verify("x", enc); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash for oversized params, got %v", err)
	}
}

func TestConfigValidate_ProductionPepperPolicy(t *testing.T) {
	t.Setenv("CHITTER_PASSWORD_PEPPER", "short")
	if _, err := FromEnv(true); err == nil {
		t.Fatalf("expected error for short pepper in production")
	}

	t.Setenv("CHITTER_PASSWORD_PEPPER", "")
	t.Setenv("CHITTER_PASSWORD_REQUIRE_PEPPER", "true")
	if _, err := FromEnv(true); err == nil {
		t.Fatalf("expected error for missing required pepper in production")
	}

	// Dev mode tolerates both.
	if _, err := FromEnv(false); err != nil {
		t.Fatalf("dev mode should tolerate missing pepper: %v", err)
	}
}
