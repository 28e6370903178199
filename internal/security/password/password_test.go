package password

import "testing"

// Small test params to keep Argon2id fast in CI.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	return cfg
}

func TestHashAndVerify_OK(t *testing.T) {
	cfg := testConfig()

	h, err := cfg.Hash("this is a strong password 123!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := cfg.Verify(h, "this is a strong password 123!")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	cfg := testConfig()

	h, err := cfg.Hash("this is a strong password 123!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := cfg.Verify(h, "wrong password")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestValidate_MinMax(t *testing.T) {
	cfg := testConfig()
	cfg.Policy.MinLength = 12
	cfg.Policy.MaxLength = 16

	if err := cfg.Validate("short"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := cfg.Validate("this password is definitely too long"); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if err := cfg.Validate("goodpassw0rd!"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	cfg := testConfig()

	for _, bad := range []string{
		"not-a-hash",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"",
	} {
		ok, err := cfg.Verify(bad, "whatever")
		if err != ErrInvalidHash {
			t.Fatalf("hash %q: expected ErrInvalidHash, got %v", bad, err)
		}
		if ok {
			t.Fatalf("hash %q: expected false", bad)
		}
	}
}

func TestVerify_RejectsOversizedParams(t *testing.T) {
	strong := DefaultConfig()
	h, err := strong.Hash("a perfectly fine password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	// A verifier configured with small limits must refuse the larger hash
	// instead of burning memory on it.
	weak := testConfig()
	weak.Params.MemoryKiB = 1024
	if _, err := weak.Verify(h, "a perfectly fine password"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestHash_Salted(t *testing.T) {
	cfg := testConfig()

	h1, err := cfg.Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := cfg.Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for distinct salts")
	}
}
