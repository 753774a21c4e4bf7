package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/refarm-eos/refarm-backend/pkg/config"
	"github.com/refarm-eos/refarm-backend/pkg/security"
)

func testArgonConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery", testArgonConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := security.VerifyPassword("correct horse battery", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = security.VerifyPassword("incorrect horse", hash)
	if err != nil {
		t.Fatalf("VerifyPassword wrong password: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	cfg := testArgonConfig()
	first, err := security.HashPassword("sameinput", cfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := security.HashPassword("sameinput", cfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestEmptyPasswordRejected(t *testing.T) {
	if _, err := security.HashPassword("", testArgonConfig()); err == nil {
		t.Fatal("empty password should not hash")
	}
}

func TestMalformedHashRejected(t *testing.T) {
	for _, encoded := range []string{"", "not-a-hash", "$bcrypt$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA"} {
		if _, err := security.VerifyPassword("x", encoded); !errors.Is(err, security.ErrInvalidHash) {
			t.Fatalf("VerifyPassword(%q) error = %v, want ErrInvalidHash", encoded, err)
		}
	}
}
