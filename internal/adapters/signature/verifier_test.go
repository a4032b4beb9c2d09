package signature

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"
)

func TestEd25519Verifier(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	v, err := NewEd25519Verifier(hex.EncodeToString(pub))
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	payload := "000201010211" // any signable prefix
	sigHex := hex.EncodeToString(ed25519.Sign(priv, []byte(payload)))

	t.Run("valid signature", func(t *testing.T) {
		ok, err := v.Verify(payload, sigHex)
		if err != nil || !ok {
			t.Errorf("expected valid, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		ok, err := v.Verify(payload+"x", sigHex)
		if err != nil || ok {
			t.Errorf("expected invalid, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("malformed signature is negative not outage", func(t *testing.T) {
		ok, err := v.Verify(payload, "zz-not-hex")
		if err != nil || ok {
			t.Errorf("expected (false, nil), got ok=%v err=%v", ok, err)
		}
		ok, err = v.Verify(payload, "abcd")
		if err != nil || ok {
			t.Errorf("expected (false, nil) for short signature, got ok=%v err=%v", ok, err)
		}
	})
}

func TestNewEd25519VerifierRejectsBadKeys(t *testing.T) {
	if _, err := NewEd25519Verifier("not-hex"); err == nil {
		t.Error("expected an error for non-hex key material")
	}
	if _, err := NewEd25519Verifier("abcd"); err == nil {
		t.Error("expected an error for a short key")
	}
}
