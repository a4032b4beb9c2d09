// Package signature verifies the digital signatures carried by signed
// payloads against the issuer's published Ed25519 key.
package signature

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Ed25519Verifier checks payload signatures against a fixed public key.
type Ed25519Verifier struct {
	publicKey ed25519.PublicKey
}

// NewEd25519Verifier builds a verifier from a hex-encoded 32-byte public key.
func NewEd25519Verifier(publicKeyHex string) (*Ed25519Verifier, error) {
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &Ed25519Verifier{publicKey: ed25519.PublicKey(raw)}, nil
}

// Verify reports whether signatureHex is a valid signature over payload. A
// malformed signature encoding is a negative answer, not an outage.
func (v *Ed25519Verifier) Verify(payload, signatureHex string) (bool, error) {
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false, nil
	}
	if len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(v.publicKey, []byte(payload), sig), nil
}
