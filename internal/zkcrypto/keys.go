// Package zkcrypto implements the deterministic crypto primitives of the
// zklogin scheme: ephemeral key generation, nonce derivation, address
// derivation and composite signature assembly.
package zkcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/openquest/zklogin/core"
)

// randomnessBytes is the size of the blinding value paired with each
// ephemeral keypair. 128 bits, rendered as a decimal big-integer string.
const randomnessBytes = 16

// GenerateEphemeralKeyPair returns a fresh ed25519 keypair together with the
// blinding randomness for this login attempt. Both come from crypto/rand.
// Randomness must never be reused across login attempts.
func GenerateEphemeralKeyPair() (*core.EphemeralKeyPair, string, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate ephemeral keypair: %w", err)
	}

	randomness, err := GenerateRandomness()
	if err != nil {
		return nil, "", err
	}

	return &core.EphemeralKeyPair{PrivateKey: priv, PublicKey: pub}, randomness, nil
}

// GenerateRandomness returns a fresh 128-bit blinding value as a decimal
// string, the form the proof service expects for jwtRandomness.
func GenerateRandomness() (string, error) {
	buf := make([]byte, randomnessBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate randomness: %w", err)
	}
	return new(big.Int).SetBytes(buf).String(), nil
}
