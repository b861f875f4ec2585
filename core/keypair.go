package core

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

// Ed25519SchemeFlag is the signature-scheme flag byte prepended to the
// ephemeral public key when it is sent to the prover and when it is embedded
// in a composite signature.
const Ed25519SchemeFlag byte = 0x00

// EphemeralKeyPair is a short-lived ed25519 signing keypair valid for a
// single login session. It never leaves the process except through its
// public key and the signatures it produces.
type EphemeralKeyPair struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
}

// SerializedKeyPair is the storable form of an EphemeralKeyPair.
type SerializedKeyPair struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
}

// Serialize encodes the keypair for storage. The private key is stored as
// its 32-byte seed, the public key as-is, both base64.
func (kp *EphemeralKeyPair) Serialize() SerializedKeyPair {
	return SerializedKeyPair{
		PrivateKey: base64.StdEncoding.EncodeToString(kp.PrivateKey.Seed()),
		PublicKey:  base64.StdEncoding.EncodeToString(kp.PublicKey),
	}
}

// Deserialize is the inverse of Serialize. Corrupt input yields an error
// wrapping ErrCorruptKeyPair rather than an unusable key.
func (s SerializedKeyPair) Deserialize() (*EphemeralKeyPair, error) {
	seed, err := base64.StdEncoding.DecodeString(s.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: bad private key base64: %v", ErrCorruptKeyPair, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: private key seed is %d bytes, want %d", ErrCorruptKeyPair, len(seed), ed25519.SeedSize)
	}
	pub, err := base64.StdEncoding.DecodeString(s.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: bad public key base64: %v", ErrCorruptKeyPair, err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key is %d bytes, want %d", ErrCorruptKeyPair, len(pub), ed25519.PublicKeySize)
	}

	priv := ed25519.NewKeyFromSeed(seed)
	derived := priv.Public().(ed25519.PublicKey)
	if !derived.Equal(ed25519.PublicKey(pub)) {
		return nil, fmt.Errorf("%w: public key does not match private key", ErrCorruptKeyPair)
	}

	return &EphemeralKeyPair{PrivateKey: priv, PublicKey: pub}, nil
}

// ExtendedPublicKey returns the scheme-flag-prefixed public key in base64,
// the form the prover and the composite signature expect.
func (kp *EphemeralKeyPair) ExtendedPublicKey() string {
	extended := make([]byte, 0, 1+ed25519.PublicKeySize)
	extended = append(extended, Ed25519SchemeFlag)
	extended = append(extended, kp.PublicKey...)
	return base64.StdEncoding.EncodeToString(extended)
}

// Sign signs msg with the ephemeral private key.
func (kp *EphemeralKeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(kp.PrivateKey, msg)
}
