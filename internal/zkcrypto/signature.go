package zkcrypto

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/openquest/zklogin/core"
)

// CompositeInputs are the proof-derived parts of a composite signature.
type CompositeInputs struct {
	ProofPoints      core.ProofPoints  `json:"proofPoints"`
	IssBase64Details core.ClaimDetails `json:"issBase64Details"`
	HeaderBase64     string            `json:"headerBase64"`
	AddressSeed      string            `json:"addressSeed"`
}

// CompositeSignature combines the zk proof, the key-expiry epoch and the
// ephemeral signature over the transaction bytes into the single structure
// the chain accepts as transaction authorization.
type CompositeSignature struct {
	Inputs        CompositeInputs `json:"inputs"`
	MaxEpoch      uint64          `json:"maxEpoch"`
	UserSignature string          `json:"userSignature"`
}

// BuildCompositeSignature signs txBytes with the ephemeral key and wraps the
// signature together with the proof and addressSeed into the serialized
// composite envelope submitted alongside the transaction.
func BuildCompositeSignature(kp *core.EphemeralKeyPair, proof *core.ZkProof, maxEpoch uint64, addressSeed string, txBytes []byte) (string, error) {
	if proof == nil {
		return "", core.ErrNoProof
	}
	if addressSeed == "" {
		return "", fmt.Errorf("composite signature requires an address seed")
	}

	sig := kp.Sign(txBytes)

	// flag || signature || public key, the serialized simple-signature form
	user := make([]byte, 0, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	user = append(user, core.Ed25519SchemeFlag)
	user = append(user, sig...)
	user = append(user, kp.PublicKey...)

	composite := CompositeSignature{
		Inputs: CompositeInputs{
			ProofPoints:      proof.ProofPoints,
			IssBase64Details: proof.IssBase64Details,
			HeaderBase64:     proof.HeaderBase64,
			AddressSeed:      addressSeed,
		},
		MaxEpoch:      maxEpoch,
		UserSignature: base64.StdEncoding.EncodeToString(user),
	}

	payload, err := json.Marshal(composite)
	if err != nil {
		return "", fmt.Errorf("failed to serialize composite signature: %w", err)
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}
