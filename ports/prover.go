package ports

import (
	"context"

	"github.com/openquest/zklogin/core"
)

// ProofRequest is the fixed request shape of the external proof service.
type ProofRequest struct {
	JWT                        string `json:"jwt"`
	ExtendedEphemeralPublicKey string `json:"extendedEphemeralPublicKey"`
	MaxEpoch                   uint64 `json:"maxEpoch"`
	JWTRandomness              string `json:"jwtRandomness"`
	Salt                       string `json:"salt"`
	KeyClaimName               string `json:"keyClaimName"`
}

// Prover is the external proof-generation service. It is the one slow call
// in the login pipeline and the one expected to fail transiently; failures
// are retryable with the same pending attempt parameters.
type Prover interface {
	RequestProof(ctx context.Context, req ProofRequest) (*core.ZkProof, error)
}
