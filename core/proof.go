package core

// ProofPoints are the three Groth16 proof components returned by the proof
// service. They are opaque to this codebase and are relayed verbatim inside
// the composite signature.
type ProofPoints struct {
	A []string   `json:"a"`
	B [][]string `json:"b"`
	C []string   `json:"c"`
}

// ClaimDetails carries the issuer claim in the encoded form the chain
// expects when verifying the proof.
type ClaimDetails struct {
	Value     string `json:"value"`
	IndexMod4 int    `json:"indexMod4"`
}

// ZkProof is the proof structure returned by the proof service. It is bound
// to exactly one (identity token, ephemeral key, max epoch, randomness, salt)
// tuple; reusing it with different ephemeral material is rejected on chain.
type ZkProof struct {
	ProofPoints      ProofPoints  `json:"proofPoints"`
	IssBase64Details ClaimDetails `json:"issBase64Details"`
	HeaderBase64     string       `json:"headerBase64"`

	// AddressSeed is optionally returned by the prover. When present it is
	// preferred over the locally recomputed seed at signing time.
	AddressSeed string `json:"addressSeed,omitempty"`
}
