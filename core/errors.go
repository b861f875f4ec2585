package core

import "errors"

var (
	// ErrMissingConfig is returned when required configuration is absent
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrNoToken is returned when the callback fragment carries no identity token
	ErrNoToken = errors.New("no identity token found in callback")

	// ErrMissingClaim is returned when the identity token lacks a required claim
	ErrMissingClaim = errors.New("identity token is missing a required claim")

	// ErrTokenExpired is returned when the identity token has expired
	ErrTokenExpired = errors.New("identity token has expired")

	// ErrNonceMismatch is returned when the token nonce does not match the one
	// issued for this login attempt (possible replay)
	ErrNonceMismatch = errors.New("nonce mismatch: possible token replay")

	// ErrNoLoginInFlight is returned when a callback arrives without a pending
	// login attempt
	ErrNoLoginInFlight = errors.New("no login attempt in flight")

	// ErrLoginInProgress is returned when a callback is handled while another
	// invocation for the same attempt is still running
	ErrLoginInProgress = errors.New("login callback already in progress")

	// ErrCorruptKeyPair is returned when a serialized keypair cannot be decoded
	ErrCorruptKeyPair = errors.New("corrupt ephemeral keypair encoding")

	// ErrNotAuthenticated is returned when an operation requires an
	// authenticated session and none exists
	ErrNotAuthenticated = errors.New("no authenticated session")

	// ErrNoProof is returned when the session carries no zk proof
	ErrNoProof = errors.New("session has no zk proof")

	// ErrEpochExpired is returned when the ephemeral key validity window has
	// closed and the session can no longer sign
	ErrEpochExpired = errors.New("ephemeral key expired: max epoch reached")

	// ErrProofRejected is returned when the chain rejects the zk proof;
	// the user must re-authenticate
	ErrProofRejected = errors.New("zk proof rejected by chain: re-authentication required")

	// ErrSignatureMismatch is returned when the chain reports a signature that
	// does not match the session; the user must re-authenticate
	ErrSignatureMismatch = errors.New("signature mismatch: re-authentication required")

	// ErrStoreOperationFailed is returned when a store operation fails
	ErrStoreOperationFailed = errors.New("store operation failed")
)
