package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/openquest/zklogin/adapters/tokenizer"
	"github.com/openquest/zklogin/core"
	"github.com/openquest/zklogin/internal/zkcrypto"
	"github.com/openquest/zklogin/ports"
)

// TxService signs and submits transactions on behalf of the active session,
// composing the ephemeral signature with the stored zk proof.
type TxService struct {
	auth   *AuthService
	chain  ports.ChainClient
	logger zerolog.Logger
}

// NewTxService creates a transaction signer bound to the auth service's
// session.
func NewTxService(auth *AuthService, chain ports.ChainClient, logger zerolog.Logger) *TxService {
	return &TxService{
		auth:   auth,
		chain:  chain,
		logger: logger.With().Str("component", "tx").Logger(),
	}
}

// Execute signs tx with the session's ephemeral key, wraps the signature
// with the zk proof into the composite form and submits it.
//
// Preconditions are checked in order, each with its own error: an
// authenticated session exists, the session holds a proof, and the current
// epoch is still below the session's max epoch. The epoch check needs a
// network round trip; if that round trip fails for any reason other than the
// epoch itself, execution proceeds and the submission is left to fail
// naturally rather than blocking on a transient read.
//
// A failed submission is never retried here: transactions are not
// idempotent, and a blind resubmit could double-land.
func (t *TxService) Execute(ctx context.Context, tx *core.Transaction) (*core.ExecutionResult, error) {
	session := t.auth.CurrentSession()
	if session == nil || !session.IsAuthenticated {
		return nil, core.ErrNotAuthenticated
	}
	if session.Proof == nil {
		return nil, core.ErrNoProof
	}

	epoch, err := t.chain.CurrentEpoch(ctx)
	switch {
	case err != nil:
		t.logger.Warn().Err(err).Msg("epoch check failed, proceeding with submission")
	case epoch >= session.MaxEpoch:
		return nil, fmt.Errorf("%w: current epoch %d, key valid below %d",
			core.ErrEpochExpired, epoch, session.MaxEpoch)
	}

	keyPair, err := session.KeyPair.Deserialize()
	if err != nil {
		return nil, err
	}

	tx.Sender = session.Address
	txBytes, err := t.chain.BuildTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	seed, err := t.addressSeed(session)
	if err != nil {
		return nil, err
	}

	signature, err := zkcrypto.BuildCompositeSignature(keyPair, session.Proof, session.MaxEpoch, seed, txBytes)
	if err != nil {
		return nil, err
	}

	result, err := t.chain.ExecuteTransaction(ctx, txBytes, signature)
	if err != nil {
		return nil, classifyExecutionError(err)
	}

	t.logger.Info().
		Str("digest", result.Digest).
		Str("sender", session.Address).
		Msg("transaction executed")

	t.auth.refreshBalanceAsync(session.Address)
	return result, nil
}

// addressSeed prefers the seed the prover returned; only when the prover
// omitted one is it recomputed locally from the salt and the token subject.
func (t *TxService) addressSeed(session *core.AuthSession) (string, error) {
	if session.Proof.AddressSeed != "" {
		return session.Proof.AddressSeed, nil
	}

	subject, err := tokenizer.DecodeSubject(session.IdentityToken)
	if err != nil {
		return "", err
	}
	return zkcrypto.AddressSeed(t.auth.salt, subject), nil
}

// classifyExecutionError maps chain-level rejection messages onto the two
// re-authenticate conditions; everything else passes through unchanged.
func classifyExecutionError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "proof verify") ||
		strings.Contains(msg, "invalid proof") ||
		strings.Contains(msg, "groth16"):
		return fmt.Errorf("%w: %v", core.ErrProofRejected, err)
	case strings.Contains(msg, "signature is not valid") ||
		strings.Contains(msg, "invalid signature") ||
		strings.Contains(msg, "signature mismatch") ||
		strings.Contains(msg, "invalid user signature"):
		return fmt.Errorf("%w: %v", core.ErrSignatureMismatch, err)
	default:
		return err
	}
}
