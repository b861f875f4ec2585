// Package service orchestrates the zklogin pipeline: the login flow from
// ephemeral key generation through proof acquisition to session creation,
// and session-bound transaction signing.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/openquest/zklogin/adapters/provider"
	"github.com/openquest/zklogin/adapters/tokenizer"
	"github.com/openquest/zklogin/core"
	"github.com/openquest/zklogin/internal/zkcrypto"
	"github.com/openquest/zklogin/ports"
)

// keyClaimName is the token claim the address is bound to.
const keyClaimName = "sub"

// balanceRefreshTimeout bounds the best-effort balance refresh spawned after
// session changes and transaction execution.
const balanceRefreshTimeout = 10 * time.Second

// callbackState tracks where the callback handler is in the login flow, for
// logging and failure reporting.
type callbackState string

const (
	stateExtracting      callbackState = "extracting"
	stateValidatingNonce callbackState = "validating_nonce"
	stateRequestingProof callbackState = "requesting_proof"
	stateDerivingAddress callbackState = "deriving_address"
	stateSessionCreated  callbackState = "session_created"
)

// AuthService runs the login flow. It owns the single AuthSession: the
// session is read by many callers but written only here, and every write
// replaces the whole object, so readers never observe partial state.
type AuthService struct {
	providerCfg provider.Config
	salt        string
	coinType    string

	sessions ports.SessionStore
	flights  ports.FlightStore
	prover   ports.Prover
	chain    ports.ChainClient
	events   ports.EventPublisher

	logger zerolog.Logger
	now    func() time.Time

	// callbackBusy guards against a duplicate callback invocation racing
	// the first one into a second proof round-trip.
	callbackBusy atomic.Bool

	mu      sync.RWMutex
	current *core.AuthSession
	balance decimal.Decimal
}

// NewAuthService creates the login-flow orchestrator. The event publisher
// may be nil; events are best-effort.
func NewAuthService(
	providerCfg provider.Config,
	salt string,
	coinType string,
	sessions ports.SessionStore,
	flights ports.FlightStore,
	prover ports.Prover,
	chain ports.ChainClient,
	events ports.EventPublisher,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		providerCfg: providerCfg,
		salt:        salt,
		coinType:    coinType,
		sessions:    sessions,
		flights:     flights,
		prover:      prover,
		chain:       chain,
		events:      events,
		logger:      logger.With().Str("component", "auth").Logger(),
		now:         time.Now,
	}
}

// BeginLogin starts a login attempt: fresh ephemeral key material, a max
// epoch ten epochs out, and a nonce binding both. The attempt is persisted
// strictly before the redirect URL is returned, so a fast provider
// round-trip can never race the write.
func (s *AuthService) BeginLogin(ctx context.Context) (string, error) {
	keyPair, randomness, err := zkcrypto.GenerateEphemeralKeyPair()
	if err != nil {
		return "", err
	}

	epoch, err := s.chain.CurrentEpoch(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch current epoch: %w", err)
	}
	maxEpoch := epoch + core.EpochValidityWindow

	nonce := zkcrypto.Nonce(keyPair.PublicKey, maxEpoch, randomness)

	attempt := &core.LoginAttempt{
		ID:         uuid.New().String(),
		KeyPair:    keyPair.Serialize(),
		Nonce:      nonce,
		Randomness: randomness,
		MaxEpoch:   maxEpoch,
	}
	if err := s.flights.Put(ctx, attempt); err != nil {
		return "", fmt.Errorf("failed to persist login attempt: %w", err)
	}

	redirectURL, err := provider.BuildAuthorizationURL(s.providerCfg, nonce)
	if err != nil {
		// Leave nothing behind for a login that never leaves the building.
		if delErr := s.flights.Delete(ctx); delErr != nil {
			s.logger.Warn().Err(delErr).Msg("failed to discard login attempt")
		}
		return "", err
	}

	s.logger.Info().
		Str("attempt_id", attempt.ID).
		Uint64("max_epoch", maxEpoch).
		Msg("login attempt started")

	return redirectURL, nil
}

// CompleteLogin handles the provider callback: extracts and validates the
// identity token, checks the nonce against the pending attempt, obtains the
// zk proof, derives the address and atomically creates the session.
//
// The in-flight attempt state is cleared after every outcome, success or
// failure, so a half-finished login can neither be replayed nor leak the
// ephemeral private key in storage. A concurrent duplicate invocation is a
// no-op error rather than a second proof round-trip.
func (s *AuthService) CompleteLogin(ctx context.Context, fragment string) (*core.AuthSession, error) {
	if !s.callbackBusy.CompareAndSwap(false, true) {
		return nil, core.ErrLoginInProgress
	}
	defer s.callbackBusy.Store(false)

	attempt, err := s.flights.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load login attempt: %w", err)
	}
	if attempt == nil {
		return nil, core.ErrNoLoginInFlight
	}
	defer func() {
		if err := s.flights.Delete(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to clear login attempt state")
		}
	}()

	session, err := s.completeLogin(ctx, fragment, attempt)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if pubErr := s.events.PublishLogin(ctx, session.Address, session.MaxEpoch); pubErr != nil {
			s.logger.Warn().Err(pubErr).Msg("failed to publish login event")
		}
	}
	s.refreshBalanceAsync(session.Address)

	return session, nil
}

func (s *AuthService) completeLogin(ctx context.Context, fragment string, attempt *core.LoginAttempt) (*core.AuthSession, error) {
	state := stateExtracting
	fail := func(err error) (*core.AuthSession, error) {
		s.logger.Warn().Err(err).Str("state", string(state)).Msg("login failed")
		return nil, err
	}

	rawToken := tokenizer.ExtractToken(fragment)
	if rawToken == "" {
		return fail(core.ErrNoToken)
	}
	claims, err := tokenizer.DecodeIDToken(rawToken, s.now())
	if err != nil {
		return fail(err)
	}

	state = stateValidatingNonce
	if !zkcrypto.ValidateNonce(claims, attempt.Nonce) {
		return fail(core.ErrNonceMismatch)
	}

	keyPair, err := attempt.KeyPair.Deserialize()
	if err != nil {
		return fail(err)
	}

	state = stateRequestingProof
	proof, err := s.prover.RequestProof(ctx, ports.ProofRequest{
		JWT:                        rawToken,
		ExtendedEphemeralPublicKey: keyPair.ExtendedPublicKey(),
		MaxEpoch:                   attempt.MaxEpoch,
		JWTRandomness:              attempt.Randomness,
		Salt:                       s.salt,
		KeyClaimName:               keyClaimName,
	})
	if err != nil {
		return fail(fmt.Errorf("proof request failed: %w", err))
	}

	state = stateDerivingAddress
	address, err := zkcrypto.DeriveAddress(claims.Issuer, claims.Subject, s.salt)
	if err != nil {
		return fail(err)
	}

	session := &core.AuthSession{
		Address:         address,
		KeyPair:         attempt.KeyPair,
		Proof:           proof,
		IdentityToken:   rawToken,
		MaxEpoch:        attempt.MaxEpoch,
		Randomness:      attempt.Randomness,
		IsAuthenticated: true,
	}

	// Persist first; in-memory state changes only once the write succeeded.
	if err := s.sessions.Save(ctx, session); err != nil {
		return fail(fmt.Errorf("failed to persist session: %w", err))
	}
	s.setCurrent(session)

	state = stateSessionCreated
	s.logger.Info().
		Str("address", address).
		Uint64("max_epoch", session.MaxEpoch).
		Msg("session created")

	return session, nil
}

// RestoreSession loads the persisted session on process start. A missing or
// corrupt stored session yields (nil, nil): corruption logs the user out, it
// never crashes the application.
func (s *AuthService) RestoreSession(ctx context.Context) (*core.AuthSession, error) {
	session, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.setCurrent(session)
	if session == nil {
		return nil, nil
	}

	s.logger.Info().Str("address", session.Address).Msg("session restored")
	s.refreshBalanceAsync(session.Address)
	return session, nil
}

// Logout destroys the session wholesale. Idempotent.
func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	address := ""
	if s.current != nil {
		address = s.current.Address
	}
	s.current = nil
	s.balance = decimal.Zero
	s.mu.Unlock()

	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}

	if address != "" && s.events != nil {
		if err := s.events.PublishLogout(ctx, address); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish logout event")
		}
	}
	return nil
}

// CurrentSession returns the active session, or nil when logged out.
func (s *AuthService) CurrentSession() *core.AuthSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Balance returns the most recently refreshed balance for the active
// session's address. Display data only: it is refreshed best-effort and may
// lag the chain.
func (s *AuthService) Balance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

func (s *AuthService) setCurrent(session *core.AuthSession) {
	s.mu.Lock()
	s.current = session
	if session == nil {
		s.balance = decimal.Zero
	}
	s.mu.Unlock()
}

// refreshBalanceAsync refreshes the cached balance in the background. A
// failed refresh is logged and otherwise ignored: balance is best-effort
// display data, never part of the authentication invariant.
func (s *AuthService) refreshBalanceAsync(address string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), balanceRefreshTimeout)
		defer cancel()

		balance, err := s.chain.Balance(ctx, address, s.coinType)
		if err != nil {
			s.logger.Warn().Err(err).Str("address", address).Msg("balance refresh failed")
			return
		}

		s.mu.Lock()
		if s.current != nil && s.current.Address == address {
			s.balance = balance
		}
		s.mu.Unlock()
	}()
}
