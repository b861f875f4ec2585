package core

import "fmt"

// EpochValidityWindow is how many epochs past the current one an ephemeral
// key remains valid. MaxEpoch is fixed at login time as current + window.
const EpochValidityWindow uint64 = 10

// AuthSession is the aggregate state of one authenticated login. Exactly one
// session exists at a time; it is replaced wholesale on login and destroyed
// on logout, so readers never observe partial mutations.
type AuthSession struct {
	Address         string            `json:"address"`
	KeyPair         SerializedKeyPair `json:"ephemeralKeyPair"`
	Proof           *ZkProof          `json:"zkProof"`
	IdentityToken   string            `json:"jwt"`
	MaxEpoch        uint64            `json:"maxEpoch"`
	Randomness      string            `json:"randomness"`
	IsAuthenticated bool              `json:"isAuthenticated"`
}

// Validate reports whether the session carries every field a restored
// session must have. A session failing this check is treated as corrupt and
// discarded by the store.
func (s *AuthSession) Validate() error {
	switch {
	case s.Address == "":
		return fmt.Errorf("session missing address")
	case s.IdentityToken == "":
		return fmt.Errorf("session missing identity token")
	case s.KeyPair.PrivateKey == "" || s.KeyPair.PublicKey == "":
		return fmt.Errorf("session missing ephemeral keypair")
	case s.Randomness == "":
		return fmt.Errorf("session missing randomness")
	case s.MaxEpoch == 0:
		return fmt.Errorf("session missing max epoch")
	}
	return nil
}

// LoginAttempt is the in-flight state written between the provider redirect
// and the callback. It is short-lived: cleared after every attempt, whether
// it succeeds or fails.
type LoginAttempt struct {
	ID         string            `json:"id"`
	KeyPair    SerializedKeyPair `json:"ephemeralKeyPair"`
	Nonce      string            `json:"nonce"`
	Randomness string            `json:"randomness"`
	MaxEpoch   uint64            `json:"maxEpoch"`
}
