package zkcrypto

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/openquest/zklogin/core"
)

// nonceLength is the number of hash bytes kept for the nonce. 20 bytes gives
// a 27-character base64url value, short enough for the provider's nonce
// parameter while leaving no realistic collision margin.
const nonceLength = 20

// Nonce deterministically derives the single-use login nonce from the
// ephemeral public key, the key-expiry epoch and the blinding randomness.
// The same inputs always yield the same nonce; the value sent to the
// provider is stored and later compared by string equality against the
// token's nonce claim.
func Nonce(pub ed25519.PublicKey, maxEpoch uint64, randomness string) string {
	var epochBuf [8]byte
	binary.BigEndian.PutUint64(epochBuf[:], maxEpoch)

	msg := make([]byte, 0, 1+ed25519.PublicKeySize+8+len(randomness))
	msg = append(msg, core.Ed25519SchemeFlag)
	msg = append(msg, pub...)
	msg = append(msg, epochBuf[:]...)
	msg = append(msg, randomness...)

	sum := blake2b.Sum256(msg)
	return base64.RawURLEncoding.EncodeToString(sum[:nonceLength])
}

// ValidateNonce compares the nonce claim extracted from the identity token
// with the nonce issued for this login attempt. Exact string equality is
// required; any mismatch means the token was not minted for this attempt.
func ValidateNonce(claims *core.IdentityClaims, expected string) bool {
	return expected != "" && claims.Nonce == expected
}
