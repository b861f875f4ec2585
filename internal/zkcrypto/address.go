package zkcrypto

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/openquest/zklogin/core"
)

// zkLoginSchemeFlag marks a zklogin-derived account in address derivation,
// distinguishing it from plain keypair accounts.
const zkLoginSchemeFlag byte = 0x05

// addressSeedBytes is the fixed width the seed is padded to inside address
// derivation.
const addressSeedBytes = 32

// AddressSeed derives the blinded seed combining the per-account salt with
// the identity token's subject claim. The prover computes the same value;
// when it returns one, the prover's copy is preferred at signing time.
func AddressSeed(salt, subject string) string {
	msg := lengthPrefixed(salt)
	msg = append(msg, lengthPrefixed(subject)...)
	sum := blake2b.Sum256(msg)
	return new(big.Int).SetBytes(sum[:]).String()
}

// DeriveAddress deterministically computes the on-chain account address from
// the token's issuer and subject claims and the per-account salt. The same
// (issuer, subject, salt) tuple always yields the same address; losing the
// salt loses access to the address permanently.
func DeriveAddress(issuer, subject, salt string) (string, error) {
	if issuer == "" || subject == "" {
		return "", fmt.Errorf("%w: issuer and subject are required", core.ErrMissingClaim)
	}
	if salt == "" {
		return "", fmt.Errorf("%w: account salt is required", core.ErrMissingConfig)
	}

	seed, ok := new(big.Int).SetString(AddressSeed(salt, subject), 10)
	if !ok {
		return "", fmt.Errorf("invalid address seed")
	}
	seedBytes := seed.FillBytes(make([]byte, addressSeedBytes))

	msg := make([]byte, 0, 2+len(issuer)+addressSeedBytes)
	msg = append(msg, zkLoginSchemeFlag)
	msg = append(msg, byte(len(issuer)))
	msg = append(msg, issuer...)
	msg = append(msg, seedBytes...)

	sum := blake2b.Sum256(msg)
	return "0x" + hex.EncodeToString(sum[:]), nil
}

func lengthPrefixed(s string) []byte {
	buf := make([]byte, 4, 4+len(s))
	binary.BigEndian.PutUint32(buf, uint32(len(s)))
	return append(buf, s...)
}
