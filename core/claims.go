package core

import "time"

// IdentityClaims are the locally validated claims of the provider's identity
// token. The token's signature is NOT verified here: it is relayed to the
// proof service, which is trusted to validate it against the provider's
// published keys. That trust boundary is deliberate; see DESIGN.md.
type IdentityClaims struct {
	Subject  string    // "sub": stable user identifier at the provider
	Issuer   string    // "iss": provider identifier
	Audience string    // "aud": our OAuth client ID
	Nonce    string    // single-use value binding the token to one login attempt
	Email    string    // optional
	IssuedAt time.Time // "iat"
	Expiry   time.Time // "exp"
}
