// Package tokenizer extracts and decodes the provider's identity token.
//
// The token signature is intentionally NOT verified here. The raw token is
// relayed to the proof service, which validates it against the provider's
// published keys before issuing a proof; this package only validates the
// claims it can check locally (presence, expiry, nonce). See DESIGN.md for
// the trust-boundary discussion.
package tokenizer

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openquest/zklogin/core"
)

// idTokenParam is the fragment parameter carrying the identity token in the
// implicit-flow redirect.
const idTokenParam = "id_token"

// ExtractToken parses the redirect URL fragment (the part after '#') as
// query parameters and returns the identity token, or "" when absent so the
// caller can surface a clear "no token found" error.
func ExtractToken(fragment string) string {
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return ""
	}
	return values.Get(idTokenParam)
}

// DecodeIDToken decodes the identity token's claims without verifying its
// signature and validates what can be checked locally: subject, issuer and
// nonce must be present, and the token must not be expired.
func DecodeIDToken(raw string, now time.Time) (*core.IdentityClaims, error) {
	var claims IDTokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("failed to decode identity token: %w", err)
	}

	switch {
	case claims.Subject == "":
		return nil, fmt.Errorf("%w: sub", core.ErrMissingClaim)
	case claims.Issuer == "":
		return nil, fmt.Errorf("%w: iss", core.ErrMissingClaim)
	case claims.Nonce == "":
		return nil, fmt.Errorf("%w: nonce", core.ErrMissingClaim)
	case claims.ExpiresAt == nil:
		return nil, fmt.Errorf("%w: exp", core.ErrMissingClaim)
	}

	if !claims.ExpiresAt.Time.After(now) {
		return nil, fmt.Errorf("%w: expired at %s", core.ErrTokenExpired, claims.ExpiresAt.Time.Format(time.RFC3339))
	}

	identity := &core.IdentityClaims{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
		Nonce:   claims.Nonce,
		Email:   claims.Email,
		Expiry:  claims.ExpiresAt.Time,
	}
	if len(claims.Audience) > 0 {
		identity.Audience = claims.Audience[0]
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}

// DecodeSubject returns only the subject claim, without expiry enforcement.
// Used at signing time, when the session's stored token has usually outlived
// its own exp but its subject is still needed to recompute the address seed.
func DecodeSubject(raw string) (string, error) {
	var claims IDTokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return "", fmt.Errorf("failed to decode identity token: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: sub", core.ErrMissingClaim)
	}
	return claims.Subject, nil
}
