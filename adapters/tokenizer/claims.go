package tokenizer

import "github.com/golang-jwt/jwt/v5"

// IDTokenClaims combines the standard OIDC claims with the ones the zklogin
// flow binds: the nonce and the optional email.
type IDTokenClaims struct {
	jwt.RegisteredClaims
	Nonce string `json:"nonce"`
	Email string `json:"email,omitempty"`
}
