// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/openquest/zklogin/core"
)

// DefaultAuthorizeURL is the identity provider's authorization endpoint.
const DefaultAuthorizeURL = "https://accounts.google.com/o/oauth2/v2/auth"

// Config carries everything the service needs to run. Login cannot function
// without the OAuth client, the redirect URI and the prover URL, so Load
// fails fast on those instead of letting a user reach a broken OAuth screen.
type Config struct {
	ClientID     string
	RedirectURI  string
	AuthorizeURL string
	ProverURL    string
	ChainRPCURL  string
	RedisURL     string
	ListenAddr   string
	CoinType     string

	// AccountSalt blinds address derivation. A single shared salt is a
	// development shortcut: production needs a per-user salt service, or
	// every user's address is derivable from their subject claim alone.
	AccountSalt string
}

// Load reads configuration from the environment and validates the fields
// login cannot run without.
func Load() (*Config, error) {
	cfg := &Config{
		ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		RedirectURI:  os.Getenv("OAUTH_REDIRECT_URI"),
		AuthorizeURL: getenv("OAUTH_AUTHORIZE_URL", DefaultAuthorizeURL),
		ProverURL:    os.Getenv("PROVER_URL"),
		ChainRPCURL:  getenv("CHAIN_RPC_URL", "https://fullnode.devnet.sui.io:443"),
		RedisURL:     getenv("REDIS_URL", "redis://localhost:6379/0"),
		ListenAddr:   getenv("LISTEN_ADDR", ":9000"),
		CoinType:     getenv("COIN_TYPE", "0x2::sui::SUI"),
		AccountSalt:  os.Getenv("ACCOUNT_SALT"),
	}

	switch {
	case cfg.ClientID == "":
		return nil, fmt.Errorf("%w: OAUTH_CLIENT_ID", core.ErrMissingConfig)
	case cfg.RedirectURI == "":
		return nil, fmt.Errorf("%w: OAUTH_REDIRECT_URI", core.ErrMissingConfig)
	case cfg.ProverURL == "":
		return nil, fmt.Errorf("%w: PROVER_URL", core.ErrMissingConfig)
	case cfg.AccountSalt == "":
		return nil, fmt.Errorf("%w: ACCOUNT_SALT", core.ErrMissingConfig)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
