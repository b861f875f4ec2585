// Package provider builds the identity provider's authorization redirect.
package provider

import (
	"fmt"
	"net/url"

	"github.com/openquest/zklogin/core"
)

// Config identifies this application at the identity provider.
type Config struct {
	// AuthorizationEndpoint is the provider's authorization URL.
	AuthorizationEndpoint string

	// ClientID is the OAuth client ID registered with the provider.
	ClientID string

	// RedirectURI is where the provider sends the user back, with the
	// identity token in the URL fragment.
	RedirectURI string
}

// BuildAuthorizationURL formats the implicit-flow authorization URL carrying
// the login nonce. The token comes back in the URL fragment, never the query
// string, so it is not sent to any server. Pure formatting; the only failure
// is missing required configuration, which must surface before any redirect.
func BuildAuthorizationURL(cfg Config, nonce string) (string, error) {
	if cfg.ClientID == "" {
		return "", fmt.Errorf("%w: provider client ID", core.ErrMissingConfig)
	}
	if cfg.RedirectURI == "" {
		return "", fmt.Errorf("%w: provider redirect URI", core.ErrMissingConfig)
	}
	if cfg.AuthorizationEndpoint == "" {
		return "", fmt.Errorf("%w: provider authorization endpoint", core.ErrMissingConfig)
	}

	endpoint, err := url.Parse(cfg.AuthorizationEndpoint)
	if err != nil {
		return "", fmt.Errorf("invalid authorization endpoint: %w", err)
	}

	query := url.Values{}
	query.Set("client_id", cfg.ClientID)
	query.Set("redirect_uri", cfg.RedirectURI)
	query.Set("response_type", "id_token")
	query.Set("scope", "openid email profile")
	query.Set("nonce", nonce)
	endpoint.RawQuery = query.Encode()

	return endpoint.String(), nil
}
