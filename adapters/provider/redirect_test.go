package provider

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openquest/zklogin/core"
)

func TestBuildAuthorizationURL(t *testing.T) {
	cfg := Config{
		AuthorizationEndpoint: "https://accounts.example.com/authorize",
		ClientID:              "client-id",
		RedirectURI:           "https://app.example.com/callback",
	}

	raw, err := BuildAuthorizationURL(cfg, "abc123")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", parsed.Host)

	query := parsed.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "https://app.example.com/callback", query.Get("redirect_uri"))
	assert.Equal(t, "id_token", query.Get("response_type"))
	assert.Equal(t, "openid email profile", query.Get("scope"))
	assert.Equal(t, "abc123", query.Get("nonce"))
}

func TestBuildAuthorizationURLMissingConfig(t *testing.T) {
	base := Config{
		AuthorizationEndpoint: "https://accounts.example.com/authorize",
		ClientID:              "client-id",
		RedirectURI:           "https://app.example.com/callback",
	}

	noClient := base
	noClient.ClientID = ""
	_, err := BuildAuthorizationURL(noClient, "n")
	assert.ErrorIs(t, err, core.ErrMissingConfig)

	noRedirect := base
	noRedirect.RedirectURI = ""
	_, err = BuildAuthorizationURL(noRedirect, "n")
	assert.ErrorIs(t, err, core.ErrMissingConfig)

	noEndpoint := base
	noEndpoint.AuthorizationEndpoint = ""
	_, err = BuildAuthorizationURL(noEndpoint, "n")
	assert.ErrorIs(t, err, core.ErrMissingConfig)
}
