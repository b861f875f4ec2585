package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openquest/zklogin/core"
)

func setRequired(t *testing.T) {
	t.Setenv("OAUTH_CLIENT_ID", "client-id")
	t.Setenv("OAUTH_REDIRECT_URI", "https://app.example.com/callback")
	t.Setenv("PROVER_URL", "https://prover.example.com/v1")
	t.Setenv("ACCOUNT_SALT", "saltA")
}

func TestLoad(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, DefaultAuthorizeURL, cfg.AuthorizeURL)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "0x2::sui::SUI", cfg.CoinType)
}

func TestLoadFailsFastOnMissingRequired(t *testing.T) {
	for _, key := range []string{"OAUTH_CLIENT_ID", "OAUTH_REDIRECT_URI", "PROVER_URL", "ACCOUNT_SALT"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMissingConfig)
			assert.Contains(t, err.Error(), key)
		})
	}
}
