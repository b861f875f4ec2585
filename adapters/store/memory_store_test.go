package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openquest/zklogin/core"
)

func sampleSession() *core.AuthSession {
	return &core.AuthSession{
		Address: "0xabc",
		KeyPair: core.SerializedKeyPair{
			PrivateKey: "cHJpdg==",
			PublicKey:  "cHVi",
		},
		Proof:           &core.ZkProof{HeaderBase64: "header"},
		IdentityToken:   "raw.jwt.token",
		MaxEpoch:        110,
		Randomness:      "987654321",
		IsAuthenticated: true,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	session := sampleSession()
	require.NoError(t, s.Save(ctx, session))

	restored, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, session, restored)
}

func TestLoadEmpty(t *testing.T) {
	restored, err := NewMemoryStore().Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestLoadCorruptSessionClearsStorage(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		blob []byte
	}{
		{"not json", []byte("{{{garbage")},
		{"missing address", []byte(`{"jwt":"x","ephemeralKeyPair":{"privateKey":"a","publicKey":"b"},"maxEpoch":5,"randomness":"r"}`)},
		{"missing jwt", []byte(`{"address":"0xabc","ephemeralKeyPair":{"privateKey":"a","publicKey":"b"},"maxEpoch":5,"randomness":"r"}`)},
		{"missing keypair", []byte(`{"address":"0xabc","jwt":"x","maxEpoch":5,"randomness":"r"}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewMemoryStore()
			s.session = tc.blob

			restored, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, restored)
			assert.Nil(t, s.session, "corrupt blob must be cleared")
		})
	}
}

func TestClearIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Save(ctx, sampleSession()))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	restored, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestFlightRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	attempt := &core.LoginAttempt{
		ID:         "attempt-1",
		KeyPair:    core.SerializedKeyPair{PrivateKey: "a", PublicKey: "b"},
		Nonce:      "abc123",
		Randomness: "42",
		MaxEpoch:   110,
	}
	require.NoError(t, s.Put(ctx, attempt))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, attempt, got)

	require.NoError(t, s.Delete(ctx))
	got, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Delete(ctx))
}

func TestFlightExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, &core.LoginAttempt{ID: "attempt-1"}))
	s.flightExpiry = time.Now().Add(-time.Second)

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
