package prover

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openquest/zklogin/ports"
)

func sampleRequest() ports.ProofRequest {
	return ports.ProofRequest{
		JWT:                        "raw.jwt.token",
		ExtendedEphemeralPublicKey: "AAp1Yg==",
		MaxEpoch:                   110,
		JWTRandomness:              "987654321",
		Salt:                       "saltA",
		KeyClaimName:               "sub",
	}
}

func TestRequestProof(t *testing.T) {
	var received ports.ProofRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"proofPoints": {"a": ["1"], "b": [["2"]], "c": ["3"]},
			"issBase64Details": {"value": "aXNz", "indexMod4": 1},
			"headerBase64": "aGVhZGVy",
			"addressSeed": "12345"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	proof, err := client.RequestProof(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "raw.jwt.token", received.JWT)
	assert.Equal(t, "sub", received.KeyClaimName)
	assert.Equal(t, uint64(110), received.MaxEpoch)

	assert.Equal(t, []string{"1"}, proof.ProofPoints.A)
	assert.Equal(t, "aGVhZGVy", proof.HeaderBase64)
	assert.Equal(t, "12345", proof.AddressSeed)
}

func TestRequestProofNonSuccessSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("prover warming up"))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	_, err := client.RequestProof(context.Background(), sampleRequest())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "prover warming up", statusErr.Body)
	assert.True(t, statusErr.Retryable())
}

func TestStatusErrorRetryable(t *testing.T) {
	assert.True(t, (&StatusError{StatusCode: 429}).Retryable())
	assert.True(t, (&StatusError{StatusCode: 500}).Retryable())
	assert.True(t, (&StatusError{StatusCode: 503}).Retryable())
	assert.False(t, (&StatusError{StatusCode: 400}).Retryable())
	assert.False(t, (&StatusError{StatusCode: 422}).Retryable())
}

func TestRequestProofBadResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	_, err := client.RequestProof(context.Background(), sampleRequest())
	assert.Error(t, err)
}
