package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openquest/zklogin/adapters/prover"
	"github.com/openquest/zklogin/core"
	"github.com/openquest/zklogin/service"
)

// Handlers contains the HTTP handlers for the login flow and transaction
// execution.
type Handlers struct {
	auth *service.AuthService
	tx   *service.TxService
}

// NewHandlers creates the HTTP handlers.
func NewHandlers(auth *service.AuthService, tx *service.TxService) *Handlers {
	return &Handlers{auth: auth, tx: tx}
}

// SessionResponse is the externally visible session summary. The keypair,
// proof and raw token never leave the service.
type SessionResponse struct {
	Address         string `json:"address"`
	MaxEpoch        uint64 `json:"max_epoch"`
	IsAuthenticated bool   `json:"is_authenticated"`
	Balance         string `json:"balance"`
}

// BeginLogin starts a login attempt and returns the provider redirect URL.
func (h *Handlers) BeginLogin(c *gin.Context) {
	redirectURL, err := h.auth.BeginLogin(c.Request.Context())
	if err != nil {
		if errors.Is(err, core.ErrMissingConfig) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authorization_url": redirectURL})
}

// CompleteLogin handles the provider callback fragment and creates the
// session.
func (h *Handlers) CompleteLogin(c *gin.Context) {
	var req struct {
		Fragment string `json:"fragment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.auth.CompleteLogin(c.Request.Context(), req.Fragment)
	if err != nil {
		status := http.StatusUnauthorized
		retryable := false

		var proverErr *prover.StatusError
		switch {
		case errors.Is(err, core.ErrLoginInProgress):
			status = http.StatusConflict
		case errors.Is(err, core.ErrNoLoginInFlight),
			errors.Is(err, core.ErrNoToken),
			errors.Is(err, core.ErrMissingClaim):
			status = http.StatusBadRequest
		case errors.As(err, &proverErr):
			// The prover failing under load is the one expected transient
			// failure in the flow; tell the caller a retry is worthwhile.
			status = http.StatusBadGateway
			retryable = proverErr.Retryable()
		}

		c.JSON(status, gin.H{"error": err.Error(), "retryable": retryable})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Address:         session.Address,
		MaxEpoch:        session.MaxEpoch,
		IsAuthenticated: session.IsAuthenticated,
		Balance:         h.auth.Balance().String(),
	})
}

// Session returns the active session summary.
func (h *Handlers) Session(c *gin.Context) {
	session := h.auth.CurrentSession()
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": core.ErrNotAuthenticated.Error()})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Address:         session.Address,
		MaxEpoch:        session.MaxEpoch,
		IsAuthenticated: session.IsAuthenticated,
		Balance:         h.auth.Balance().String(),
	})
}

// Logout destroys the session.
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Execute signs and submits a transaction with the active session.
func (h *Handlers) Execute(c *gin.Context) {
	var tx core.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction"})
		return
	}

	result, err := h.tx.Execute(c.Request.Context(), &tx)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, core.ErrNotAuthenticated),
			errors.Is(err, core.ErrNoProof),
			errors.Is(err, core.ErrProofRejected),
			errors.Is(err, core.ErrSignatureMismatch):
			status = http.StatusUnauthorized
		case errors.Is(err, core.ErrEpochExpired):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
