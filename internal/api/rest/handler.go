package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-ticketing/internal/api/middleware"
	"github.com/feral-file/ff-ticketing/internal/api/shared/dto"
	"github.com/feral-file/ff-ticketing/internal/api/shared/executor"
	"github.com/feral-file/ff-ticketing/internal/domain"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// Handler defines the interface for REST API handlers
type Handler interface {
	// VerifyTicket verifies a scanned or typed-in ticket
	// POST /api/v1/verify
	VerifyTicket(c *gin.Context)

	// CheckIn marks a ticket as used on chain (requires authentication)
	// POST /api/v1/check-in
	CheckIn(c *gin.Context)

	// SyncTicket applies a purchase, transfer or use mutation
	// POST /api/v1/sync/ticket?async=<bool>
	SyncTicket(c *gin.Context)

	// SyncListing applies a listing, sale or cancel mutation
	// POST /api/v1/sync/listing?async=<bool>
	SyncListing(c *gin.Context)

	// SyncTransaction applies a mutation of any type
	// POST /api/v1/sync/transaction?async=<bool>
	SyncTransaction(c *gin.Context)

	// GetTicket reads one ticket; verify=true compares the cache with the chain
	// GET /api/v1/tickets/:chain/:contract/:token?verify=<bool>
	GetTicket(c *gin.Context)

	// RebuildTicket drops the cached ticket and rebuilds it from chain (requires authentication)
	// POST /api/v1/tickets/:chain/:contract/:token/rebuild
	RebuildTicket(c *gin.Context)

	// ListTicketsByOwner lists tickets held by an address
	// GET /api/v1/owners/:address/tickets?chain=<id>&contract_address=<addr>&is_listed=<bool>&is_used=<bool>&limit=<limit>&offset=<offset>
	ListTicketsByOwner(c *gin.Context)

	// ListTicketsByEvent lists tickets of an event contract
	// GET /api/v1/events/:contract/tickets?chain=<id>&is_listed=<bool>&is_used=<bool>&limit=<limit>&offset=<offset>
	ListTicketsByEvent(c *gin.Context)

	// ListListings lists resale listings
	// GET /api/v1/listings?chain=<id>&contract_address=<addr>&token_id=<id>&seller=<addr>&status=<status>&limit=<limit>&offset=<offset>
	ListListings(c *gin.Context)

	// ListTransactions lists ticket history, newest first
	// GET /api/v1/transactions?chain=<id>&contract_address=<addr>&token_id=<id>&address=<addr>&tx_type=<type>&limit=<limit>&offset=<offset>
	ListTransactions(c *gin.Context)

	// ListChains lists the supported chains
	// GET /api/v1/chains
	ListChains(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
	checks   map[string]HealthCheck
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor, checks map[string]HealthCheck) Handler {
	return &handler{
		executor: exec,
		checks:   checks,
	}
}

// VerifyTicket verifies a ticket by QR payload or by contract and token id
func (h *handler) VerifyTicket(c *gin.Context) {
	var req dto.VerifyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	resp, err := h.executor.VerifyTicket(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to verify ticket")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CheckIn marks a ticket as used and waits for the transaction to confirm
func (h *handler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Operator == "" {
		req.Operator = middleware.OperatorFromContext(c)
	}

	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	resp, err := h.executor.CheckIn(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to check in ticket")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) SyncTicket(c *gin.Context) {
	h.sync(c, executor.SyncScopeTicket)
}

func (h *handler) SyncListing(c *gin.Context) {
	h.sync(c, executor.SyncScopeListing)
}

func (h *handler) SyncTransaction(c *gin.Context) {
	h.sync(c, executor.SyncScopeTransaction)
}

// sync applies or queues one mutation. Queued mutations answer 202.
func (h *handler) sync(c *gin.Context, scope executor.SyncScope) {
	async, err := parseBoolQuery(c, "async")
	if err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid async flag: %v", err))
		return
	}

	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	resp, err := h.executor.Sync(c.Request.Context(), scope, &req, async)
	if err != nil {
		respondError(c, err, "Failed to sync mutation")
		return
	}

	status := http.StatusOK
	if resp.Status == executor.StatusQueued {
		status = http.StatusAccepted
	}
	c.JSON(status, resp)
}

// GetTicket reads a single ticket
func (h *handler) GetTicket(c *gin.Context) {
	key, err := ParseTicketKey(c)
	if err != nil {
		respondBadRequest(c, "Invalid ticket key", err.Error())
		return
	}

	verify, err := parseBoolQuery(c, "verify")
	if err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid verify flag: %v", err))
		return
	}

	resp, err := h.executor.GetTicket(c.Request.Context(), key, verify)
	if err != nil {
		respondError(c, err, "Failed to get ticket")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RebuildTicket rebuilds a cached ticket from chain
func (h *handler) RebuildTicket(c *gin.Context) {
	key, err := ParseTicketKey(c)
	if err != nil {
		respondBadRequest(c, "Invalid ticket key", err.Error())
		return
	}

	resp, err := h.executor.RebuildTicket(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "Failed to rebuild ticket")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListTicketsByOwner lists the tickets of an owner
func (h *handler) ListTicketsByOwner(c *gin.Context) {
	owner := c.Param("address")
	if !domain.IsAddress(owner) {
		respondBadRequest(c, "Invalid owner address", owner)
		return
	}

	filter, err := ParseTicketFilter(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.ListTicketsByOwner(c.Request.Context(), domain.NormalizeAddress(owner), filter)
	if err != nil {
		respondError(c, err, "Failed to list tickets")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListTicketsByEvent lists the tickets of an event contract
func (h *handler) ListTicketsByEvent(c *gin.Context) {
	contract := c.Param("contract")
	if !domain.IsAddress(contract) {
		respondBadRequest(c, "Invalid contract address", contract)
		return
	}

	filter, err := ParseTicketFilter(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.ListTicketsByEvent(c.Request.Context(), domain.NormalizeAddress(contract), filter)
	if err != nil {
		respondError(c, err, "Failed to list tickets")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListListings(c *gin.Context) {
	filter, err := ParseListingFilter(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.ListListings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list listings")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListTransactions(c *gin.Context) {
	filter, err := ParseTransactionFilter(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListChains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chains": h.executor.ListChains()})
}

// HealthCheck reports ok only when every dependency answers
func (h *handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}
