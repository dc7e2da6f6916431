package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-ticketing/internal/api/middleware"
	"github.com/feral-file/ff-ticketing/internal/webhook"
)

// SetupRoutes configures all REST API routes. A nil signer disables signed sync requests.
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig, signer *webhook.Signer) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Verification (public: door scanners and buyers)
		v1.POST("/verify", handler.VerifyTicket)

		// Check-in sends a transaction (requires authentication)
		v1.POST("/check-in", middleware.Auth(authCfg), handler.CheckIn)

		// Sync triggers from the ticketing frontend or webhooks (signature or authentication)
		sync := v1.Group("/sync", middleware.SignedOrAuth(signer, authCfg))
		{
			sync.POST("/ticket", handler.SyncTicket)
			sync.POST("/listing", handler.SyncListing)
			sync.POST("/transaction", handler.SyncTransaction)
		}

		// Ticket reads (public read access)
		v1.GET("/tickets/:chain/:contract/:token", handler.GetTicket)
		v1.POST("/tickets/:chain/:contract/:token/rebuild", middleware.Auth(authCfg), handler.RebuildTicket)
		v1.GET("/owners/:address/tickets", handler.ListTicketsByOwner)
		v1.GET("/events/:contract/tickets", handler.ListTicketsByEvent)

		// Marketplace and history (public read access)
		v1.GET("/listings", handler.ListListings)
		v1.GET("/transactions", handler.ListTransactions)

		v1.GET("/chains", handler.ListChains)
	}
}
