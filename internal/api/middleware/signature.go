package middleware

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-ticketing/internal/api/shared/errors"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/webhook"
)

const maxSignedBodyBytes = 1 << 20

// SignedOrAuth accepts requests carrying a valid webhook signature, and falls back to
// Auth for requests without one. A nil signer always falls back to Auth.
func SignedOrAuth(signer *webhook.Signer, cfg AuthConfig) gin.HandlerFunc {
	auth := Auth(cfg)

	return func(c *gin.Context) {
		signature := c.GetHeader(webhook.HeaderSignature)
		if signer == nil || signature == "" {
			auth(c)
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSignedBodyBytes+1))
		if err != nil {
			abort(c, apierrors.NewBadRequestError("Failed to read request body", err.Error()))
			return
		}
		if len(body) > maxSignedBodyBytes {
			abort(c, apierrors.NewBadRequestError("Request body too large"))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if err := signer.Verify(signature, c.GetHeader(webhook.HeaderTimestamp), body); err != nil {
			logger.WarnCtx(c.Request.Context(), "Webhook signature rejected",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			abort(c, apierrors.NewUnauthorizedError("Invalid signature", err.Error()))
			return
		}

		c.Set(string(AUTH_TYPE_KEY), "webhook")
		c.Next()
	}
}
