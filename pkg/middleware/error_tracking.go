package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/handyhub/provider-stats/pkg/common"
	"github.com/handyhub/provider-stats/pkg/logger"
	"go.uber.org/zap"
)

// SentryMiddleware returns a middleware that integrates Sentry error tracking.
// Captures panics, 5xx responses, and request breadcrumbs.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// RecoveryWithSentry recovers from panics, reports them to Sentry, and
// returns a 500 response instead of dropping the connection.
func RecoveryWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				hub := sentrygin.GetHubFromContext(c)
				if hub == nil {
					hub = sentry.CurrentHub().Clone()
				}

				hub.Scope().SetRequest(c.Request)
				hub.Scope().SetContext("panic", map[string]interface{}{
					"value":      fmt.Sprintf("%v", err),
					"stacktrace": string(debug.Stack()),
				})
				hub.Recover(err)

				logger.ErrorContext(c.Request.Context(), "panic recovered",
					zap.Any("panic", err),
					zap.String("path", c.Request.URL.Path),
				)

				common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
