// Package middleware holds the gin middleware chain of the POS API.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"metapos/internal/core/apperror"
	"metapos/pkg/logger"
)

// Recovery converts a handler panic into an INTERNAL_ERROR response.
// The ledger mutex is released by the service's deferred Unlock before the panic gets here.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"error", r,
				"stack", string(debug.Stack()),
			)
			_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", r)))
			c.Abort()
		}()
		c.Next()
	}
}
