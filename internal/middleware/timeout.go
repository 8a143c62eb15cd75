package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout bounds the request context. Database calls made with it are cancelled at the deadline.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if d <= 0 {
			ctx.Next()
			return
		}

		c, cancel := context.WithTimeout(ctx.Request.Context(), d)
		defer cancel()

		ctx.Request = ctx.Request.WithContext(c)
		ctx.Next()
	}
}
