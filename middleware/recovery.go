package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"main/utils"
)

// RecoveryMiddleware converts panics into a plain 500. The panic value
// is logged server-side only; it may contain request internals.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				utils.TrackError("http", "panic")
				log.Printf("Panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}
