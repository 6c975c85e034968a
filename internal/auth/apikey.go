package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// FunctionKeyHeader carries the function key, as on Azure Functions.
	FunctionKeyHeader = "x-functions-key"
	// FunctionKeyQuery is the query parameter alternative to the header.
	FunctionKeyQuery = "code"
)

// FunctionKeyMiddleware rejects requests that do not present one of keys.
// Used when the service runs outside the Functions host, which otherwise
// enforces the key itself.
func FunctionKeyMiddleware(keys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := strings.TrimSpace(c.GetHeader(FunctionKeyHeader))
		if presented == "" {
			presented = strings.TrimSpace(c.Query(FunctionKeyQuery))
		}
		if presented == "" || !validKey(keys, presented) {
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func validKey(keys []string, presented string) bool {
	ok := false
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(presented)) == 1 {
			ok = true
		}
	}
	return ok
}
