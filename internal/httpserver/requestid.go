package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PratikDhanave/event-ingest-service/internal/observability"
)

// RequestIDHeader correlates access logs, application logs and responses.
const RequestIDHeader = "X-Request-ID"

// RequestID keeps a caller supplied X-Request-ID or generates one, echoes it
// on the response and attaches it to the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
			c.Request.Header.Set(RequestIDHeader, id)
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
