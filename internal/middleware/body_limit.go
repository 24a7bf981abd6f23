package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for form boundaries and small fields.
const multipartOverhead = 1 << 20

// BodyLimit caps request bodies at maxBytes plus multipart overhead. Reads
// beyond the cap fail with *http.MaxBytesError.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
		}
		c.Next()
	}
}
