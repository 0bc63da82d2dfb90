package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quillpost/quill/utils"
)

// Metrics records request counts and latency per route template.
func Metrics(m *utils.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}
