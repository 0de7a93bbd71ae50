package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/censusgap-backend/internal/observability"
	"github.com/yungbote/censusgap-backend/internal/platform/ctxutil"
)

const callerAnonymous = "anonymous"

// Metrics records request counts and latency per route. Requests are also
// labelled with the kind of token that authenticated them, which is only
// known after the route's auth middleware has run.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(observability.APIObservation{
			Method:   c.Request.Method,
			Route:    route,
			Status:   strconv.Itoa(c.Writer.Status()),
			Caller:   callerOf(c),
			Duration: time.Since(start),
		})
	}
}

func callerOf(c *gin.Context) string {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.TokenKind == "" {
		return callerAnonymous
	}
	return rd.TokenKind
}
