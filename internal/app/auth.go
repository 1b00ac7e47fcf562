package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// authRealm is announced on 401 responses from guarded diagnostics routes.
const authRealm = `Basic realm="titans-diagnostics"`

// metricsAuthMiddleware guards /metrics and /test-scrape with Basic Auth.
// When enabled is false every request passes through.
func metricsAuthMiddleware(enabled bool, username, password string) gin.HandlerFunc {
	wantUser := []byte(username)
	wantPass := []byte(password)

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		// Evaluate both comparisons so timing does not reveal which one failed.
		userMatch := subtle.ConstantTimeCompare([]byte(user), wantUser)
		passMatch := subtle.ConstantTimeCompare([]byte(pass), wantPass)
		if !ok || userMatch&passMatch != 1 {
			c.Header("WWW-Authenticate", authRealm)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
