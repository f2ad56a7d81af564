// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware logs each HTTP request's method, path, duration and remote
// address once the handler returns. For WebSocket upgrades that means one
// line when the connection finally closes, which doubles as a session-length
// record.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path
			method := r.Method

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   method,
				"path":     path,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Info("HTTP Request")
		})
	}
}

// LogWebSocketConnect logs a successful WebSocket upgrade.
func LogWebSocketConnect(logger *logrus.Logger, remoteAddr string, path string) {
	logger.WithFields(logrus.Fields{
		"remote": remoteAddr,
		"path":   path,
	}).Info("WebSocket connected")
}

// LogWebSocketDisconnect logs a WebSocket closure, with the read error that
// ended the connection when there was one.
func LogWebSocketDisconnect(logger *logrus.Logger, remoteAddr string, path string, err error) {
	fields := logrus.Fields{
		"remote": remoteAddr,
		"path":   path,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("WebSocket disconnected")
}
