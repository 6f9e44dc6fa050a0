package middleware

import (
	"net/http"
	"time"

	"github.com/mssola/user_agent"

	"github.com/vieerr/dearmom-backend/internal/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AccessLog logs every request with its status, duration and the client
// browser/OS parsed from the User-Agent header.
func AccessLog(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			ua := user_agent.New(r.UserAgent())
			browser, _ := ua.Browser()

			log.Info("%s %s %d %s ip=%s browser=%s os=%s",
				r.Method,
				r.URL.Path,
				rec.status,
				time.Since(start),
				clientIP(r),
				browser,
				ua.OS(),
			)
		})
	}
}
