package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HeikonSilva/spotify-dashboard/internal/db/models"
	"github.com/HeikonSilva/spotify-dashboard/internal/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger records each API request to the request_logs table and
// tags the request context with an ID for log correlation.
func RequestLogger(db *gorm.DB) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := logging.GenerateRequestID()
			ctx := logging.WithRequestID(r.Context(), reqID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))
			elapsed := time.Since(start)

			entry := models.RequestLog{
				ID:        uuid.New().String(),
				Timestamp: start.UnixMilli(),
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    rec.status,
				Duration:  elapsed.Milliseconds(),
			}
			if err := db.Create(&entry).Error; err != nil {
				log.Printf("⚠️ [%s] Failed to record request log: %v", reqID, err)
			}
		})
	}
}
