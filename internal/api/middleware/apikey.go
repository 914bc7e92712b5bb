package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/khatib49/Scan-ocr/internal/api/dto"
)

// APIKeyHeader is the header clients send the key in.
const APIKeyHeader = "X-API-Key"

// APIKey returns middleware that rejects requests whose X-API-Key header
// does not match the configured key. An empty configured key disables
// the check entirely. Comparison is constant time.
func APIKey(key string) func(http.Handler) http.Handler {
	want := []byte(key)
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(APIKeyHeader))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(dto.UnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
