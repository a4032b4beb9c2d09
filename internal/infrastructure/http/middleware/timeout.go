package middleware

import (
	"context"
	"net/http"

	"3tcapital/ms_namqr_core/internal/infrastructure/config"
)

// BatchTimeout wraps a handler to apply an extended timeout for voucher batch
// endpoints. Generating a full batch can take far longer than the default
// WriteTimeout, so the extended timeout is applied to the request context.
func BatchTimeout(cfg config.HTTPSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Note: this extends the context deadline, but the server's own
			// WriteTimeout still applies and must be sized accordingly.
			ctx, cancel := context.WithTimeout(r.Context(), cfg.WriteTimeoutBatch)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
