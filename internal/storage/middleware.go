package storage

import (
	"net/http"

	"bookreview/internal/httpx"

	"go.uber.org/zap"
)

// Middleware binds one session to each request.
func Middleware(p Provider, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := p.Acquire(r.Context())
			if err != nil {
				logger.Error("acquire storage session",
					zap.Error(err),
					zap.String("request_id", httpx.RequestIDFrom(r)),
				)
				httpx.JSONInternalError(w, r)
				return
			}
			defer s.Release()

			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), s)))
		})
	}
}
