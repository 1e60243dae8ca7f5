package middleware

import (
	"net/http"

	"github.com/mkravets/cutout-server/internal/logger"
)

// Recover is the outermost request boundary: unclassified panics are logged
// and converted to a generic failure so no raw internal error reaches the
// response.
type Recover struct {
	logger *logger.Logger
}

// NewRecover creates a new Recover middleware.
func NewRecover(logger *logger.Logger) *Recover {
	return &Recover{logger: logger}
}

func (m *Recover) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.logger.Error("panic while handling request",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec)
				http.Error(w, "Something went wrong. Please try again later.", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
