package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"lireddit/internal/httputil"
	"lireddit/internal/session"
)

// SessionMiddleware resolves the qid cookie and puts the request Session in
// the context. Anonymous requests get an empty session; only a store
// failure aborts the request.
func SessionMiddleware(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, err := manager.Load(w, r)
			if err != nil {
				logrus.WithError(err).Error("[SessionMiddleware] Load FAILED")
				httputil.WriteInternalError(w, "Session store unavailable")
				return
			}

			ctx := session.NewContext(r.Context(), scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

