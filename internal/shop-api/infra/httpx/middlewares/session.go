package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors/constants"
)

const SessionCookie = "cart_session"

// Session resolves the cart session from the cart_session cookie or the
// X-Session-ID header, minting a new one when neither is present.
func Session(ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := r.Header.Get(constants.HeaderXSessionID)
			if sid == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					sid = c.Value
				}
			}
			if _, err := uuid.Parse(sid); err != nil {
				sid = uuid.NewString()
			}

			cookie := &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			}
			if ttl > 0 {
				cookie.MaxAge = int(ttl.Seconds())
			}
			http.SetCookie(w, cookie)
			w.Header().Set(constants.HeaderXSessionID, sid)

			ctx := context.WithValue(r.Context(), constants.ContextKeySessionID, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the session resolved by Session.
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(constants.ContextKeySessionID).(string)
	return sid
}
