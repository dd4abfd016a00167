package httpx

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ViewCookieName holds the id of the browser's board view state.
const ViewCookieName = "board_view"

// ViewCookieConfig configures the view identity middleware.
type ViewCookieConfig struct {
	Domain string
	// TTL matches the view state TTL so the cookie does not outlive the state it names.
	TTL time.Duration
}

// ViewIdentity assigns every browser a view id. A missing or malformed cookie gets a fresh
// uuid; the id is refreshed on each response so active views keep their cookie.
func ViewIdentity(cfg ViewCookieConfig) Middleware {
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Hour
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookieValue(r, ViewCookieName)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			http.SetCookie(w, &http.Cookie{
				Name:     ViewCookieName,
				Value:    id,
				Path:     "/",
				Domain:   cfg.Domain,
				HttpOnly: true,
				Secure:   isSecureRequest(r),
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(cfg.TTL / time.Second),
			})
			next.ServeHTTP(w, r.WithContext(SetViewIDInContext(r.Context(), id)))
		})
	}
}
