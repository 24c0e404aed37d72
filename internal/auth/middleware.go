package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/gdg-garage/events-api/internal/models"
)

type contextKey string

const (
	UserIDKey         contextKey = "user_id"
	sessionVersionKey contextKey = "session_version"
)

// SessionMiddleware puts the user id of a live session cookie into the request
// context and renews the cookie once less than half of its lifetime is left.
// Requests without a live session pass through untouched; operations that
// need a user reject them in Authorize.
func (h *AuthHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		s, err := h.parseToken(cookie.Value)
		if err != nil || !h.live(r.Context(), s) {
			next.ServeHTTP(w, r)
			return
		}

		// Sliding session: refresh token if it's more than halfway through its duration
		if time.Until(s.ExpiresAt) < TokenDuration/2 {
			if token, err := h.GenerateToken(s.UserID, s.Version); err == nil {
				renewed := sessionCookie(token)
				http.SetCookie(w, &renewed)
			}
		}

		ctx := context.WithValue(r.Context(), UserIDKey, s.UserID)
		ctx = context.WithValue(ctx, sessionVersionKey, s.Version)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// live reports whether the user of s still exists and has not logged out since s was issued.
func (h *AuthHandler) live(ctx context.Context, s session) bool {
	var user models.User
	err := h.db.WithContext(ctx).Select("id", "session_version").First(&user, s.UserID).Error
	return err == nil && user.SessionVersion == s.Version
}
