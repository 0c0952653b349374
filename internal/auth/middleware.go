package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

type ctxKey struct{}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user id stored by Require.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

// Authenticator resolves the session cookie to a user id.
type Authenticator struct {
	tokens     *TokenManager
	cookieName string
	secure     bool
	log        *slog.Logger
}

// NewAuthenticator creates an Authenticator. cookieName defaults to "token".
func NewAuthenticator(tokens *TokenManager, cookieName string, secure bool, log *slog.Logger) *Authenticator {
	if cookieName == "" {
		cookieName = "token"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Authenticator{
		tokens:     tokens,
		cookieName: cookieName,
		secure:     secure,
		log:        log.With("component", "auth"),
	}
}

// CookieName returns the session cookie name.
func (a *Authenticator) CookieName() string { return a.cookieName }

// CurrentUser validates the session cookie of r.
func (a *Authenticator) CurrentUser(r *http.Request) (int64, bool) {
	c, err := r.Cookie(a.cookieName)
	if err != nil || c.Value == "" {
		return 0, false
	}
	id, err := a.tokens.Validate(c.Value)
	if err != nil {
		if errorIsExpired(err) {
			a.log.Debug("session expired")
		} else {
			a.log.Debug("session rejected", "error", err)
		}
		return 0, false
	}
	return id, true
}

// Require rejects anonymous requests with 401 and stores the user id in the
// request context for next.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.CurrentUser(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "authentication required",
				"code":  "UNAUTHORIZED",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}

// SetCookie writes the session cookie.
func (a *Authenticator) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie expires the session cookie.
func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
