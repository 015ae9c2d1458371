package middleware

import (
	"context"
	"net/http"

	"github.com/estatehub/estatehub-admin/internal/crypto"
	"github.com/estatehub/estatehub-admin/internal/model"
)

// SessionCookie is the cookie carrying the admin session token.
const SessionCookie = "estatehub_session"

type contextKey string

const actorKey contextKey = "actor"

// AdminSession returns middleware that requires a valid admin session
// cookie. Requests without one are redirected to loginPath.
func AdminSession(secret, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			claims, err := crypto.ValidateToken(cookie.Value, secret)
			if err != nil || claims.Role != string(model.UserTypeAdmin) {
				ClearSession(w)
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			actor := model.Actor{UserID: claims.UserID, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// WithActor stores the acting admin in ctx.
func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the acting admin from the request context.
func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(model.Actor)
	return actor, ok
}

// SetSession writes the session cookie.
func SetSession(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/admin",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession expires the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
