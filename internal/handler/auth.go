package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub-admin/internal/middleware"
	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/service"
)

const (
	LoginPath = "/admin/login"
	HomePath  = "/admin/agents/new"
)

// AuthHandler handles admin sign-in and sign-out.
type AuthHandler struct {
	service      *service.AuthService
	view         *View
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session
// cookie HTTPS-only.
func NewAuthHandler(svc *service.AuthService, view *View, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, view: view, secureCookie: secureCookie}
}

// HandleLoginForm handles GET /admin/login requests.
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, http.StatusOK, pageLogin, Page{Title: "Sign in"})
}

// HandleLogin handles POST /admin/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, formBodyLimit)
	if err := r.ParseForm(); err != nil {
		status, msg := formReadFailure(err)
		h.view.render(w, status, pageLogin, Page{Title: "Sign in", Errors: []string{msg}})
		return
	}

	token, actor, err := h.service.Login(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		page := Page{Title: "Sign in", Form: retained(r.PostForm)}
		if errors.Is(err, service.ErrInvalidCredentials) {
			page.Errors = []string{"Invalid email or password"}
			h.view.render(w, http.StatusUnauthorized, pageLogin, page)
			return
		}
		log.Error().Err(err).Msg("admin login failed")
		page.Errors = []string{"Sign in is unavailable right now. Please try again."}
		h.view.render(w, http.StatusInternalServerError, pageLogin, page)
		return
	}

	middleware.SetSession(w, token, int(h.service.SessionTTL().Seconds()), h.secureCookie)
	log.Info().Int64("user_id", actor.UserID).Msg("admin signed in")
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

// HandleLogout handles POST /admin/logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSession(w)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func actorFrom(r *http.Request) (model.Actor, bool) {
	return middleware.ActorFromContext(r.Context())
}

// requireActor returns the acting admin or redirects to the login page.
func requireActor(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	actor, ok := actorFrom(r)
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	}
	return actor, ok
}
