package handler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLogin = "login"
	pageAgent = "agent_form"
	pageBlog  = "blog_form"
	pageUser  = "user_form"

	msgSaveFailed   = "The record could not be saved. Please try again."
	msgBadForm      = "The form could not be read. Please try again."
	msgFormTooLarge = "The submission is too large."

	formBodyLimit = 1 << 20 // 1MB
)

// passwordFields are never echoed back into a re-rendered form.
var passwordFields = []string{"password", "confirm_password"}

// Page is the data every admin template renders from.
type Page struct {
	Title    string
	Actor    *model.Actor
	Success  string
	Warnings []string
	Errors   []string
	Form     url.Values

	GeneratedPassword string
	UserTypes         []model.UserType
	Statuses          []model.PostStatus
	Categories        []model.Category
}

// Value returns the previously submitted value of a form field.
func (p Page) Value(name string) string {
	return p.Form.Get(name)
}

// Checked reports whether id was among the submitted values of name.
func (p Page) Checked(name string, id int64) bool {
	want := strconv.FormatInt(id, 10)
	for _, v := range p.Form[name] {
		if v == want {
			return true
		}
	}
	return false
}

// View renders the embedded admin templates.
type View struct {
	pages map[string]*template.Template
}

// NewView parses every page against the shared layout.
func NewView() (*View, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageLogin, pageAgent, pageBlog, pageUser} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return &View{pages: pages}, nil
}

func (v *View) render(w http.ResponseWriter, status int, name string, page Page) {
	t, ok := v.pages[name]
	if !ok {
		log.Error().Str("page", name).Msg("unknown template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		log.Error().Err(err).Str("page", name).Msg("render template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// retained copies submitted values minus passwords.
func retained(form url.Values) url.Values {
	kept := make(url.Values, len(form))
	for k, v := range form {
		kept[k] = append([]string(nil), v...)
	}
	for _, f := range passwordFields {
		delete(kept, f)
	}
	return kept
}

// failure maps a service error to a status code and the messages shown to
// the admin. Storage failures are logged and replaced by a generic message.
func failure(r *http.Request, err error) (int, []string) {
	var verr *service.ValidationError
	var cerr *service.ConflictError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, verr.Messages()
	case errors.As(err, &cerr):
		return http.StatusConflict, []string{cerr.Message}
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("create record failed")
		return http.StatusInternalServerError, []string{msgSaveFailed}
	}
}

// formReadFailure maps a body parsing error to a status and message.
func formReadFailure(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, msgFormTooLarge
	}
	return http.StatusBadRequest, msgBadForm
}

func actorPtr(r *http.Request) *model.Actor {
	actor, ok := actorFrom(r)
	if !ok {
		return nil
	}
	return &actor
}
