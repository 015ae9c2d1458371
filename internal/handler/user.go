package handler

import (
	"fmt"
	"net/http"

	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/service"
)

// UserHandler serves the add-user screen.
type UserHandler struct {
	service *service.UserService
	view    *View
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, view *View) *UserHandler {
	return &UserHandler{service: svc, view: view}
}

func (h *UserHandler) page(r *http.Request) Page {
	return Page{Title: "Add user", Actor: actorPtr(r), UserTypes: model.UserTypes}
}

// HandleForm handles GET /admin/users/new requests.
func (h *UserHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, http.StatusOK, pageUser, h.page(r))
}

// HandleCreate handles POST /admin/users/new requests.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	page := h.page(r)

	r.Body = http.MaxBytesReader(w, r.Body, formBodyLimit)
	if err := r.ParseForm(); err != nil {
		status, msg := formReadFailure(err)
		page.Errors = []string{msg}
		h.view.render(w, status, pageUser, page)
		return
	}

	form := r.PostForm
	res, err := h.service.CreateUser(r.Context(), actor, model.UserInput{
		FirstName:       form.Get("first_name"),
		LastName:        form.Get("last_name"),
		Email:           form.Get("email"),
		Phone:           form.Get("phone"),
		UserType:        form.Get("user_type"),
		Password:        form.Get("password"),
		ConfirmPassword: form.Get("confirm_password"),
	})
	if err != nil {
		status, msgs := failure(r, err)
		page.Errors = msgs
		page.Form = retained(form)
		h.view.render(w, status, pageUser, page)
		return
	}

	page.Success = "User created successfully."
	if res.AgentID != 0 {
		page.Success += fmt.Sprintf(" An agent profile was added with license number %s.", res.LicenseNumber)
	}
	h.view.render(w, http.StatusOK, pageUser, page)
}
