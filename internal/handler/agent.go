package handler

import (
	"net/http"

	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/service"
)

// AgentHandler serves the add-agent screen.
type AgentHandler struct {
	service *service.AgentService
	view    *View
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(svc *service.AgentService, view *View) *AgentHandler {
	return &AgentHandler{service: svc, view: view}
}

// HandleForm handles GET /admin/agents/new requests.
func (h *AgentHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, http.StatusOK, pageAgent, Page{Title: "Add agent", Actor: actorPtr(r)})
}

// HandleCreate handles POST /admin/agents/new requests.
func (h *AgentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	page := Page{Title: "Add agent", Actor: &actor}

	r.Body = http.MaxBytesReader(w, r.Body, formBodyLimit)
	if err := r.ParseForm(); err != nil {
		status, msg := formReadFailure(err)
		page.Errors = []string{msg}
		h.view.render(w, status, pageAgent, page)
		return
	}

	form := r.PostForm
	res, err := h.service.CreateAgent(r.Context(), actor, model.AgentInput{
		FirstName:       form.Get("first_name"),
		LastName:        form.Get("last_name"),
		Email:           form.Get("email"),
		Phone:           form.Get("phone"),
		Password:        form.Get("password"),
		LicenseNumber:   form.Get("license_number"),
		Brokerage:       form.Get("brokerage"),
		ExperienceYears: form.Get("experience_years"),
		Specialties:     form.Get("specialties"),
	})
	if err != nil {
		status, msgs := failure(r, err)
		page.Errors = msgs
		page.Form = retained(form)
		h.view.render(w, status, pageAgent, page)
		return
	}

	page.Success = "Agent created successfully."
	page.GeneratedPassword = res.GeneratedPassword
	h.view.render(w, http.StatusOK, pageAgent, page)
}
