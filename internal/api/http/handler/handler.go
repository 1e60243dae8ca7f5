// Package handler implements the HTML-rendering HTTP handlers. Handlers
// translate service errors into flash notices; internal detail never reaches
// the response.
package handler

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/mkravets/cutout-server/internal/logger"
	"github.com/mkravets/cutout-server/internal/service"
	"github.com/mkravets/cutout-server/internal/session"
	"github.com/mkravets/cutout-server/web"
)

// genericFailureMessage is shown for store and upstream failures.
const genericFailureMessage = "Service temporarily unavailable. Please try again later."

type Handler struct {
	accounts  *service.Account
	images    *service.Image
	sessions  *session.Manager
	templates *template.Template
	logger    *logger.Logger
}

func New(
	accounts *service.Account,
	images *service.Image,
	sessions *session.Manager,
	logger *logger.Logger,
) (*Handler, error) {
	templates, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handler{
		accounts:  accounts,
		images:    images,
		sessions:  sessions,
		templates: templates,
		logger:    logger,
	}, nil
}

// pageData is the payload handed to every template.
type pageData struct {
	LoggedIn    bool
	Flashes     []session.Flash
	ImgURL      string
	Filename    string
	Backgrounds []string
}

// render executes a template with drained flash notices. Flashes mutate the
// session cookie, so they are collected before the body is written.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.Flashes = append(h.sessions.Flashes(w, r), data.Flashes...)

	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err.Error())
		http.Error(w, "Something went wrong.", http.StatusInternalServerError)
	}
}

// flashAndRedirect queues a notice and redirects.
func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, category, message, location string) {
	if err := h.sessions.AddFlash(w, r, category, message); err != nil {
		h.logger.Error("failed to save flash", "error", err.Error())
	}
	http.Redirect(w, r, location, http.StatusFound)
}

// flashAndRender queues a notice and renders a template in place.
func (h *Handler) flashAndRender(w http.ResponseWriter, r *http.Request, category, message, name string, data pageData) {
	data.Flashes = append(data.Flashes, session.Flash{Message: message, Category: category})
	h.render(w, r, name, data)
}
