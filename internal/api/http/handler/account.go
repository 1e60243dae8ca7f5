package handler

import (
	"errors"
	"net/http"

	"github.com/mkravets/cutout-server/internal/model"
)

// LoginPage renders the login form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", pageData{LoggedIn: h.sessions.State(r).Authenticated})
}

// Login handles the login form submission.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.accounts.Login(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailNotVerified):
			h.flashAndRedirect(w, r, "warning",
				"Your email is not verified. Please check your inbox and verify your email before logging in.",
				"/login")
		case errors.Is(err, model.ErrAccountLocked):
			h.flashAndRender(w, r, "danger",
				"Your account is locked due to too many failed login attempts.",
				"login.html", pageData{})
		case errors.Is(err, model.ErrInvalidCredentials):
			h.flashAndRender(w, r, "danger",
				"Invalid credentials. Please try again.",
				"login.html", pageData{})
		default:
			h.logger.Error("login failed", "username", username, "error", err.Error())
			h.flashAndRender(w, r, "danger",
				"Login service temporarily unavailable. Please try again later.",
				"login.html", pageData{})
		}
		return
	}

	if err := h.sessions.SetUser(w, r, user.ID, user.Email); err != nil {
		h.logger.Error("failed to bind session", "user_id", user.ID, "error", err.Error())
		h.flashAndRender(w, r, "danger",
			"Login service temporarily unavailable. Please try again later.",
			"login.html", pageData{})
		return
	}

	h.flashAndRedirect(w, r, "success", "Login successful", "/")
}

// RegisterPage renders the signup form.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.html", pageData{LoggedIn: h.sessions.State(r).Authenticated})
}

// Register handles the signup form submission.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	email := r.PostFormValue("email")

	err := h.accounts.Register(r.Context(), username, password, email)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidEmail):
			h.flashAndRender(w, r, "danger", "Invalid email format.", "signup.html", pageData{})
		case errors.Is(err, model.ErrUsernameTaken):
			h.flashAndRender(w, r, "danger",
				"Username already exists. Please choose another one.",
				"signup.html", pageData{})
		case errors.Is(err, model.ErrVerificationRequest):
			h.flashAndRender(w, r, "danger",
				"Email verification failed. Please try again.",
				"signup.html", pageData{})
		case errors.Is(err, model.ErrPersistence):
			h.flashAndRender(w, r, "danger",
				"An error occurred during registration. Please try again.",
				"signup.html", pageData{})
		default:
			h.logger.Error("registration failed", "username", username, "error", err.Error())
			h.flashAndRender(w, r, "danger", genericFailureMessage, "signup.html", pageData{})
		}
		return
	}

	if err := h.sessions.AddFlash(w, r, "success", "Verification email sent. Please check your inbox."); err != nil {
		h.logger.Error("failed to save flash", "error", err.Error())
	}
	h.flashAndRedirect(w, r, "success",
		"Registration successful. Please verify your email before logging in.",
		"/login")
}

// Logout clears the session identity and anonymous counter.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.logger.Error("failed to clear session", "error", err.Error())
	}
	h.flashAndRedirect(w, r, "success", "You have been logged out.", "/")
}
