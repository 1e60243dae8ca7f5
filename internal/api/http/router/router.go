package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkravets/cutout-server/internal/api/http/handler"
	"github.com/mkravets/cutout-server/internal/api/http/middleware"
	"github.com/mkravets/cutout-server/internal/logger"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler *handler.Handler
	logger  *logger.Logger
}

// New creates a new Router instance.
func New(h *handler.Handler, logger *logger.Logger) *Router {
	return &Router{
		handler: h,
		logger:  logger,
	}
}

// Register builds the mux with all routes and middleware.
func (r *Router) Register() *mux.Router {
	m := mux.NewRouter()

	recoverMW := middleware.NewRecover(r.logger)
	logging := middleware.NewLogging(r.logger)
	m.Use(recoverMW.Handle, logging.Handle)

	m.HandleFunc("/", r.handler.Index).Methods(http.MethodGet)
	m.HandleFunc("/", r.handler.Upload).Methods(http.MethodPost)
	m.HandleFunc("/login", r.handler.LoginPage).Methods(http.MethodGet)
	m.HandleFunc("/login", r.handler.Login).Methods(http.MethodPost)
	m.HandleFunc("/register", r.handler.RegisterPage).Methods(http.MethodGet)
	m.HandleFunc("/register", r.handler.Register).Methods(http.MethodPost)
	m.HandleFunc("/logout", r.handler.Logout).Methods(http.MethodGet)
	m.HandleFunc("/download/{filename}", r.handler.Download).Methods(http.MethodGet)
	m.HandleFunc("/change-background/{filename}", r.handler.ChangeBackground).Methods(http.MethodGet)
	m.HandleFunc("/apply-background", r.handler.ApplyBackground).Methods(http.MethodPost)
	m.HandleFunc("/upload-background", r.handler.UploadBackground).Methods(http.MethodPost)

	return m
}
