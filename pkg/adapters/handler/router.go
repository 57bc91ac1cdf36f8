package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wadjakorntonsri/shortlinks/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(service ports.LinkService) http.Handler {
	h := NewHTTPHandler(service)

	r := mux.NewRouter()
	r.Use(RequestID, AccessLog, Recover)

	r.HandleFunc("/healthz", Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/links", h.List).Methods(http.MethodGet)
	api.HandleFunc("/links", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/links/{code}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/links/{code}", h.Delete).Methods(http.MethodDelete)

	// Registered last so the fixed paths above win.
	r.HandleFunc("/{code}", h.Redirect).Methods(http.MethodGet, http.MethodHead)

	r.NotFoundHandler = RequestID(AccessLog(http.HandlerFunc(notFound)))
	r.MethodNotAllowedHandler = RequestID(AccessLog(http.HandlerFunc(methodNotAllowed)))

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
}
