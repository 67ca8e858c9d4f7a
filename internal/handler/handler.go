package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mtlprog/internfinder/internal/apply"
	"github.com/mtlprog/internfinder/internal/catalog"
	"github.com/mtlprog/internfinder/internal/handler/dto"
	"github.com/mtlprog/internfinder/internal/middleware"
	"github.com/mtlprog/internfinder/internal/repository"
	"github.com/mtlprog/internfinder/internal/static"
	"github.com/mtlprog/internfinder/internal/view"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	sessions          *repository.SessionRepository
	catalog           *catalog.SkillCatalog
	renderer          *view.Renderer
	planner           *apply.Planner
	sessionMiddleware *middleware.SessionMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(sessions *repository.SessionRepository, c *catalog.SkillCatalog, renderer *view.Renderer, planner *apply.Planner) *Handler {
	return &Handler{
		sessions:          sessions,
		catalog:           c,
		renderer:          renderer,
		planner:           planner,
		sessionMiddleware: middleware.NewSessionMiddleware(sessions),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Static catalog
	mux.HandleFunc("GET /api/v1/catalog", h.handleCatalog)

	// Page routes with a visitor session
	mux.Handle("GET /{$}", h.withSession(h.handleIndex))
	mux.Handle("POST /education", h.withSession(h.handleEducation))
	mux.Handle("POST /skills/toggle", h.withSession(h.handleToggleSkill))
	mux.Handle("POST /skills/remove", h.withSession(h.handleRemoveSkill))
	mux.Handle("POST /submit", h.withSession(h.handleSubmit))
	mux.Handle("POST /apply", h.withSession(h.handleApply))

	// State reads never start a session
	mux.Handle("GET /api/v1/state", h.sessionMiddleware.Peek(http.HandlerFunc(h.handleState)))

	// Swagger UI
	mux.HandleFunc("GET /swagger/doc.json", h.handleOpenAPI)
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (h *Handler) withSession(fn http.HandlerFunc) http.Handler {
	return h.sessionMiddleware.Attach(fn)
}

// handleOpenAPI serves the embedded OpenAPI document.
func (h *Handler) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(static.OpenAPIJSON)
}

// handleHealthz returns 200 OK while the server is up.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Sessions: h.sessions.Len(),
	})
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err and writes it as a JSON error.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// wantsJSON reports whether the client asked for a JSON answer instead of
// the page.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || isJSONBody(r)
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// redirectHome finishes a page POST.
func redirectHome(w http.ResponseWriter, r *http.Request, fragment string) {
	target := "/"
	if fragment != "" {
		target += "#" + fragment
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
