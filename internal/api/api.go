// Package api serves the career tree over HTTP as JSON.
package api

import (
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/abhisek/careertree/internal/tracker"
)

// userRe validates user ids taken from the path.
var userRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

// maxBodySize bounds request bodies. Answers are the largest payload.
const maxBodySize = 64 * 1024

// Personalization calls an external model, so each client gets a small
// budget of them.
const (
	personalizeLimit  = 5
	personalizeWindow = time.Minute
)

// Server holds the HTTP handlers.
type Server struct {
	tracker *tracker.Tracker
	logger  *slog.Logger
	limiter *RateLimiter
}

// New creates a Server. A nil logger means slog.Default().
func New(t *tracker.Tracker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{tracker: t, logger: logger, limiter: NewRateLimiter(personalizeLimit, personalizeWindow)}
}

// RegisterRoutes adds every route to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/questionnaire", s.handleQuestionnaire)

	mux.HandleFunc("GET /api/users/{user}/catalog", s.withUser(s.handleCatalog))
	mux.HandleFunc("GET /api/users/{user}/tree", s.withUser(s.handleTree))
	mux.HandleFunc("GET /api/users/{user}/nodes/{node}", s.withUser(s.handleNode))
	mux.HandleFunc("GET /api/users/{user}/progress", s.withUser(s.handleProgress))
	mux.HandleFunc("GET /api/users/{user}/history", s.withUser(s.handleHistory))
	mux.HandleFunc("POST /api/users/{user}/complete", s.withUser(s.handleComplete))
	mux.HandleFunc("POST /api/users/{user}/start", s.withUser(s.handleStart))
	mux.HandleFunc("POST /api/users/{user}/personalize",
		RateLimitMiddleware(s.limiter, s.withUser(s.handlePersonalize)))
}

// Handler returns the routes wrapped in the standard middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return SecurityHeaders(s.logRequests(mux))
}

// withUser rejects malformed user ids before the handler runs.
func (s *Server) withUser(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.PathValue("user")
		if !userRe.MatchString(user) {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid user id")
			return
		}
		next(w, r, user)
	}
}
