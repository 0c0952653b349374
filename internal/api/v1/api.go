// Package v1 implements the controlroom JSON API.
package v1

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/vmunix/controlroom/internal/auth"
	"github.com/vmunix/controlroom/internal/events"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server is the v1 API server.
type Server struct {
	deps     ServerDeps
	validate *validator.Validate
	log      *slog.Logger
}

// New creates a new API server, validating that required dependencies are present.
func New(deps ServerDeps, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if deps.EventLog != nil && deps.Registry == nil {
		deps.Registry = events.DefaultRegistry()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		deps:     deps,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With("component", "api"),
	}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler { return s.deps.Auth.Require(h) }

	// Accounts
	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("POST /api/auth/logout", s.logout)
	mux.Handle("GET /api/auth/me", authed(s.getMe))
	mux.Handle("PUT /api/auth/me", authed(s.updateMe))
	mux.Handle("DELETE /api/auth/me", authed(s.deleteMe))
	mux.Handle("PUT /api/auth/password", authed(s.changePassword))

	// Media library
	mux.Handle("GET /api/v1/movies", authed(s.listMovies))
	mux.Handle("GET /api/v1/movies/{plexId}", authed(s.getMovie))
	mux.Handle("POST /api/v1/movies/sync", authed(s.requirePlex(s.syncMovies)))
	mux.Handle("GET /api/v1/shows", authed(s.listShows))
	mux.Handle("GET /api/v1/shows/{plexId}", authed(s.getShow))
	mux.Handle("POST /api/v1/shows/sync", authed(s.requirePlex(s.syncShows)))
	mux.Handle("GET /api/v1/media/stats", authed(s.mediaStats))
	mux.Handle("GET /api/v1/sync/history", authed(s.syncHistory))
	mux.Handle("GET /api/v1/sync/history/{runId}", authed(s.syncRun))
	mux.Handle("GET /api/v1/plex/status", authed(s.plexStatus))

	// Diary
	mux.Handle("GET /api/v1/diary", authed(s.listDiary))
	mux.Handle("POST /api/v1/diary", authed(s.createDiary))
	mux.Handle("PUT /api/v1/diary/{id}", authed(s.updateDiary))
	mux.Handle("DELETE /api/v1/diary/{id}", authed(s.deleteDiary))

	// Notes
	mux.Handle("GET /api/v1/notes", authed(s.listNotes))
	mux.Handle("POST /api/v1/notes", authed(s.createNote))
	mux.Handle("PUT /api/v1/notes/{id}", authed(s.updateNote))
	mux.Handle("DELETE /api/v1/notes/{id}", authed(s.deleteNote))

	// Finance
	mux.Handle("GET /api/v1/transactions", authed(s.listTransactions))
	mux.Handle("POST /api/v1/transactions", authed(s.createTransaction))
	mux.Handle("GET /api/v1/transactions/summary", authed(s.transactionSummary))
	mux.Handle("PUT /api/v1/transactions/{id}", authed(s.updateTransaction))
	mux.Handle("DELETE /api/v1/transactions/{id}", authed(s.deleteTransaction))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.logRequests(mux)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// decode reads a JSON body into dst and validates its struct tags.
// It writes the error response and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		return false
	}
	return true
}

// validationMessage flattens validator errors into "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, idStr)
	}
	return id, nil
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// currentUser returns the id stored by the auth middleware.
func currentUser(r *http.Request) int64 {
	id, _ := auth.UserID(r.Context())
	return id
}
