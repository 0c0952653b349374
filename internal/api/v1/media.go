package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/mediasync"
)

func listFilter(r *http.Request) library.Filter {
	return library.Filter{
		Query:  r.URL.Query().Get("q"),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}
}

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	f := listFilter(r)
	if f.Limit < 0 || f.Offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}
	items, total, err := s.deps.Library.ListMovies(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listMoviesResponse{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset})
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	m, err := s.deps.Library.GetMovie(r.Context(), r.PathValue("plexId"))
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) listShows(w http.ResponseWriter, r *http.Request) {
	f := listFilter(r)
	if f.Limit < 0 || f.Offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}
	items, total, err := s.deps.Library.ListShows(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listShowsResponse{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset})
}

func (s *Server) getShow(w http.ResponseWriter, r *http.Request) {
	sh, err := s.deps.Library.GetShow(r.Context(), r.PathValue("plexId"))
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Show not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

func (s *Server) mediaStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Library.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) syncMovies(w http.ResponseWriter, r *http.Request) {
	s.runSync(w, r, library.KindMovies)
}

func (s *Server) syncShows(w http.ResponseWriter, r *http.Request) {
	s.runSync(w, r, library.KindShows)
}

func (s *Server) runSync(w http.ResponseWriter, r *http.Request, kind library.Kind) {
	requestedBy := strconv.FormatInt(currentUser(r), 10)
	res, err := s.deps.Syncer.Sync(r.Context(), kind, requestedBy)
	switch {
	case errors.Is(err, mediasync.ErrSyncInProgress):
		writeError(w, http.StatusConflict, "SYNC_IN_PROGRESS", fmt.Sprintf("A %s sync is already running", kind))
		return
	case errors.Is(err, mediasync.ErrFetchFailed):
		writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "SYNC_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{
		Success:    true,
		Message:    syncMessage(kind, res),
		Result:     res,
		DurationMS: res.Duration.Milliseconds(),
	})
}

func syncMessage(kind library.Kind, res *mediasync.Result) string {
	msg := fmt.Sprintf("Synced %d %s: %d inserted, %d updated, %d unchanged, %d removed",
		res.Fetched, kind, res.Inserted, res.Updated, res.Unchanged, res.Pruned)
	if res.Skipped > 0 {
		msg += fmt.Sprintf("; %d skipped after fetch errors", res.Skipped)
	}
	return msg
}

func (s *Server) plexStatus(w http.ResponseWriter, r *http.Request) {
	resp := plexStatusResponse{
		Configured: s.deps.Plex != nil,
		Syncing:    map[string]bool{},
	}
	if s.deps.Syncer != nil {
		for _, k := range []library.Kind{library.KindMovies, library.KindShows} {
			resp.Syncing[string(k)] = s.deps.Syncer.Running(k)
		}
	}
	if s.deps.Plex != nil {
		id, err := s.deps.Plex.Identity(r.Context())
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Reachable = true
			resp.Name = id.Name
			resp.Version = id.Version
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
