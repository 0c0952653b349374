package v1

import (
	"cmp"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/vmunix/controlroom/internal/events"
	"github.com/vmunix/controlroom/internal/library"
)

func (s *Server) syncHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit must be non-negative")
		return
	}
	const maxLimit = 200
	if limit > maxLimit {
		limit = maxLimit
	}

	kind := r.URL.Query().Get("kind")
	if kind != "" && !library.Kind(kind).Valid() {
		writeError(w, http.StatusBadRequest, "INVALID_KIND", "kind must be 'movies' or 'shows'")
		return
	}

	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be an RFC 3339 timestamp")
			return
		}
		since = t
	}

	if s.deps.EventLog == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
		return
	}

	var raw []events.RawEvent
	var err error
	if since.IsZero() {
		raw, err = s.deps.EventLog.Recent(kind, limit)
	} else {
		raw, err = s.eventsSince(since, kind, limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Items: s.historyItems(raw)})
}

// eventsSince returns events at or after t, newest first, capped at limit.
func (s *Server) eventsSince(t time.Time, kind string, limit int) ([]events.RawEvent, error) {
	all, err := s.deps.EventLog.Since(t)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	out := make([]events.RawEvent, 0, min(len(all), limit))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		if kind == "" || all[i].EntityType == kind {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// syncRun returns every event of one sync run, oldest first.
func (s *Server) syncRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runId")

	kinds := []library.Kind{library.KindMovies, library.KindShows}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		if !library.Kind(kind).Valid() {
			writeError(w, http.StatusBadRequest, "INVALID_KIND", "kind must be 'movies' or 'shows'")
			return
		}
		kinds = []library.Kind{library.Kind(kind)}
	}

	if s.deps.EventLog == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
		return
	}

	var raw []events.RawEvent
	for _, kind := range kinds {
		found, err := s.deps.EventLog.ForEntity(string(kind), runID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
			return
		}
		raw = append(raw, found...)
	}
	if len(raw) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Sync run not found")
		return
	}
	slices.SortFunc(raw, func(a, b events.RawEvent) int { return cmp.Compare(a.ID, b.ID) })

	writeJSON(w, http.StatusOK, historyResponse{Items: s.historyItems(raw)})
}

func (s *Server) historyItems(raw []events.RawEvent) []historyItem {
	items := make([]historyItem, len(raw))
	for i, e := range raw {
		item := historyItem{
			ID:         e.ID,
			Type:       e.EventType,
			EntityType: e.EntityType,
			RunID:      e.EntityID,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
		ev, err := s.deps.Registry.Unmarshal(e)
		switch {
		case err == nil:
			item.Details = ev
		case errors.Is(err, events.ErrUnknownEventType):
			s.log.Debug("event without details", "id", e.ID, "type", e.EventType)
		default:
			s.log.Warn("undecodable event", "id", e.ID, "error", err)
		}
		items[i] = item
	}
	return items
}
