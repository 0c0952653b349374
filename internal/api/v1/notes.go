package v1

import (
	"errors"
	"net/http"

	"github.com/vmunix/controlroom/internal/notes"
)

func writeNoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notes.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Note not found")
	case errors.Is(err, notes.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
	}
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Notes.List(r.Context(), currentUser(r))
	if err != nil {
		writeNoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.deps.Notes.Create(r.Context(), currentUser(r), req.SessionDate.Time, req.Content)
	if err != nil {
		writeNoteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	var req noteRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.deps.Notes.Update(r.Context(), currentUser(r), id, req.SessionDate.Time, req.Content)
	if err != nil {
		writeNoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err := s.deps.Notes.Delete(r.Context(), currentUser(r), id); err != nil {
		writeNoteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
