package v1

import (
	"errors"
	"net/http"

	"github.com/vmunix/controlroom/internal/diary"
)

func writeDiaryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, diary.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Entry not found")
	case errors.Is(err, diary.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
	}
}

func (req diaryRequest) input() diary.Input {
	return diary.Input{Title: req.Title, Content: req.Content, Category: req.Category, Tags: req.Tags}
}

func (s *Server) listDiary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := s.deps.Diary.List(r.Context(), currentUser(r), diary.Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	})
	if err != nil {
		writeDiaryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) createDiary(w http.ResponseWriter, r *http.Request) {
	var req diaryRequest
	if !s.decode(w, r, &req) {
		return
	}
	e, err := s.deps.Diary.Create(r.Context(), currentUser(r), req.input())
	if err != nil {
		writeDiaryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) updateDiary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	var req diaryRequest
	if !s.decode(w, r, &req) {
		return
	}
	e, err := s.deps.Diary.Update(r.Context(), currentUser(r), id, req.input())
	if err != nil {
		writeDiaryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteDiary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err := s.deps.Diary.Delete(r.Context(), currentUser(r), id); err != nil {
		writeDiaryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
