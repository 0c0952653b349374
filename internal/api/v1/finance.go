package v1

import (
	"errors"
	"net/http"

	"github.com/vmunix/controlroom/internal/finance"
)

func writeFinanceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, finance.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Transaction not found")
	case errors.Is(err, finance.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
	}
}

func (req transactionRequest) input() finance.Input {
	return finance.Input{
		Amount:             req.Amount,
		Description:        req.Description,
		Type:               finance.Type(req.Type),
		Date:               req.Date.Time,
		IsRecurring:        req.IsRecurring,
		RecurrenceInterval: finance.Interval(req.RecurrenceInterval),
		RecurrenceEndDate:  timePtr(req.RecurrenceEndDate),
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Finance.List(r.Context(), currentUser(r))
	if err != nil {
		writeFinanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) transactionSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.deps.Finance.Summary(r.Context(), currentUser(r))
	if err != nil {
		writeFinanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !s.decode(w, r, &req) {
		return
	}
	t, err := s.deps.Finance.Create(r.Context(), currentUser(r), req.input())
	if err != nil {
		writeFinanceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	var req transactionRequest
	if !s.decode(w, r, &req) {
		return
	}
	t, err := s.deps.Finance.Update(r.Context(), currentUser(r), id, req.input())
	if err != nil {
		writeFinanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err := s.deps.Finance.Delete(r.Context(), currentUser(r), id); err != nil {
		writeFinanceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
