package v1

import (
	"errors"
	"net/http"

	"github.com/vmunix/controlroom/internal/auth"
)

// writeAccountError maps auth errors to responses.
func (s *Server) writeAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "DUPLICATE", "Username already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
	case errors.Is(err, auth.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, "WRONG_PASSWORD", "Current password is incorrect")
	case errors.Is(err, auth.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many login attempts")
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
	default:
		s.log.Error("account operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.deps.Accounts.Register(r.Context(), auth.Registration{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
		Birthday: timePtr(req.Birthday),
	})
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	token, u, err := s.deps.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	s.deps.Auth.SetCookie(w, token)
	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", User: u})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.deps.Auth.ClearCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.deps.Accounts.Me(r.Context(), currentUser(r))
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.deps.Accounts.UpdateProfile(r.Context(), currentUser(r), auth.Profile{
		Name:     req.Name,
		Surname:  req.Surname,
		Birthday: timePtr(req.Birthday),
	})
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteMe(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Accounts.DeleteAccount(r.Context(), currentUser(r)); err != nil {
		s.writeAccountError(w, err)
		return
	}
	s.deps.Auth.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.deps.Accounts.ChangePassword(r.Context(), currentUser(r), req.CurrentPassword, req.NewPassword); err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password changed"})
}
