package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// getUsers handles GET /api/users.
func (s *Server) getUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userRepo.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, usersEnvelope{Users: users})
}

// getUserByUsername handles GET /api/users/{username}.
func (s *Server) getUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := s.userRepo.GetByUsername(r.Context(), username)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userEnvelope{User: user})
}
