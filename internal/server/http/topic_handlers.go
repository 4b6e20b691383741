package httpserver

import "net/http"

// getTopics handles GET /api/topics.
func (s *Server) getTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.topicRepo.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, topicsEnvelope{Topics: topics})
}
