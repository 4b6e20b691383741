package httpserver

import (
	_ "embed"
	"encoding/json"
	"net/http"
)

// endpointsDoc is the static API description served on GET /api, compiled
// into the binary so the handler never touches the filesystem.
//
//go:embed endpoints.json
var endpointsDoc []byte

type endpointsEnvelope struct {
	Endpoints json.RawMessage `json:"endpoints"`
}

// getEndpoints handles GET /api.
func (s *Server) getEndpoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, endpointsEnvelope{Endpoints: endpointsDoc})
}
