package bot

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const (
	apiPrefix       = "/api/v1"
	maxRequestBytes = 1 << 20
)

// NewRouter exposes the engine over HTTP:
//
//	POST /api/v1/decide   WireRequest -> WireResponse
//	GET  /api/v1/weights  the weights in use
//	GET  /api/v1/health
func NewRouter(engine *Engine) http.Handler {
	r := mux.NewRouter()
	// Routes stay on the root router so a method mismatch answers 405.
	r.HandleFunc(apiPrefix+"/decide", engine.serveDecide).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/weights", engine.serveWeights).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	return r
}

func (e *Engine) serveDecide(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("could not read request", err))
		return
	}
	resp := e.handle(body)
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func (e *Engine) serveWeights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, e.weights)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("write-response")
	}
}
