// Package handle serves the calculator over JSON HTTP.
package handle

import (
	"encoding/json"
	"net/http"
	"time"

	"moyenne-bot/api/internal/advisor"
	"moyenne-bot/api/internal/session"
)

type Handle struct {
	kv            session.KV
	adv           advisor.Advisor
	adviceTimeout time.Duration
	now           func() time.Time
}

func New(kv session.KV, adv advisor.Advisor, adviceTimeout time.Duration) *Handle {
	if adviceTimeout <= 0 {
		adviceTimeout = 70 * time.Second
	}
	return &Handle{
		kv:            kv,
		adv:           adv,
		adviceTimeout: adviceTimeout,
		now:           time.Now,
	}
}

// Register mounts the API routes on mux.
func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/catalog", h.Catalog)
	mux.HandleFunc("/v1/average", h.Average)
	mux.HandleFunc("/v1/advice", h.Advice)
	mux.HandleFunc("/v1/session/{slot}", h.Session)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// maxBody bounds request bodies; a full session is a few KB.
const maxBody = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return false
	}
	return true
}
