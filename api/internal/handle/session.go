package handle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"moyenne-bot/api/internal/catalog"
	"moyenne-bot/api/internal/gpa"
	"moyenne-bot/api/internal/session"
)

type sessionSubjectIn struct {
	ID          string  `json:"id" validate:"required,max=64"`
	Coefficient float64 `json:"coefficient" validate:"gt=0,lte=100"`
}

// sessionReq is the validated view of a PUT body; the snapshot itself is
// decoded separately so numeric targets stay accepted.
type sessionReq struct {
	LevelID  string             `json:"levelId" validate:"required,max=32"`
	StreamID string             `json:"streamId" validate:"required,max=32"`
	Subjects []sessionSubjectIn `json:"subjects" validate:"max=64,unique=ID,dive"`
}

// Session reads (GET), overwrites (PUT) or clears (DELETE) the saved session of one slot.
func (h *Handle) Session(w http.ResponseWriter, r *http.Request) {
	slot := strings.TrimSpace(r.PathValue("slot"))
	if slot == "" {
		writeError(w, http.StatusBadRequest, "slot is required")
		return
	}
	st := session.NewStore(h.kv, session.SlotKey(session.APIScope(slot)))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		snap, err := st.Load(ctx)
		switch {
		case errors.Is(err, session.ErrNoData), errors.Is(err, session.ErrStale):
			writeError(w, http.StatusNotFound, "no saved session")
		case err != nil:
			log.Printf("handle: load session %s: %v", slot, err)
			writeError(w, http.StatusInternalServerError, "storage error")
		default:
			writeJSON(w, http.StatusOK, snap)
		}

	case http.MethodPut:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad body: "+err.Error())
			return
		}
		var req sessionReq
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if !checkRequest(w, &req) {
			return
		}
		snap, err := session.DecodeSnapshot(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if _, _, err := catalog.Resolve(snap.LevelID, snap.StreamID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		for i := range snap.Subjects {
			if g := snap.Subjects[i].Grade; g != nil {
				c := gpa.ClampGrade(*g)
				snap.Subjects[i].Grade = &c
			}
		}
		if snap.Timestamp == 0 {
			snap.Timestamp = h.now().UnixMilli()
		}
		if err := st.Save(ctx, snap); err != nil {
			log.Printf("handle: save session %s: %v", slot, err)
			writeError(w, http.StatusInternalServerError, "storage error")
			return
		}
		writeJSON(w, http.StatusOK, snap)

	case http.MethodDelete:
		err := st.Clear(ctx)
		switch {
		case errors.Is(err, errors.ErrUnsupported):
			writeError(w, http.StatusMethodNotAllowed, "storage cannot delete")
		case err != nil:
			log.Printf("handle: clear session %s: %v", slot, err)
			writeError(w, http.StatusInternalServerError, "storage error")
		default:
			w.WriteHeader(http.StatusNoContent)
		}

	default:
		writeError(w, http.StatusMethodNotAllowed, "GET, PUT or DELETE only")
	}
}
