package handle

import (
	"context"
	"errors"
	"net/http"

	"moyenne-bot/api/internal/advisor"
	"moyenne-bot/api/internal/catalog"
	"moyenne-bot/api/internal/gpa"
	"moyenne-bot/api/internal/i18n"
)

type adviceReq struct {
	LevelID   string    `json:"levelId" validate:"required"`
	StreamID  string    `json:"streamId" validate:"required"`
	Subjects  []gradeIn `json:"subjects" validate:"max=64,dive"`
	TargetAvg string    `json:"targetAvg" validate:"max=16"`
	Lang      string    `json:"lang" validate:"max=35"`
}

// Advice asks the advisor about the posted grades. Once the request is
// valid the answer is always 200: advisor failures come back as the
// localized fallback.
func (h *Handle) Advice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req adviceReq
	if !decodeBody(w, r, &req) || !checkRequest(w, &req) {
		return
	}
	lvl, stream, err := catalog.Resolve(req.LevelID, req.StreamID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	subs := toSubjects(req.Subjects)
	if len(subs) == 0 {
		subs = stream.Subjects()
	}
	nameSubjects(subs, req.Subjects, stream)

	lang := requestLang(r)
	if req.Lang != "" {
		lang = i18n.Match(req.Lang, i18n.Default)
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.adviceTimeout)
	defer cancel()

	adv := advisor.Ask(ctx, h.adv, advisor.Request{
		Subjects:   subs,
		CurrentAvg: gpa.Average(subs),
		TargetAvg:  gpa.ParseTarget(req.TargetAvg),
		LevelName:  lvl.Name.In(lang),
		StreamName: stream.Name.In(lang),
		Lang:       lang,
	})
	if errors.Is(r.Context().Err(), context.Canceled) {
		return
	}
	writeJSON(w, http.StatusOK, adv)
}

// nameSubjects fills catalog names for known ids; anything else is a custom
// subject named by the client.
func nameSubjects(subs []catalog.Subject, in []gradeIn, stream *catalog.Stream) {
	known := make(map[string]i18n.Text, len(stream.DefaultSubjects))
	for _, d := range stream.DefaultSubjects {
		known[d.ID] = d.Name
	}
	for i := range subs {
		if n, ok := known[subs[i].ID]; ok {
			subs[i].Name = n
			continue
		}
		name := ""
		if i < len(in) {
			name = in[i].Name
		}
		if name == "" {
			subs[i].Name = i18n.CustomSubject
		} else {
			subs[i].Name = i18n.Same(name)
		}
		subs[i].IsCustom = true
	}
}
