package handle

import (
	"net/http"

	"moyenne-bot/api/internal/catalog"
	"moyenne-bot/api/internal/gpa"
)

type gradeIn struct {
	ID          string   `json:"id" validate:"max=64"`
	Name        string   `json:"name,omitempty" validate:"max=100"`
	Coefficient float64  `json:"coefficient" validate:"gt=0,lte=100"`
	Grade       *float64 `json:"grade"`
}

type averageReq struct {
	Subjects []gradeIn `json:"subjects" validate:"max=64,dive"`
}

type averageResp struct {
	gpa.Summary
	Formatted string `json:"formatted"`
	Passing   bool   `json:"passing"`
}

// toSubjects clamps grades into [0,20]; coefficients are already validated.
func toSubjects(in []gradeIn) []catalog.Subject {
	out := make([]catalog.Subject, 0, len(in))
	for _, s := range in {
		sub := catalog.Subject{ID: s.ID, Coefficient: s.Coefficient}
		if s.Grade != nil {
			g := gpa.ClampGrade(*s.Grade)
			sub.Grade = &g
		}
		out = append(out, sub)
	}
	return out
}

// Average computes the weighted average of the posted subjects. Ungraded
// subjects are ignored.
func (h *Handle) Average(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req averageReq
	if !decodeBody(w, r, &req) || !checkRequest(w, &req) {
		return
	}
	sum := gpa.Summarize(toSubjects(req.Subjects))
	writeJSON(w, http.StatusOK, averageResp{
		Summary:   sum,
		Formatted: gpa.Format(sum.Average),
		Passing:   gpa.Passing(sum.Average),
	})
}
