package handle

import (
	"net/http"

	"moyenne-bot/api/internal/catalog"
	"moyenne-bot/api/internal/i18n"
)

type subjectView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Coefficient float64 `json:"coefficient"`
}

type streamView struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Subjects []subjectView `json:"subjects"`
}

type levelView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Streams []streamView `json:"streams"`
}

type catalogResp struct {
	Lang   i18n.Lang   `json:"lang"`
	Dir    string      `json:"dir"`
	Levels []levelView `json:"levels"`
}

// requestLang takes ?lang= first, then Accept-Language.
func requestLang(r *http.Request) i18n.Lang {
	if q := r.URL.Query().Get("lang"); q != "" {
		return i18n.Match(q, i18n.Default)
	}
	return i18n.Match(r.Header.Get("Accept-Language"), i18n.Default)
}

// Catalog lists levels, streams and default subjects with names in one language.
func (h *Handle) Catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	lang := requestLang(r)
	resp := catalogResp{Lang: lang, Dir: lang.Dir()}
	for _, lvl := range catalog.Levels() {
		lv := levelView{ID: lvl.ID, Name: lvl.Name.In(lang)}
		for _, st := range lvl.Streams {
			sv := streamView{ID: st.ID, Name: st.Name.In(lang)}
			for _, sub := range st.DefaultSubjects {
				sv.Subjects = append(sv.Subjects, subjectView{
					ID:          sub.ID,
					Name:        sub.Name.In(lang),
					Coefficient: sub.Coefficient,
				})
			}
			lv.Streams = append(lv.Streams, sv)
		}
		resp.Levels = append(resp.Levels, lv)
	}
	writeJSON(w, http.StatusOK, resp)
}
