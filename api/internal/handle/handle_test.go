package handle

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"moyenne-bot/api/internal/advisor"
	"moyenne-bot/api/internal/i18n"
	"moyenne-bot/api/internal/session"
	"moyenne-bot/api/internal/store"
)

type stubAdvisor struct {
	advice advisor.Advice
	err    error
	got    advisor.Request
}

func (s *stubAdvisor) Name() string     { return "stub" }
func (s *stubAdvisor) GetModel() string { return "test" }
func (s *stubAdvisor) Advise(_ context.Context, req advisor.Request) (advisor.Advice, error) {
	s.got = req
	return s.advice, s.err
}

func newServer(t *testing.T, adv advisor.Advisor) (*httptest.Server, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	h := New(kv, adv, time.Second)
	h.now = func() time.Time { return time.UnixMilli(1760000000000) }
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, kv
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestCatalog(t *testing.T) {
	srv, _ := newServer(t, nil)

	var got catalogResp
	if code := do(t, http.MethodGet, srv.URL+"/v1/catalog?lang=fr", "", &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.Lang != i18n.FR || got.Dir != "ltr" {
		t.Fatalf("lang/dir = %s/%s", got.Lang, got.Dir)
	}
	if len(got.Levels) == 0 || got.Levels[0].ID != "cem_1" || got.Levels[0].Name != "1ère Année Moyenne (CEM)" {
		t.Fatalf("first level = %+v", got.Levels[0])
	}
	if len(got.Levels[0].Streams[0].Subjects) == 0 {
		t.Fatal("no subjects")
	}

	var ar catalogResp
	do(t, http.MethodGet, srv.URL+"/v1/catalog", "", &ar)
	if ar.Lang != i18n.AR || ar.Dir != "rtl" {
		t.Fatalf("default lang = %s/%s", ar.Lang, ar.Dir)
	}

	if code := do(t, http.MethodPost, srv.URL+"/v1/catalog", "", nil); code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status = %d", code)
	}
}

func TestAverage(t *testing.T) {
	srv, _ := newServer(t, nil)

	tests := []struct {
		name      string
		body      string
		code      int
		avg       float64
		formatted string
		graded    int
	}{
		{
			name:      "weighted",
			body:      `{"subjects":[{"id":"a","coefficient":3,"grade":12},{"id":"b","coefficient":2,"grade":8}]}`,
			code:      200,
			avg:       10.4,
			formatted: "10.40",
			graded:    2,
		},
		{
			name:      "ungraded ignored",
			body:      `{"subjects":[{"id":"a","coefficient":3,"grade":15},{"id":"b","coefficient":5}]}`,
			code:      200,
			avg:       15,
			formatted: "15.00",
			graded:    1,
		},
		{
			name:      "clamped",
			body:      `{"subjects":[{"id":"a","coefficient":1,"grade":25}]}`,
			code:      200,
			avg:       20,
			formatted: "20.00",
			graded:    1,
		},
		{name: "empty", body: `{"subjects":[]}`, code: 200, formatted: "0.00"},
		{name: "zero coefficient", body: `{"subjects":[{"id":"a","coefficient":0,"grade":10}]}`, code: 400},
		{name: "bad json", body: `{`, code: 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got averageResp
			var out any = &got
			if tt.code != 200 {
				out = nil
			}
			if code := do(t, http.MethodPost, srv.URL+"/v1/average", tt.body, out); code != tt.code {
				t.Fatalf("status = %d want %d", code, tt.code)
			}
			if tt.code != 200 {
				return
			}
			if math.Abs(got.Average-tt.avg) > 1e-9 || got.Formatted != tt.formatted || got.Graded != tt.graded {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestValidationErrorsNameFields(t *testing.T) {
	srv, _ := newServer(t, &stubAdvisor{})

	var got struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	code := do(t, http.MethodPost, srv.URL+"/v1/average", `{"subjects":[{"id":"a","coefficient":3},{"id":"b","coefficient":-1}]}`, &got)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if _, ok := got.Fields["subjects[1].coefficient"]; !ok || len(got.Fields) != 1 {
		t.Fatalf("fields = %v", got.Fields)
	}

	got.Fields = nil
	code = do(t, http.MethodPost, srv.URL+"/v1/advice", `{"streamId":"math"}`, &got)
	if code != http.StatusBadRequest {
		t.Fatalf("advice status = %d", code)
	}
	if _, ok := got.Fields["levelId"]; !ok {
		t.Fatalf("advice fields = %v", got.Fields)
	}
}

func TestAdvice(t *testing.T) {
	adv := &stubAdvisor{advice: advisor.Advice{Analysis: "fine", Tips: []string{"x"}, Encouragement: "go"}}
	srv, _ := newServer(t, adv)

	body := `{"levelId":"lyc_3","streamId":"math","lang":"en","targetAvg":"16",
		"subjects":[{"id":"math","coefficient":7,"grade":14},{"id":"robot","name":"Robotics","coefficient":1,"grade":18}]}`
	var got advisor.Advice
	if code := do(t, http.MethodPost, srv.URL+"/v1/advice", body, &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.Analysis != "fine" {
		t.Fatalf("advice = %+v", got)
	}
	if adv.got.Lang != i18n.EN || adv.got.TargetAvg != 16 || adv.got.StreamName != "Mathematics" {
		t.Fatalf("request = %+v", adv.got)
	}
	if adv.got.Subjects[0].Name.EN != "Mathematics" || adv.got.Subjects[1].Name.EN != "Robotics" || !adv.got.Subjects[1].IsCustom {
		t.Fatalf("subject names = %+v", adv.got.Subjects)
	}
	if math.Abs(adv.got.CurrentAvg-14.5) > 1e-9 {
		t.Fatalf("current avg = %v", adv.got.CurrentAvg)
	}
}

func TestAdviceFallbackIsStill200(t *testing.T) {
	srv, _ := newServer(t, &stubAdvisor{err: errors.New("quota")})

	var got advisor.Advice
	code := do(t, http.MethodPost, srv.URL+"/v1/advice", `{"levelId":"cem_1","streamId":"cem_common","lang":"fr"}`, &got)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.Analysis != i18n.AdviceError.In(i18n.FR) || got.Tips == nil || len(got.Tips) != 0 {
		t.Fatalf("fallback = %+v", got)
	}
}

func TestAdviceUnknownStream(t *testing.T) {
	srv, _ := newServer(t, &stubAdvisor{})
	if code := do(t, http.MethodPost, srv.URL+"/v1/advice", `{"levelId":"lyc_3","streamId":"nope"}`, nil); code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	srv, kv := newServer(t, nil)
	url := srv.URL + "/v1/session/alice"

	if code := do(t, http.MethodGet, url, "", nil); code != http.StatusNotFound {
		t.Fatalf("empty slot status = %d", code)
	}

	put := `{"levelId":"cem_4","streamId":"cem_common","targetAvg":15,
		"subjects":[{"id":"math","name":{"ar":"ر","fr":"M","en":"Math"},"coefficient":4,"grade":31}]}`
	var saved session.Snapshot
	if code := do(t, http.MethodPut, url, put, &saved); code != http.StatusOK {
		t.Fatalf("put status = %d", code)
	}
	if saved.TargetAvg != "15" || saved.Timestamp != 1760000000000 || *saved.Subjects[0].Grade != 20 {
		t.Fatalf("saved = %+v", saved)
	}
	if _, ok, _ := kv.Get(context.Background(), session.SlotKey(session.APIScope("alice"))); !ok {
		t.Fatal("slot not written")
	}

	var got session.Snapshot
	if code := do(t, http.MethodGet, url, "", &got); code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if got.LevelID != "cem_4" || len(got.Subjects) != 1 || got.Subjects[0].Name.EN != "Math" {
		t.Fatalf("loaded = %+v", got)
	}

	if code := do(t, http.MethodGet, srv.URL+"/v1/session/bob", "", nil); code != http.StatusNotFound {
		t.Fatal("slots are not isolated")
	}

	if code := do(t, http.MethodDelete, url, "", nil); code != http.StatusNoContent {
		t.Fatalf("delete status = %d", code)
	}
	if code := do(t, http.MethodGet, url, "", nil); code != http.StatusNotFound {
		t.Fatalf("after delete status = %d", code)
	}
}

func TestSessionRejectsInvalid(t *testing.T) {
	srv, kv := newServer(t, nil)
	url := srv.URL + "/v1/session/x"

	if code := do(t, http.MethodPut, url, `{"levelId":"lyc_9","streamId":"s"}`, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown level status = %d", code)
	}
	if code := do(t, http.MethodPut, url, `not json`, nil); code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", code)
	}
	if code := do(t, http.MethodPatch, url, "", nil); code != http.StatusMethodNotAllowed {
		t.Fatalf("patch status = %d", code)
	}

	// corrupted storage reads as no data
	_ = kv.Set(context.Background(), session.SlotKey(session.APIScope("x")), "{broken")
	if code := do(t, http.MethodGet, url, "", nil); code != http.StatusNotFound {
		t.Fatalf("corrupted slot status = %d", code)
	}
}

func TestSessionPutRejectsBrokenSubjects(t *testing.T) {
	srv, kv := newServer(t, nil)
	url := srv.URL + "/v1/session/s1"

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "negative coefficient",
			body:  `{"levelId":"cem_1","streamId":"cem_common","subjects":[{"id":"a","coefficient":2,"grade":20},{"id":"b","coefficient":-1,"grade":0}]}`,
			field: "subjects[1].coefficient",
		},
		{
			name:  "duplicate id",
			body:  `{"levelId":"cem_1","streamId":"cem_common","subjects":[{"id":"a","coefficient":2,"grade":20},{"id":"a","coefficient":1,"grade":0}]}`,
			field: "subjects",
		},
		{
			name:  "missing id",
			body:  `{"levelId":"cem_1","streamId":"cem_common","subjects":[{"coefficient":2}]}`,
			field: "subjects[0].id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Fields map[string]string `json:"fields"`
			}
			if code := do(t, http.MethodPut, url, tt.body, &got); code != http.StatusBadRequest {
				t.Fatalf("status = %d", code)
			}
			if _, ok := got.Fields[tt.field]; !ok {
				t.Fatalf("fields = %v want %s", got.Fields, tt.field)
			}
		})
	}
	if _, ok, _ := kv.Get(context.Background(), session.SlotKey(session.APIScope("s1"))); ok {
		t.Fatal("rejected body was stored")
	}
}

func TestSessionSlotsDoNotReachChats(t *testing.T) {
	srv, kv := newServer(t, nil)

	chat := session.NewStore(kv, session.SlotKey(session.ChatScope(424242)))
	if err := chat.Save(context.Background(), session.Snapshot{LevelID: "cem_1", StreamID: "cem_common", TargetAvg: "17"}); err != nil {
		t.Fatal(err)
	}

	url := srv.URL + "/v1/session/424242"
	if code := do(t, http.MethodGet, url, "", nil); code != http.StatusNotFound {
		t.Fatalf("get status = %d", code)
	}
	if code := do(t, http.MethodDelete, url, "", nil); code != http.StatusNoContent {
		t.Fatalf("delete status = %d", code)
	}
	if !chat.Exists(context.Background()) {
		t.Fatal("chat session deleted through the API")
	}
}
