package advisor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"

	"moyenne-bot/api/internal/catalog"
	"moyenne-bot/api/internal/i18n"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int
	got   string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.calls++
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.got = string(t)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(f.text)}},
		}},
	}, nil
}

type nopCloser struct{ closed bool }

func (c *nopCloser) Close() error { c.closed = true; return nil }

func engineWith(gen *fakeGenerator, closer *nopCloser) *GeminiEngine {
	e := NewGemini("key", "gemini-2.5-flash")
	e.newModel = func(context.Context) (generator, io.Closer, error) {
		if closer == nil {
			return gen, nil, nil
		}
		return gen, closer, nil
	}
	return e
}

func grade(v float64) *float64 { return &v }

func sampleRequest(lang i18n.Lang) Request {
	return Request{
		Subjects: []catalog.Subject{
			{ID: "math", Name: i18n.T("الرياضيات", "Mathématiques", "Mathematics"), Coefficient: 7, Grade: grade(12.5)},
			{ID: "phys", Name: i18n.T("الفيزياء", "Physique", "Physics"), Coefficient: 6, Grade: grade(9)},
			{ID: "sport", Name: i18n.T("رياضة", "Sport", "Physical Education"), Coefficient: 1},
		},
		CurrentAvg: 10.884615,
		TargetAvg:  15,
		LevelName:  "3ème Année Secondaire (BAC)",
		StreamName: "Mathématiques",
		Lang:       lang,
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sampleRequest(i18n.FR))
	for _, want := range []string{
		"- Mathematics (Coeff: 7): 12.5/20",
		"- Physics (Coeff: 6): 9/20",
		"- Current GPA: 10.88/20",
		"- Target Goal: 15/20",
		"- Level: 3ème Année Secondaire (BAC)",
		"in French language",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q\n%s", want, p)
		}
	}
	if strings.Contains(p, "Physical Education") {
		t.Error("ungraded subject listed in prompt")
	}
}

func TestGeminiAdvise(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n{\"analysis\":\"Bon niveau\",\"tips\":[\"a\",\"b\",\"c\"],\"encouragement\":\"Courage\"}\n```"}
	closer := &nopCloser{}
	e := engineWith(gen, closer)

	adv, err := e.Advise(context.Background(), sampleRequest(i18n.FR))
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	if adv.Analysis != "Bon niveau" || len(adv.Tips) != 3 || adv.Encouragement != "Courage" {
		t.Fatalf("unexpected advice %+v", adv)
	}
	if gen.calls != 1 {
		t.Fatalf("calls = %d want 1", gen.calls)
	}
	if !closer.closed {
		t.Fatal("client not closed")
	}
	if !strings.Contains(gen.got, "Subject Breakdown") {
		t.Fatal("prompt not sent")
	}
}

func TestGeminiAdviseMissingTips(t *testing.T) {
	e := engineWith(&fakeGenerator{text: `{"analysis":"x","encouragement":"y"}`}, nil)
	adv, err := e.Advise(context.Background(), sampleRequest(i18n.EN))
	if err != nil {
		t.Fatal(err)
	}
	if adv.Tips == nil {
		t.Fatal("tips should default to an empty slice")
	}
}

func TestGeminiAdviseFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "transport error", gen: &fakeGenerator{err: errors.New("unavailable")}},
		{name: "empty response", gen: &fakeGenerator{text: "   "}},
		{name: "not json", gen: &fakeGenerator{text: "I cannot help with that"}},
		{name: "empty object", gen: &fakeGenerator{text: "{}"}},
		{name: "blank analysis", gen: &fakeGenerator{text: `{"analysis":"  ","tips":["t"],"encouragement":"go"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := engineWith(tt.gen, nil)
			if _, err := e.Advise(context.Background(), sampleRequest(i18n.EN)); err == nil {
				t.Fatal("expected error")
			}
			if tt.gen.calls != 1 {
				t.Fatalf("calls = %d, failures must not be retried", tt.gen.calls)
			}
		})
	}
}

func TestAskEmptyAnalysisFallsBack(t *testing.T) {
	e := engineWith(&fakeGenerator{text: "{}"}, nil)
	got := Ask(context.Background(), e, sampleRequest(i18n.FR))
	if got.Analysis != i18n.AdviceError.In(i18n.FR) || got.Tips == nil {
		t.Fatalf("advice = %+v", got)
	}
}

func TestGeminiEmptyKey(t *testing.T) {
	e := NewGemini(" ", "gemini-2.5-flash")
	if _, err := e.Advise(context.Background(), sampleRequest(i18n.EN)); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestAskFallsBack(t *testing.T) {
	e := engineWith(&fakeGenerator{err: errors.New("boom")}, nil)

	ar := Ask(context.Background(), e, sampleRequest(i18n.AR))
	if ar.Analysis != i18n.AdviceError.In(i18n.AR) || len(ar.Tips) != 0 || ar.Tips == nil || ar.Encouragement != "" {
		t.Fatalf("unexpected fallback %+v", ar)
	}
	en := Ask(context.Background(), e, sampleRequest(i18n.EN))
	if en.Analysis != "Error analyzing results." {
		t.Fatalf("english fallback = %q", en.Analysis)
	}
	if got := Ask(context.Background(), nil, sampleRequest(i18n.FR)); got.Analysis != i18n.AdviceError.In(i18n.FR) {
		t.Fatalf("nil advisor fallback = %+v", got)
	}
}

type memCache struct {
	m       map[string]Advice
	upserts int
}

func (c *memCache) Find(_ context.Context, h, model string, _ time.Duration) (Advice, error) {
	if a, ok := c.m[h+model]; ok {
		return a, nil
	}
	return Advice{}, errors.New("miss")
}

func (c *memCache) Upsert(_ context.Context, h, model string, a Advice) error {
	c.upserts++
	c.m[h+model] = a
	return nil
}

func TestCached(t *testing.T) {
	gen := &fakeGenerator{text: `{"analysis":"ok","tips":["t"],"encouragement":"go"}`}
	cache := &memCache{m: map[string]Advice{}}
	c := &Cached{Next: engineWith(gen, nil), Cache: cache, MaxAge: time.Hour}

	req := sampleRequest(i18n.EN)
	for i := 0; i < 3; i++ {
		adv, err := c.Advise(context.Background(), req)
		if err != nil || adv.Analysis != "ok" {
			t.Fatalf("advise #%d: %+v %v", i, adv, err)
		}
	}
	if gen.calls != 1 || cache.upserts != 1 {
		t.Fatalf("calls=%d upserts=%d want 1/1", gen.calls, cache.upserts)
	}

	// a different language is a different request
	if _, err := c.Advise(context.Background(), sampleRequest(i18n.AR)); err != nil {
		t.Fatal(err)
	}
	if gen.calls != 2 {
		t.Fatalf("calls = %d want 2", gen.calls)
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	cache := &memCache{m: map[string]Advice{}}
	c := &Cached{Next: engineWith(&fakeGenerator{err: errors.New("down")}, nil), Cache: cache}
	if _, err := c.Advise(context.Background(), sampleRequest(i18n.EN)); err == nil {
		t.Fatal("expected error")
	}
	if cache.upserts != 0 {
		t.Fatal("failure was cached")
	}
}

func TestRequestHashIgnoresUngraded(t *testing.T) {
	a := sampleRequest(i18n.EN)
	b := sampleRequest(i18n.EN)
	b.Subjects = b.Subjects[:2]
	if RequestHash(a) != RequestHash(b) {
		t.Fatal("ungraded subject changed the hash")
	}
	b.Subjects[0].Grade = grade(13)
	if RequestHash(a) == RequestHash(b) {
		t.Fatal("grade change did not change the hash")
	}
}
