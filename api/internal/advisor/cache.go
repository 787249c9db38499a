package advisor

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"moyenne-bot/api/internal/gpa"
	"moyenne-bot/api/internal/util"
)

// Cache stores advice per request hash and model.
// Find returns an error (usually sql.ErrNoRows) on a miss or when the entry
// is older than maxAge.
type Cache interface {
	Find(ctx context.Context, requestHash, model string, maxAge time.Duration) (Advice, error)
	Upsert(ctx context.Context, requestHash, model string, a Advice) error
}

// Cached answers repeated identical requests from Cache. Failed requests are
// not cached.
type Cached struct {
	Next   Advisor
	Cache  Cache
	MaxAge time.Duration
}

func (c *Cached) Name() string     { return c.Next.Name() }
func (c *Cached) GetModel() string { return c.Next.GetModel() }

func (c *Cached) Advise(ctx context.Context, req Request) (Advice, error) {
	h := RequestHash(req)
	model := c.Next.Name() + "/" + c.Next.GetModel()
	if a, err := c.Cache.Find(ctx, h, model, c.MaxAge); err == nil {
		return normalize(a), nil
	}
	a, err := c.Next.Advise(ctx, req)
	if err != nil {
		return Advice{}, err
	}
	if err := c.Cache.Upsert(ctx, h, model, a); err != nil {
		log.Printf("advisor: cache upsert: %v", err)
	}
	return a, nil
}

// RequestHash identifies a request by what the prompt depends on.
func RequestHash(req Request) string {
	type line struct {
		Name  string `json:"n"`
		Coeff string `json:"c"`
		Grade string `json:"g"`
	}
	key := struct {
		Lines  []line `json:"l"`
		Avg    string `json:"a"`
		Target string `json:"t"`
		Level  string `json:"lv"`
		Stream string `json:"s"`
		Lang   string `json:"lg"`
	}{
		Avg:    gpa.Format(req.CurrentAvg),
		Target: gpa.FormatGrade(req.TargetAvg),
		Level:  req.LevelName,
		Stream: req.StreamName,
		Lang:   string(req.Lang),
	}
	for _, s := range req.Subjects {
		if s.Grade == nil {
			continue
		}
		key.Lines = append(key.Lines, line{
			Name:  s.Name.EN,
			Coeff: gpa.FormatGrade(s.Coefficient),
			Grade: gpa.FormatGrade(*s.Grade),
		})
	}
	b, _ := json.Marshal(key)
	return util.SHA256Hex(b)
}
