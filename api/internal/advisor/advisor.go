// Package advisor asks a language model for study advice about a set of grades.
package advisor

import (
	"context"
	"log"
	"strings"

	"moyenne-bot/api/internal/catalog"
	"moyenne-bot/api/internal/i18n"
)

// Request is everything the model sees about the student.
type Request struct {
	Subjects   []catalog.Subject
	CurrentAvg float64
	TargetAvg  float64
	LevelName  string
	StreamName string
	Lang       i18n.Lang
}

type Advice struct {
	Analysis      string   `json:"analysis"`
	Tips          []string `json:"tips"`
	Encouragement string   `json:"encouragement"`
}

type Advisor interface {
	Name() string
	GetModel() string
	Advise(ctx context.Context, req Request) (Advice, error)
}

// Fallback is shown when the model cannot be reached or answers garbage.
func Fallback(lang i18n.Lang) Advice {
	return Advice{
		Analysis:      i18n.AdviceError.In(lang),
		Tips:          []string{},
		Encouragement: "",
	}
}

// Ask never fails: any error from a is logged and replaced with Fallback.
func Ask(ctx context.Context, a Advisor, req Request) Advice {
	if a == nil {
		log.Printf("advisor: no engine configured")
		return Fallback(req.Lang)
	}
	adv, err := a.Advise(ctx, req)
	if err != nil {
		log.Printf("advisor %s (%s): %v", a.Name(), a.GetModel(), err)
		return Fallback(req.Lang)
	}
	if strings.TrimSpace(adv.Analysis) == "" {
		log.Printf("advisor %s (%s): empty analysis", a.Name(), a.GetModel())
		return Fallback(req.Lang)
	}
	return adv
}

func normalize(a Advice) Advice {
	if a.Tips == nil {
		a.Tips = []string{}
	}
	return a
}
