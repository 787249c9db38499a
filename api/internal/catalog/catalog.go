// Package catalog holds the static Algerian education system: levels, their
// streams and the default subjects with official coefficients.
package catalog

import (
	"errors"
	"fmt"

	"moyenne-bot/api/internal/i18n"
)

var (
	ErrUnknownLevel  = errors.New("unknown level")
	ErrUnknownStream = errors.New("unknown stream")
)

type Subject struct {
	ID          string    `json:"id"`
	Name        i18n.Text `json:"name"`
	Coefficient float64   `json:"coefficient"`
	Grade       *float64  `json:"grade,omitempty"` // /20, nil = not graded yet
	IsCustom    bool      `json:"isCustom,omitempty"`
}

// Graded reports whether the subject takes part in the average.
func (s Subject) Graded() bool { return s.Grade != nil }

type Stream struct {
	ID              string    `json:"id"`
	Name            i18n.Text `json:"name"`
	DefaultSubjects []Subject `json:"defaultSubjects"`
}

// Subjects returns a fresh, ungraded copy of the default subject list.
func (s *Stream) Subjects() []Subject {
	return CloneSubjects(s.DefaultSubjects)
}

type Level struct {
	ID      string    `json:"id"`
	Name    i18n.Text `json:"name"`
	Streams []Stream  `json:"streams"`
}

// SingleStream is true for levels without specialization (CEM).
func (l *Level) SingleStream() bool { return len(l.Streams) == 1 }

func (l *Level) Stream(id string) (*Stream, bool) {
	for i := range l.Streams {
		if l.Streams[i].ID == id {
			return &l.Streams[i], true
		}
	}
	return nil, false
}

// Levels returns the catalog in display order. Callers must not modify it.
func Levels() []Level { return educationSystem }

func FindLevel(id string) (*Level, bool) {
	for i := range educationSystem {
		if educationSystem[i].ID == id {
			return &educationSystem[i], true
		}
	}
	return nil, false
}

// Resolve looks up a (level, stream) pair. Stream ids are only unique inside
// their level ("cem_common" is shared by every CEM year).
func Resolve(levelID, streamID string) (*Level, *Stream, error) {
	lvl, ok := FindLevel(levelID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownLevel, levelID)
	}
	st, ok := lvl.Stream(streamID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q in level %q", ErrUnknownStream, streamID, levelID)
	}
	return lvl, st, nil
}

// CloneSubjects deep-copies a subject list, grades included.
func CloneSubjects(in []Subject) []Subject {
	out := make([]Subject, len(in))
	for i, s := range in {
		if s.Grade != nil {
			g := *s.Grade
			s.Grade = &g
		}
		out[i] = s
	}
	return out
}
