package session

import (
	"strings"
	"time"

	"moyenne-bot/api/internal/catalog"
	"moyenne-bot/api/internal/gpa"
	"moyenne-bot/api/internal/i18n"
)

// State is everything the calculator UI shows. It is a value: Reduce never
// mutates its input.
type State struct {
	Lang      i18n.Lang
	LevelID   string
	StreamID  string
	Subjects  []catalog.Subject
	TargetAvg string
}

func New(lang i18n.Lang) State {
	return State{Lang: lang}
}

// Action is one user intent.
type Action interface{ isAction() }

type (
	SelectLevel  struct{ LevelID string }
	SelectStream struct{ StreamID string }
	// SetGrade with non-numeric Raw clears the grade.
	SetGrade struct{ SubjectID, Raw string }
	// SetCoefficient is ignored unless Raw is a positive number.
	SetCoefficient struct{ SubjectID, Raw string }
	// AddCustomSubject: ID is generated by the caller so Reduce stays pure.
	AddCustomSubject struct{ ID string }
	RenameSubject    struct{ SubjectID, Name string }
	RemoveSubject    struct{ SubjectID string }
	RestoreDefaults  struct{}
	SetTarget        struct{ Raw string }
	SetLanguage      struct{ Lang i18n.Lang }
	Reset            struct{}
	Resume           struct{ Snapshot Snapshot }
)

func (SelectLevel) isAction()      {}
func (SelectStream) isAction()     {}
func (SetGrade) isAction()         {}
func (SetCoefficient) isAction()   {}
func (AddCustomSubject) isAction() {}
func (RenameSubject) isAction()    {}
func (RemoveSubject) isAction()    {}
func (RestoreDefaults) isAction()  {}
func (SetTarget) isAction()        {}
func (SetLanguage) isAction()      {}
func (Reset) isAction()            {}
func (Resume) isAction()           {}

// Reduce returns the state after applying a. Invalid actions (unknown ids,
// bad numbers) return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SelectLevel:
		lvl, ok := catalog.FindLevel(a.LevelID)
		if !ok {
			return s
		}
		next := State{Lang: s.Lang, LevelID: lvl.ID, TargetAvg: s.TargetAvg}
		if lvl.SingleStream() {
			return Reduce(next, SelectStream{StreamID: lvl.Streams[0].ID})
		}
		return next

	case SelectStream:
		_, st, err := catalog.Resolve(s.LevelID, a.StreamID)
		if err != nil {
			return s
		}
		s.StreamID = st.ID
		s.Subjects = st.Subjects()
		return s

	case SetGrade:
		return s.updateSubject(a.SubjectID, func(sub *catalog.Subject) bool {
			sub.Grade = gpa.ParseGrade(a.Raw)
			return true
		})

	case SetCoefficient:
		c, ok := gpa.ParseCoefficient(a.Raw)
		if !ok {
			return s
		}
		return s.updateSubject(a.SubjectID, func(sub *catalog.Subject) bool {
			sub.Coefficient = c
			return true
		})

	case AddCustomSubject:
		if s.StreamID == "" || a.ID == "" || s.indexOf(a.ID) >= 0 {
			return s
		}
		subs := catalog.CloneSubjects(s.Subjects)
		s.Subjects = append(subs, catalog.Subject{
			ID:          a.ID,
			Name:        i18n.NewSubject,
			Coefficient: 1,
			IsCustom:    true,
		})
		return s

	case RenameSubject:
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return s
		}
		return s.updateSubject(a.SubjectID, func(sub *catalog.Subject) bool {
			if !sub.IsCustom {
				return false
			}
			sub.Name = i18n.Same(name)
			return true
		})

	case RemoveSubject:
		i := s.indexOf(a.SubjectID)
		if i < 0 {
			return s
		}
		subs := make([]catalog.Subject, 0, len(s.Subjects)-1)
		subs = append(subs, catalog.CloneSubjects(s.Subjects[:i])...)
		subs = append(subs, catalog.CloneSubjects(s.Subjects[i+1:])...)
		s.Subjects = subs
		return s

	case RestoreDefaults:
		_, st, err := catalog.Resolve(s.LevelID, s.StreamID)
		if err != nil {
			return s
		}
		s.Subjects = st.Subjects()
		return s

	case SetTarget:
		s.TargetAvg = strings.TrimSpace(a.Raw)
		return s

	case SetLanguage:
		if _, ok := i18n.Parse(string(a.Lang)); ok {
			s.Lang = a.Lang
		}
		return s

	case Reset:
		return State{Lang: s.Lang, TargetAvg: s.TargetAvg}

	case Resume:
		snap := a.Snapshot
		if _, _, err := catalog.Resolve(snap.LevelID, snap.StreamID); err != nil {
			return s
		}
		subs := catalog.CloneSubjects(snap.Subjects)
		return State{
			Lang:      s.Lang,
			LevelID:   snap.LevelID,
			StreamID:  snap.StreamID,
			Subjects:  subs,
			TargetAvg: snap.TargetAvg,
		}
	}
	return s
}

func (s State) indexOf(id string) int {
	for i := range s.Subjects {
		if s.Subjects[i].ID == id {
			return i
		}
	}
	return -1
}

// updateSubject applies fn to a copy of the subject list; fn returning false
// leaves the state untouched.
func (s State) updateSubject(id string, fn func(*catalog.Subject) bool) State {
	i := s.indexOf(id)
	if i < 0 {
		return s
	}
	subs := catalog.CloneSubjects(s.Subjects)
	if !fn(&subs[i]) {
		return s
	}
	s.Subjects = subs
	return s
}

func (s State) Level() (*catalog.Level, bool) { return catalog.FindLevel(s.LevelID) }

func (s State) Stream() (*catalog.Stream, bool) {
	_, st, err := catalog.Resolve(s.LevelID, s.StreamID)
	return st, err == nil
}

func (s State) Subject(id string) (catalog.Subject, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Subjects[i], true
	}
	return catalog.Subject{}, false
}

func (s State) Average() float64 { return gpa.Average(s.Subjects) }

// CanSave: a session is only worth saving once a stream is chosen.
func (s State) CanSave() bool {
	_, ok := s.Stream()
	return ok
}

// CanAskAdvice mirrors the disabled state of the advice control.
func (s State) CanAskAdvice() bool {
	return s.CanSave() && s.TargetAvg != ""
}

func (s State) Snapshot(now time.Time) Snapshot {
	subs := catalog.CloneSubjects(s.Subjects)
	return Snapshot{
		LevelID:   s.LevelID,
		StreamID:  s.StreamID,
		Subjects:  subs,
		TargetAvg: s.TargetAvg,
		Timestamp: now.UnixMilli(),
	}
}
