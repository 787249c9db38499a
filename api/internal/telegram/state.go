package telegram

import (
	"sync"

	"moyenne-bot/api/internal/session"
)

const (
	modeNone       = ""
	modeAwaitGrade = "await_grade" // next text is the grade of pendingID
	modeAwaitName  = "await_name"  // next text renames custom subject pendingID
)

// chatState is the per-chat calculator. All fields are guarded by mu: the
// advice goroutine touches adviceBusy while updates keep arriving.
type chatState struct {
	mu         sync.Mutex
	st         session.State
	mode       string
	pendingID  string
	adviceBusy bool
}

func (cs *chatState) setMode(mode, subjectID string) {
	cs.mode, cs.pendingID = mode, subjectID
}

func (cs *chatState) clearMode() { cs.setMode(modeNone, "") }

// apply reduces under the lock and returns a copy for rendering.
func (cs *chatState) apply(a session.Action) session.State {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.st = session.Reduce(cs.st, a)
	return cs.st
}

func (cs *chatState) view() session.State {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.st
}
