// Package autosave saves note edits after a quiet period, never running two
// saves for the same note at once.
package autosave

type State int

const (
	Idle State = iota
	Dirty
	Saving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	}
	return "unknown"
}

type Draft struct {
	Title   string
	Content string
}

// Machine holds no timers and does no I/O. The caller owns the debounce
// timer and acts on what each transition returns.
//
//	idle   --Edit-->             dirty  (start timer)
//	dirty  --Edit-->             dirty  (restart timer)
//	dirty  --DebounceElapsed-->  saving (send draft)
//	saving --Edit-->             saving (hold draft)
//	saving --SaveFinished-->     dirty  (held draft: start timer) | idle
//	idle   --Retry-->            dirty  (failed draft: start timer)
type Machine struct {
	state    State
	pending  *Draft
	inFlight *Draft
}

func (m *Machine) State() State {
	return m.state
}

// Edit records the latest draft. It reports whether the debounce timer
// should be (re)started.
func (m *Machine) Edit(d Draft) bool {
	m.pending = &d

	switch m.state {
	case Idle, Dirty:
		m.state = Dirty
		return true
	default:
		return false
	}
}

// DebounceElapsed moves a dirty machine to saving and hands out the draft to
// send. Anything else is a stale tick and yields false.
func (m *Machine) DebounceElapsed() (Draft, bool) {
	if m.state != Dirty || m.pending == nil {
		return Draft{}, false
	}

	d := *m.pending
	m.inFlight = &d
	m.pending = nil
	m.state = Saving
	return d, true
}

// SaveFinished ends the in-flight save. An edit held during the save leaves
// the machine dirty and reports that the debounce timer should start.
// Otherwise the machine goes idle; a failed draft with nothing newer stays
// readable through Pending until Retry or the next Edit.
func (m *Machine) SaveFinished(ok bool) bool {
	if m.state != Saving {
		return false
	}

	failed := m.inFlight
	m.inFlight = nil

	if m.pending != nil {
		m.state = Dirty
		return true
	}

	if !ok && failed != nil {
		m.pending = failed
	}
	m.state = Idle
	return false
}

// Retry marks an idle machine holding an unsaved draft dirty again. It
// reports whether the debounce timer should be started.
func (m *Machine) Retry() bool {
	if m.state != Idle || m.pending == nil {
		return false
	}

	m.state = Dirty
	return true
}

// Pending is the draft not yet handed to a save, if any.
func (m *Machine) Pending() (Draft, bool) {
	if m.pending == nil {
		return Draft{}, false
	}
	return *m.pending, true
}
