package main

import (
	"slices"

	evdev "github.com/holoplot/go-evdev"
)

// Symbol prefixes every log line and says what happened to the key.
type Symbol rune

const (
	SymPress   Symbol = '+'
	SymRelease Symbol = '-'
	SymTap     Symbol = '±'
	SymOrphan  Symbol = '?'
)

// LogEntry is one line of the key log.
type LogEntry struct {
	Symbol Symbol
	Label  string
}

// String renders the entry without the trailing newline.
func (e LogEntry) String() string {
	return string(e.Symbol) + e.Label
}

// Tracker coalesces key presses and releases into log entries.
//
// A press is not logged right away. If the next key event is the release
// of that same key, the pair is logged as a single tap (±). Anything else
// flushes the press (+) first. The zero value is ready to use.
type Tracker struct {
	// held lists the keys currently down, oldest first.
	held []evdev.EvCode
	// pending is set while the last pressed key has not been logged.
	pending bool
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{held: make([]evdev.EvCode, 0, 8)}
}

// Feed consumes one key event and returns the entries it produces, in
// log order. A press yields at most one entry; a release at most two.
func (t *Tracker) Feed(ev KeyEvent) []LogEntry {
	switch ev.Kind {
	case Press:
		return t.press(ev.Code)
	case Release:
		return t.release(ev.Code)
	}
	return nil
}

func (t *Tracker) press(code evdev.EvCode) []LogEntry {
	var out []LogEntry
	if t.pending {
		out = append(out, t.flush())
	}
	t.held = append(t.held, code)
	t.pending = true
	return out
}

func (t *Tracker) release(code evdev.EvCode) []LogEntry {
	pos := slices.Index(t.held, code)
	if pos < 0 {
		return []LogEntry{{Symbol: SymOrphan, Label: KeyName(code)}}
	}

	var out []LogEntry
	if pos == len(t.held)-1 {
		if t.pending {
			out = append(out, LogEntry{Symbol: SymTap, Label: KeyName(code)})
		} else {
			out = append(out, LogEntry{Symbol: SymRelease, Label: KeyName(code)})
		}
		t.held = t.held[:pos]
	} else {
		// A newer key is still down; its press must hit the log before
		// this release does.
		if t.pending {
			out = append(out, t.flush())
		}
		out = append(out, LogEntry{Symbol: SymRelease, Label: KeyName(code)})
		t.held = slices.Delete(t.held, pos, pos+1)
	}
	t.pending = false
	return out
}

// flush logs the press of the most recently pressed key.
func (t *Tracker) flush() LogEntry {
	t.pending = false
	return LogEntry{Symbol: SymPress, Label: KeyName(t.held[len(t.held)-1])}
}

// Held returns a copy of the keys currently down, oldest first.
func (t *Tracker) Held() []evdev.EvCode {
	return slices.Clone(t.held)
}

// Pending reports whether the last press is still waiting to be logged.
func (t *Tracker) Pending() bool {
	return t.pending
}
