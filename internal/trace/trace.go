package trace

import (
	"fmt"
	"strings"
	"time"
)

// Tracer receives events. Emit must be safe for concurrent use: directory
// checks trace files from several goroutines.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
}

// Level selects the finest scope that is recorded.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring buffer only, dumped when the command fails
	LevelPhase        // commands and pipeline phases
	LevelDetail       // plus one span per checked file
)

var levelNames = [...]string{"off", "error", "phase", "detail"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value, ignoring case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil // #nosec G115 -- len(levelNames) is tiny
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Records reports whether events of scope are kept at this level.
func (l Level) Records(scope Scope) bool {
	switch l {
	case LevelError, LevelPhase:
		return scope <= ScopePhase
	case LevelDetail:
		return scope <= ScopeFile
	default:
		return false
	}
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // a CLI command or directory check
	ScopePhase                   // cache, scan+parse, resolve, compile
	ScopeFile                    // one script of a directory check
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePhase: "phase", ScopeFile: "file"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one span boundary. Elapsed and Extra are set on the end event.
type Event struct {
	Time     time.Time
	Seq      uint64 // stamped by the sink that stores the event
	End      bool
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string
	Detail   string
	Elapsed  time.Duration
	Extra    map[string]string
}

func enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}
