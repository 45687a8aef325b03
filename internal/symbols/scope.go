package symbols

import "bobbin/internal/source"

type varInfo struct {
	slot int
	span source.Span
}

// scope is one lexical block of temps. startSlot is the free-slot counter
// at push time and is restored on pop.
type scope struct {
	vars      map[string]varInfo
	startSlot int
}

func newScope(start int) scope {
	return scope{vars: make(map[string]varInfo), startSlot: start}
}
