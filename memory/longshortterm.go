package memory

import "github.com/framelattice/tracklink/element"

// LongShortTerm wraps an inner Memory and returns its elements plus the
// latest matched element held in a short-term slot. The latest element is
// not yet folded into the inner memory while it occupies the short-term
// slot — it slides in on the *next* match, giving a recency prior on top
// of the inner memory's historical grounding.
type LongShortTerm struct {
	inner     Memory
	shortTerm element.Element
	hasShort  bool
}

// NewLongShortTerm builds a LongShortTerm memory composing inner.
func NewLongShortTerm(inner Memory) *LongShortTerm {
	return &LongShortTerm{inner: inner}
}

// SignalMatchingElement implements Memory.
func (l *LongShortTerm) SignalMatchingElement(e element.Element) {
	if l.hasShort {
		l.inner.SignalMatchingElement(l.shortTerm)
	}
	l.shortTerm = e
	l.hasShort = !e.IsNone()
}

// SignalNoMatchingElement implements Memory.
func (l *LongShortTerm) SignalNoMatchingElement() {
	l.inner.SignalNoMatchingElement()
}

// GetElements implements Memory.
func (l *LongShortTerm) GetElements() []element.Element {
	out := l.inner.GetElements()
	if l.hasShort {
		out = append(out, l.shortTerm)
	}
	return out
}
