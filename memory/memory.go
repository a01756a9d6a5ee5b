// Package memory implements the tracker memory variants (spec §4.4): each
// holds the set of elements a tracker compares a record's field against on
// the next frame.
package memory

import "github.com/framelattice/tracklink/element"

// Memory is a per-field recollection policy. Element.None is never
// returned from GetElements.
type Memory interface {
	SignalMatchingElement(e element.Element)
	SignalNoMatchingElement()
	GetElements() []element.Element
}

// elementKey returns a string uniquely identifying an element's content,
// used by strategies that need to bucket or hash elements (MostFrequent).
func elementKey(e element.Element) string {
	if w, ok := e.Word(); ok {
		return w.Raw
	}
	if ws, ok := e.Words(); ok {
		key := ""
		for i, w := range ws {
			if i > 0 {
				key += "\x1f"
			}
			key += w.Raw
		}
		return key
	}
	return ""
}
