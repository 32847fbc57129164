package matchup

import (
	"errors"
	"fmt"

	"github.com/corey/typedex/internal/domain/typechart"
)

// MaxSelection is the largest number of defending labels.
const MaxSelection = 2

// ErrInvalidSelection is returned when a defending selection is empty, too
// large, repeats a label or names an unknown label.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is an ordered set of one or two defending labels. The zero value
// is empty and only valid as a starting point for Toggle.
type Selection struct {
	labels []typechart.Label
}

// NewSelection builds a selection without validation.
func NewSelection(labels ...typechart.Label) Selection {
	return Selection{labels: append([]typechart.Label(nil), labels...)}
}

// ParseSelection validates names (display names or slugs) at the boundary.
func ParseSelection(names []string) (Selection, error) {
	if len(names) == 0 {
		return Selection{}, fmt.Errorf("%w: no types given", ErrInvalidSelection)
	}
	if len(names) > MaxSelection {
		return Selection{}, fmt.Errorf("%w: %d types given, at most %d allowed", ErrInvalidSelection, len(names), MaxSelection)
	}
	out := make([]typechart.Label, 0, len(names))
	for _, n := range names {
		l, ok := typechart.Parse(n)
		if !ok {
			return Selection{}, fmt.Errorf("%w: unknown type %q", ErrInvalidSelection, n)
		}
		for _, prev := range out {
			if prev == l {
				return Selection{}, fmt.Errorf("%w: type %s given twice", ErrInvalidSelection, l)
			}
		}
		out = append(out, l)
	}
	return Selection{labels: out}, nil
}

// Labels returns a copy of the selected labels in selection order.
func (s Selection) Labels() []typechart.Label {
	return append([]typechart.Label(nil), s.labels...)
}

// Len returns the number of selected labels.
func (s Selection) Len() int { return len(s.labels) }

// Contains reports whether l is selected.
func (s Selection) Contains(l typechart.Label) bool {
	for _, x := range s.labels {
		if x == l {
			return true
		}
	}
	return false
}

// Toggle applies a click on l. A selected label is removed unless it is the
// only one. A new label is appended while there is room, otherwise the oldest
// is evicted.
func (s Selection) Toggle(l typechart.Label) Selection {
	if s.Contains(l) {
		if len(s.labels) == 1 {
			return s
		}
		out := make([]typechart.Label, 0, len(s.labels)-1)
		for _, x := range s.labels {
			if x != l {
				out = append(out, x)
			}
		}
		return Selection{labels: out}
	}
	if len(s.labels) < MaxSelection {
		return NewSelection(append(s.Labels(), l)...)
	}
	return NewSelection(s.labels[len(s.labels)-1], l)
}

// Compute is shorthand for Compute(s.Labels()).
func (s Selection) Compute() []Result {
	return Compute(s.labels)
}

// Names returns the display names of the selected labels.
func (s Selection) Names() []string {
	out := make([]string, len(s.labels))
	for i, l := range s.labels {
		out[i] = l.String()
	}
	return out
}
