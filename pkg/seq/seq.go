package seq

// DefaultRestSymbol is the textual form of a rest in patterns and in
// stringified output.
const DefaultRestSymbol = "-"

// Step is a single event in a sequence: either a sounding note carrying an
// integer value, or a rest. Steps are value types and are never mutated
// after creation.
type Step struct {
	// Value is the note value (pitch, velocity, or any other integer the
	// caller assigns meaning to). It is zero for rests.
	Value int `json:"value"`

	// IsRest marks the step as silence. When true, Value is meaningless
	// and kept at zero in canonical form.
	IsRest bool `json:"rest,omitempty"`
}

// Note creates a sounding step with the given value.
func Note(v int) Step { return Step{Value: v} }

// Rest creates a rest step.
func Rest() Step { return Step{IsRest: true} }

// Sequence is an ordered list of steps. Insertion order is musical time
// order and is significant; repeated identical values are meaningful and
// never deduplicated.
type Sequence []Step

// Notes builds a sequence of sounding steps from integer values. It is a
// convenience for tests and callers that have no rests.
func Notes(values ...int) Sequence {
	s := make(Sequence, len(values))
	for i, v := range values {
		s[i] = Note(v)
	}
	return s
}

// Clone returns an independent copy of s. The copy shares no backing
// storage with the original.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equal reports whether two sequences have the same steps in the same
// order. Rests compare equal regardless of any stale value they carry.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i].IsRest != other[i].IsRest {
			return false
		}
		if !s[i].IsRest && s[i].Value != other[i].Value {
			return false
		}
	}
	return true
}
