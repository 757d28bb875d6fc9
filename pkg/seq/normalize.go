package seq

import (
	"math"
	"strconv"
	"strings"
)

// Normalize coerces a list of loose values into a canonical sequence.
// Numeric-looking values (integers, floats, numeric strings, Steps) become
// notes; everything else, including nil, becomes a rest. The function is
// idempotent: normalizing an already-canonical sequence is a no-op.
//
// This is the entry point for foreign data, e.g. a heterogeneous JSON array
// decoded into []any.
func Normalize(values []any) Sequence {
	out := make(Sequence, 0, len(values))
	for _, v := range values {
		out = append(out, normalizeValue(v))
	}
	return out
}

// Canonical returns a canonical copy of s: rest steps carry a zero value,
// notes are unchanged. It is idempotent.
func (s Sequence) Canonical() Sequence {
	out := make(Sequence, len(s))
	for i, step := range s {
		if step.IsRest {
			out[i] = Rest()
		} else {
			out[i] = step
		}
	}
	return out
}

func normalizeValue(v any) Step {
	switch val := v.(type) {
	case Step:
		if val.IsRest {
			return Rest()
		}
		return val
	case int:
		return Note(val)
	case int32:
		return Note(int(val))
	case int64:
		return Note(int(val))
	case float32:
		return Note(int(math.Round(float64(val))))
	case float64:
		// JSON numbers decode as float64.
		return Note(int(math.Round(val)))
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return Note(n)
		}
		return Rest()
	default:
		return Rest()
	}
}
