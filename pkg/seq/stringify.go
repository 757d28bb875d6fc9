package seq

import (
	"strconv"
	"strings"
)

// Stringify returns the space-joined textual form of s using the default
// rest symbol. The projection is lossy: any grouping or transform structure
// the sequence was compiled from is gone, leaving only a flat literal
// pattern. For bracket-free patterns the projection round-trips through the
// compiler.
func Stringify(s Sequence) string {
	return StringifyWith(s, DefaultRestSymbol)
}

// StringifyWith is Stringify with an explicit rest symbol. An empty symbol
// falls back to the default.
func StringifyWith(s Sequence, restSymbol string) string {
	if restSymbol == "" {
		restSymbol = DefaultRestSymbol
	}
	parts := make([]string, len(s))
	for i, step := range s {
		if step.IsRest {
			parts[i] = restSymbol
		} else {
			parts[i] = strconv.Itoa(step.Value)
		}
	}
	return strings.Join(parts, " ")
}
