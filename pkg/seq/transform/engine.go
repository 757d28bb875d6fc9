package transform

import (
	"io"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/quaverlabs/quaver/pkg/errors"
	"github.com/quaverlabs/quaver/pkg/seq"
)

// Param is an optional integer parameter for a transform.
type Param struct {
	Value int
	Set   bool
}

// IntParam wraps an integer as a set parameter.
func IntParam(v int) Param { return Param{Value: v, Set: true} }

// NoParam is the absent parameter.
var NoParam = Param{}

// paramMode describes how a transform treats its parameter.
type paramMode int

const (
	paramNone     paramMode = iota // parameter ignored
	paramRequired                  // missing parameter degrades to identity
	paramOptional                  // missing parameter falls back to a default
)

// definition is a single registry entry.
type definition struct {
	mode         paramMode
	defaultParam int
	fn           func(e *Engine, param int, s seq.Sequence) seq.Sequence
}

// registry maps transform names to their definitions. The set is fixed;
// there is no runtime registration.
var registry = map[string]definition{
	"scramble":   {mode: paramNone, fn: scramble},
	"invert":     {mode: paramRequired, fn: invert},
	"scale":      {mode: paramRequired, fn: scale},
	"offset":     {mode: paramRequired, fn: offset},
	"mirror":     {mode: paramNone, fn: mirror},
	"repeat":     {mode: paramRequired, fn: repeatSteps},
	"quantize":   {mode: paramRequired, fn: quantize},
	"reverse":    {mode: paramNone, fn: reverse},
	"rotate":     {mode: paramOptional, defaultParam: 1, fn: rotate},
	"sparse":     {mode: paramOptional, defaultParam: 50, fn: sparse},
	"interleave": {mode: paramNone, fn: interleave},
}

// Names returns the registered transform names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is a registered transform.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Engine applies named transformations to sequences. The zero value is not
// usable; create engines with [NewEngine].
type Engine struct {
	rng    *rand.Rand
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used by scramble and sparse.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the diagnostic logger. Diagnostics cover unknown names
// and missing required parameters.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine. Without options it uses a time-seeded random
// source and discards diagnostics.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Apply runs the named transform over s and returns the result. Failure is
// soft: an unknown name or a missing required parameter returns s unchanged
// and logs a diagnostic. Rests pass through untouched unless the transform
// says otherwise.
func (e *Engine) Apply(name string, param Param, s seq.Sequence) seq.Sequence {
	def, ok := registry[name]
	if !ok {
		e.logger.Warn("unknown transform, passing sequence through",
			"code", errors.ErrCodeUnknownTransform, "name", name)
		return s
	}

	p := param.Value
	switch def.mode {
	case paramRequired:
		if !param.Set {
			e.logger.Warn("transform requires a parameter, passing sequence through",
				"code", errors.ErrCodeMissingParameter, "name", name)
			return s
		}
	case paramOptional:
		if !param.Set {
			p = def.defaultParam
		}
	case paramNone:
		p = 0
	}

	return def.fn(e, p, s)
}

// mapNotes applies fn to every note value, passing rests through.
func mapNotes(s seq.Sequence, fn func(int) int) seq.Sequence {
	out := make(seq.Sequence, len(s))
	for i, step := range s {
		if step.IsRest {
			out[i] = step
		} else {
			out[i] = seq.Note(fn(step.Value))
		}
	}
	return out
}

func scramble(e *Engine, _ int, s seq.Sequence) seq.Sequence {
	out := make(seq.Sequence, len(s))
	for i, j := range e.rng.Perm(len(s)) {
		out[i] = s[j]
	}
	return out
}

func invert(_ *Engine, p int, s seq.Sequence) seq.Sequence {
	return mapNotes(s, func(v int) int { return 2*p - v })
}

func scale(_ *Engine, p int, s seq.Sequence) seq.Sequence {
	return mapNotes(s, func(v int) int { return v * p })
}

func offset(_ *Engine, p int, s seq.Sequence) seq.Sequence {
	return mapNotes(s, func(v int) int { return v + p })
}

// mirror appends the reverse of all-but-the-last element, producing a
// palindrome without duplicating the pivot: [1 2 3] -> [1 2 3 2 1].
func mirror(_ *Engine, _ int, s seq.Sequence) seq.Sequence {
	if len(s) <= 1 {
		return s.Clone()
	}
	out := make(seq.Sequence, 0, 2*len(s)-1)
	out = append(out, s...)
	for i := len(s) - 2; i >= 0; i-- {
		out = append(out, s[i])
	}
	return out
}

func repeatSteps(_ *Engine, p int, s seq.Sequence) seq.Sequence {
	if p < 0 {
		p = 0
	}
	out := make(seq.Sequence, 0, len(s)*p)
	for _, step := range s {
		for range p {
			out = append(out, step)
		}
	}
	return out
}

// quantize snaps each note value to the nearest multiple of p, rounding
// halves up (toward +infinity): quantize2 maps 5 to 6 and -5 to -4.
// A zero parameter would divide by zero and degrades to identity.
func quantize(e *Engine, p int, s seq.Sequence) seq.Sequence {
	if p == 0 {
		e.logger.Warn("quantize with zero step, passing sequence through")
		return s
	}
	if p < 0 {
		p = -p
	}
	return mapNotes(s, func(v int) int {
		q := v % p
		if q < 0 {
			q += p
		}
		base := v - q
		if 2*q >= p {
			base += p
		}
		return base
	})
}

func reverse(_ *Engine, _ int, s seq.Sequence) seq.Sequence {
	out := s.Clone()
	slices.Reverse(out)
	return out
}

// rotate left-rotates by ((p mod n) + n) mod n positions, so negative
// parameters rotate right.
func rotate(_ *Engine, p int, s seq.Sequence) seq.Sequence {
	n := len(s)
	if n <= 1 {
		return s.Clone()
	}
	k := ((p % n) + n) % n
	out := make(seq.Sequence, 0, n)
	out = append(out, s[k:]...)
	out = append(out, s[:k]...)
	return out
}

// sparse independently replaces each note by a rest with probability p/100.
// Existing rests are untouched.
func sparse(e *Engine, p int, s seq.Sequence) seq.Sequence {
	prob := float64(p) / 100
	out := make(seq.Sequence, len(s))
	for i, step := range s {
		if !step.IsRest && e.rng.Float64() < prob {
			out[i] = seq.Rest()
		} else {
			out[i] = step
		}
	}
	return out
}

func interleave(_ *Engine, _ int, s seq.Sequence) seq.Sequence {
	out := make(seq.Sequence, 0, 2*len(s))
	for _, step := range s {
		out = append(out, step, seq.Rest())
	}
	return out
}
