package seq

import "math/rand/v2"

// Default values for [RandomOptions].
const (
	DefaultRandomLength = 16
	DefaultMinValue     = 1
	DefaultMaxValue     = 99
	DefaultRestProb     = 0.3
	DefaultGroupProb    = 0.2
	DefaultRepeatProb   = 0.4
)

// RandomOptions configures the random sequence generator.
type RandomOptions struct {
	// Length is the minimum number of steps to generate (default 16).
	// Grouped and repeated runs may push the result past Length; with
	// GroupProb and RepeatProb at zero the result is exactly Length steps.
	Length int

	// MinValue and MaxValue bound note values, inclusive (defaults 1 and 99).
	MinValue int
	MaxValue int

	// RestProb is the probability of any step being a rest (default 0.3).
	RestProb float64

	// GroupProb is the probability of emitting a short clustered run of
	// fresh values after a note (default 0.2).
	GroupProb float64

	// RepeatProb is the probability of a note being replicated as a short
	// run of the same value (default 0.4).
	RepeatProb float64

	// Rand is the random source. When nil a time-seeded source is used;
	// tests should inject a seeded source for reproducibility.
	Rand *rand.Rand
}

// DefaultRandomOptions returns the standard generator configuration:
// 16 steps, values in [1, 99], rest probability 0.3, group probability 0.2,
// repetition probability 0.4. Zero-valued probability fields in a manually
// built RandomOptions are honored as zero, so callers wanting the documented
// defaults should start from this constructor.
func DefaultRandomOptions() RandomOptions {
	return RandomOptions{
		Length:     DefaultRandomLength,
		MinValue:   DefaultMinValue,
		MaxValue:   DefaultMaxValue,
		RestProb:   DefaultRestProb,
		GroupProb:  DefaultGroupProb,
		RepeatProb: DefaultRepeatProb,
	}
}

func (o *RandomOptions) setDefaults() {
	if o.Length <= 0 {
		o.Length = DefaultRandomLength
	}
	if o.MinValue == 0 && o.MaxValue == 0 {
		o.MinValue = DefaultMinValue
		o.MaxValue = DefaultMaxValue
	}
	if o.MaxValue < o.MinValue {
		o.MaxValue = o.MinValue
	}
}

// Random generates a pseudo-random sequence. Each position is a rest with
// probability RestProb, otherwise a note drawn uniformly from
// [MinValue, MaxValue]. A note may be extended into a short repeated run
// (RepeatProb) or followed by a short cluster of fresh values (GroupProb),
// mimicking the grouped runs a human-written pattern tends to contain.
//
// Random is not part of the grammar; it exists for tests and for generative
// composers that assemble pattern strings via [Stringify].
func Random(opts RandomOptions) Sequence {
	opts.setDefaults()
	rng := opts.Rand
	if rng == nil {
		rng = newRand()
	}

	out := make(Sequence, 0, opts.Length)
	for len(out) < opts.Length {
		if rng.Float64() < opts.RestProb {
			out = append(out, Rest())
			continue
		}

		v := randValue(rng, opts)
		out = append(out, Note(v))

		if rng.Float64() < opts.RepeatProb {
			for range runLength(rng) {
				out = append(out, Note(v))
			}
		}
		if rng.Float64() < opts.GroupProb {
			for range runLength(rng) {
				out = append(out, Note(randValue(rng, opts)))
			}
		}
	}
	return out
}

// runLength draws a short run length in [1, 3].
func runLength(rng *rand.Rand) int {
	return 1 + rng.IntN(3)
}

func randValue(rng *rand.Rand, opts RandomOptions) int {
	return opts.MinValue + rng.IntN(opts.MaxValue-opts.MinValue+1)
}

// NewRand creates a PCG-seeded random source. The same seed always yields
// the same stream, which keeps randomized transforms and the generator
// reproducible when callers pass an explicit seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
