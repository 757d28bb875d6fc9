// Package seq defines the step-sequence data model shared by the pattern
// compiler, the transformation engine, and the generative utilities.
//
// A [Sequence] is a flat, ordered list of [Step] values in musical time
// order. Each step is either a sounding note carrying an integer value or a
// rest. Sequences are treated as immutable: everything in this module that
// derives a sequence from another returns a fresh slice and never mutates
// its input in place.
//
// The package also provides the sequence utilities that sit outside the
// grammar itself:
//
//   - [Stringify] projects a sequence back to the flat textual form the
//     compiler accepts (lossy: grouping and transform structure is gone).
//   - [Normalize] coerces loose, foreign values into canonical steps.
//   - [Random] generates pseudo-random sequences for testing and for
//     generative composers.
package seq
