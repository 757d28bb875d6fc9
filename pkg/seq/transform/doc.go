// Package transform implements the named sequence transformations the
// pattern grammar can invoke, plus a standalone [Engine.Apply] entry point
// for callers outside the compiler.
//
// Every transform is a pure function from sequence to sequence: the input is
// never mutated and the output is always a fresh slice, so repeated
// applications over the same input are reproducible. The two randomized
// transforms (scramble, sparse) draw from the engine's injectable random
// source; seed it for deterministic tests.
//
// The registry is fixed:
//
//	scramble        random permutation
//	invert<P>       note value v -> 2P - v
//	scale<P>        note value v -> v * P
//	offset<P>       note value v -> v + P
//	mirror          palindrome without duplicating the pivot
//	repeat<P>       each element replicated P times
//	quantize<P>     note values snapped to the nearest multiple of P
//	reverse         reverse order
//	rotate[<P>]     left-rotate by P positions (default 1)
//	sparse[<P>]     notes replaced by rests with probability P/100 (default 50)
//	interleave      each element followed by one rest
//
// Unknown names and missing required parameters degrade to the identity
// transform with a diagnostic; nothing is ever dropped silently.
package transform
