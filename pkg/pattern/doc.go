// Package pattern compiles the step-pattern notation into flat sequences.
//
// The notation is a compact textual DSL for step sequences. Whitespace
// separates tokens at the top level; brackets group sub-patterns, a trailing
// *N repeats, and an identifier fused onto an opening bracket invokes a
// named transformation on the bracketed contents. All of it nests:
//
//	1 2 3           three notes
//	-               a rest
//	7*4             the note 7, four times
//	[1 2]*3         the group 1 2, three times
//	scale2[1 2 3]   the group compiled, then every note doubled
//	rev[ [1 2]*2 ]  nesting is arbitrary
//
// # Grammar rules
//
// Brackets bind tighter than a trailing *, and a transform name binds to the
// immediately following bracket with no intervening whitespace. Whitespace
// before * splits the token: "3 *4" is the note 3 followed by a malformed
// token that is skipped with a diagnostic. Repeat counts must be
// non-negative integers; anything else makes the token malformed.
//
// # Failure posture
//
// Compilation is total and fail-soft: a malformed token, an unknown
// transform, unbalanced brackets, or the recursion-depth guard each degrade
// to "this token contributes nothing" (or "pass the sequence through
// unchanged" for transform failures) while the rest of the input compiles.
// Diagnostics go to the logger in [Options]; no error ever escapes
// [Compile]. This is deliberate: a live session must always get some
// sequence back.
package pattern
