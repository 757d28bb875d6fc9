package pattern

import (
	"regexp"
	"strconv"
)

// Kind classifies a raw token.
type Kind int

const (
	// KindMalformed marks tokens no grammar rule matches.
	KindMalformed Kind = iota
	// KindLiteral is a bare value or the rest symbol.
	KindLiteral
	// KindDirectRepeat is value*count with no brackets.
	KindDirectRepeat
	// KindGroup is a plain bracketed sub-pattern.
	KindGroup
	// KindGroupRepeat is a bracketed sub-pattern with a trailing *count.
	KindGroupRepeat
	// KindTransform is an identifier fused onto a bracketed sub-pattern.
	KindTransform
)

// String returns a short label for the kind, used in diagnostics and in
// rendered pattern trees.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindDirectRepeat:
		return "repeat"
	case KindGroup:
		return "group"
	case KindGroupRepeat:
		return "group*"
	case KindTransform:
		return "transform"
	default:
		return "malformed"
	}
}

// Token is a classified raw token. Tokens exist per recursion level and are
// discarded once expanded; nothing downstream of compilation sees them.
type Token struct {
	Kind Kind
	Text string // the raw token text

	Value string // literal text, or the repeated value for direct repeats
	Count int    // repetition count for repeat kinds

	Name     string // transform name
	Param    int    // trailing digits fused onto the transform name
	HasParam bool

	Inner string // bracket contents, unparsed
}

// Classification patterns, tried in the dispatch priority order of the
// grammar. The ordering matters: a group-with-repeat also textually starts
// with a bracket, and a transform call also textually contains one.
var (
	transformRe    = regexp.MustCompile(`(?s)^([A-Za-z]+)(\d*)\[(.*)\]$`)
	groupRepeatRe  = regexp.MustCompile(`(?s)^\[(.*)\]\*(\d+)$`)
	groupRe        = regexp.MustCompile(`(?s)^\[(.*)\]$`)
	directRepeatRe = regexp.MustCompile(`^([^\s\[\]*]+)\*(\d+)$`)
	literalRe      = regexp.MustCompile(`^[^\s\[\]*]+$`)
)

// Classify determines which grammar rule a raw token matches. It never
// fails; tokens matching no rule come back as [KindMalformed] and the
// compiler skips them with a diagnostic.
//
// Repeat counts and transform parameters are parsed here. A count that does
// not fit in an int makes the token malformed; an overflowing transform
// parameter is treated as absent, which the engine degrades to identity.
func Classify(raw string) Token {
	if m := transformRe.FindStringSubmatch(raw); m != nil {
		tok := Token{Kind: KindTransform, Text: raw, Name: m[1], Inner: m[3]}
		if m[2] != "" {
			if p, err := strconv.Atoi(m[2]); err == nil {
				tok.Param = p
				tok.HasParam = true
			}
		}
		return tok
	}

	if m := groupRepeatRe.FindStringSubmatch(raw); m != nil {
		count, err := strconv.Atoi(m[2])
		if err != nil {
			return Token{Kind: KindMalformed, Text: raw}
		}
		return Token{Kind: KindGroupRepeat, Text: raw, Inner: m[1], Count: count}
	}

	if m := groupRe.FindStringSubmatch(raw); m != nil {
		return Token{Kind: KindGroup, Text: raw, Inner: m[1]}
	}

	if m := directRepeatRe.FindStringSubmatch(raw); m != nil {
		count, err := strconv.Atoi(m[2])
		if err != nil {
			return Token{Kind: KindMalformed, Text: raw}
		}
		return Token{Kind: KindDirectRepeat, Text: raw, Value: m[1], Count: count}
	}

	if literalRe.MatchString(raw) {
		return Token{Kind: KindLiteral, Text: raw, Value: raw}
	}

	return Token{Kind: KindMalformed, Text: raw}
}
