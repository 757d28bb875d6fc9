package pattern

import (
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/quaverlabs/quaver/pkg/errors"
	"github.com/quaverlabs/quaver/pkg/seq"
	"github.com/quaverlabs/quaver/pkg/seq/transform"
)

// DefaultMaxDepth caps bracket nesting before forced truncation. Nothing in
// the grammar can cycle, but deliberately deep nesting must not take the
// process down with it.
const DefaultMaxDepth = 10

// Options configures a compilation. The zero value is usable: defaults are
// applied on entry to [Compile].
type Options struct {
	// MaxDepth caps recursion depth (default [DefaultMaxDepth]). Tokens
	// nested beyond it expand to nothing, with a diagnostic.
	MaxDepth int

	// RestSymbol is the literal that represents a rest on both input and
	// output (default [seq.DefaultRestSymbol]).
	RestSymbol string

	// Normalize runs the canonicalization pass over the result.
	Normalize bool

	// Verbose enables diagnostics for skipped unrecognized literals.
	// Structural failures (unbalanced brackets, malformed tokens, the
	// recursion guard, transform failures) are logged regardless.
	Verbose bool

	// Logger is the diagnostic sink. Defaults to a discard logger.
	Logger *log.Logger

	// Rand seeds the randomized transforms (scramble, sparse). When nil a
	// time-seeded source is used.
	Rand *rand.Rand
}

func (o *Options) setDefaults() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.RestSymbol == "" {
		o.RestSymbol = seq.DefaultRestSymbol
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Compile expands a pattern into a flat step sequence. It is total: every
// failure mode degrades to skipping the offending token and compilation of
// the rest of the input proceeds. Empty input yields an empty sequence and
// a diagnostic.
//
// Each call is independent and re-entrant; no state is shared across
// compilations. The recursion depth is threaded by value through the call
// tree, which is what makes the configured bound hard regardless of which
// bracket path the expansion takes.
func Compile(text string, opts Options) seq.Sequence {
	opts.setDefaults()
	c := &compiler{
		opts: opts,
		engine: transform.NewEngine(
			transform.WithRand(opts.Rand),
			transform.WithLogger(opts.Logger),
		),
	}

	if strings.TrimSpace(text) == "" {
		opts.Logger.Warn("empty pattern, nothing to compile",
			"code", errors.ErrCodeInvalidInput)
		return seq.Sequence{}
	}

	out := c.compile(text, 0)
	if opts.Normalize {
		out = out.Canonical()
	}
	return out
}

type compiler struct {
	opts   Options
	engine *transform.Engine
}

// compile expands one nesting level. depth is passed by value and
// incremented by the caller on every descent into bracket contents.
func (c *compiler) compile(text string, depth int) seq.Sequence {
	tokens, err := Tokenize(text)
	if err != nil {
		c.opts.Logger.Warn("tokenizer recovered from bad input",
			"code", errors.GetCode(err), "err", err)
	}

	out := make(seq.Sequence, 0, len(tokens))
	for _, raw := range tokens {
		tok := Classify(raw)
		switch tok.Kind {
		case KindTransform:
			if !c.canDescend(depth, raw) {
				continue
			}
			// The transform is applied to whatever its contents produced,
			// even when deeper truncation made that empty.
			inner := c.compile(tok.Inner, depth+1)
			out = append(out, c.engine.Apply(tok.Name, tokenParam(tok), inner)...)

		case KindGroupRepeat:
			if !c.canDescend(depth, raw) {
				continue
			}
			inner := c.compile(tok.Inner, depth+1)
			for range tok.Count {
				out = append(out, inner...)
			}

		case KindGroup:
			if !c.canDescend(depth, raw) {
				continue
			}
			out = append(out, c.compile(tok.Inner, depth+1)...)

		case KindDirectRepeat:
			step, ok := c.literalStep(tok.Value)
			if !ok {
				c.opts.Logger.Warn("repeat of unrecognized value, skipping token",
					"code", errors.ErrCodeMalformedToken, "token", raw)
				continue
			}
			for range tok.Count {
				out = append(out, step)
			}

		case KindLiteral:
			step, ok := c.literalStep(tok.Value)
			if !ok {
				if c.opts.Verbose {
					c.opts.Logger.Debug("skipping unrecognized token", "token", raw)
				}
				continue
			}
			out = append(out, step)

		default:
			c.opts.Logger.Warn("malformed token, skipping",
				"code", errors.ErrCodeMalformedToken, "token", raw)
		}
	}
	return out
}

// canDescend applies the recursion guard before a bracket token expands.
func (c *compiler) canDescend(depth int, raw string) bool {
	if depth >= c.opts.MaxDepth {
		c.opts.Logger.Warn("recursion limit exceeded, dropping token",
			"code", errors.ErrCodeRecursionLimit,
			"max_depth", c.opts.MaxDepth, "token", clip(raw, 40))
		return false
	}
	return true
}

// literalStep interprets a bare value: the rest symbol or an integer.
func (c *compiler) literalStep(text string) (seq.Step, bool) {
	if text == c.opts.RestSymbol {
		return seq.Rest(), true
	}
	if v, err := strconv.Atoi(text); err == nil {
		return seq.Note(v), true
	}
	return seq.Step{}, false
}

func tokenParam(tok Token) transform.Param {
	if tok.HasParam {
		return transform.IntParam(tok.Param)
	}
	return transform.NoParam
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
