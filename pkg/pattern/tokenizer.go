package pattern

import (
	stderrors "errors"
	"strings"
	"unicode"

	"github.com/quaverlabs/quaver/pkg/errors"
)

// Tokenize scans text into its top-level raw tokens. A single left-to-right
// pass maintains a bracket-depth counter:
//
//   - At depth 0, whitespace delimits tokens. Inside brackets it is part of
//     the current token, so "[1 2]" is one token.
//   - An identifier directly touching an opening bracket stays fused to it
//     ("scale2[1 2]" is one token; "scale2 [1 2]" is two).
//   - A closing bracket that returns to depth 0 completes the token, unless
//     it is immediately followed by *, in which case the * and its digits
//     are consumed into the same token ("[1 2]*3").
//
// Failure is soft and per token: a stray closing bracket drops the token
// under construction, and an unclosed bracket at end of input drops the
// unterminated tail. Tokens completed before the failure are still
// returned, along with an error carrying
// [errors.ErrCodeUnbalancedBrackets].
func Tokenize(text string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		errs   []error
		depth  int
	)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	i := 0
	for i < len(text) {
		ch := text[i]
		switch {
		case ch == '[':
			depth++
			cur.WriteByte(ch)
			i++

		case ch == ']':
			if depth == 0 {
				// Stray closing bracket: fail the token being built, not
				// the whole scan.
				errs = append(errs, errors.New(errors.ErrCodeUnbalancedBrackets,
					"unexpected %q at offset %d", "]", i))
				cur.Reset()
				i++
				continue
			}
			depth--
			cur.WriteByte(ch)
			i++
			if depth == 0 {
				// A * fused onto the bracket belongs to this token,
				// together with the digits that follow it.
				if i < len(text) && text[i] == '*' {
					cur.WriteByte('*')
					i++
					for i < len(text) && isDigit(text[i]) {
						cur.WriteByte(text[i])
						i++
					}
				}
				flush()
			}

		case unicode.IsSpace(rune(ch)):
			if depth > 0 {
				cur.WriteByte(ch)
			} else {
				flush()
			}
			i++

		default:
			cur.WriteByte(ch)
			i++
		}
	}

	if depth != 0 {
		errs = append(errs, errors.New(errors.ErrCodeUnbalancedBrackets,
			"%d unclosed bracket(s) at end of input", depth))
		cur.Reset()
	}
	flush()

	return tokens, stderrors.Join(errs...)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
