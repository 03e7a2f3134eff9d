// Package logline tokenizes combined-format access-log lines and
// extracts their semantic fields.
package logline

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrMalformedLine reports a line whose quoting cannot be resolved
	// or that does not carry the fields the layout requires.
	ErrMalformedLine = errors.New("malformed log line")

	// ErrInvalidByteCount reports a byte-count field that is not a
	// non-negative integer.
	ErrInvalidByteCount = errors.New("invalid byte count")
)

// Tokenize splits one log line into shell-style tokens. Runs of
// unquoted whitespace separate tokens; single- and double-quoted spans
// keep their whitespace and lose the quote characters; a backslash
// escapes the next character outside quotes, and escapes `"` and `\`
// inside double quotes. Adjacent quoted and unquoted fragments join
// into a single token.
func Tokenize(line string) ([]string, error) {
	var (
		tokens []string
		tok    strings.Builder
		inTok  bool
		quote  rune
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case quote == '\'':
			// Single quotes are literal until the closing quote.
			if c == '\'' {
				quote = 0
			} else {
				tok.WriteRune(c)
			}
		case quote == '"':
			switch c {
			case '"':
				quote = 0
			case '\\':
				if i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\') {
					i++
					tok.WriteRune(runes[i])
				} else {
					tok.WriteRune(c)
				}
			default:
				tok.WriteRune(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inTok = true
		case c == '\\':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("%w: trailing escape", ErrMalformedLine)
			}
			i++
			tok.WriteRune(runes[i])
			inTok = true
		case unicode.IsSpace(c):
			if inTok {
				tokens = append(tokens, tok.String())
				tok.Reset()
				inTok = false
			}
		default:
			tok.WriteRune(c)
			inTok = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("%w: unterminated %c quote", ErrMalformedLine, quote)
	}
	if inTok {
		tokens = append(tokens, tok.String())
	}

	return tokens, nil
}
