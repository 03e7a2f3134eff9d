package logline

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/j-veylop/webtally/internal/models"
)

// Layout fixes the zero-based token positions of the fields read from
// an access-log line. The defaults match the combined/extended format.
type Layout struct {
	Request  int
	Status   int
	Bytes    int
	Referrer int
}

// DefaultLayout returns the combined-format column positions.
func DefaultLayout() Layout {
	return Layout{
		Request:  5,
		Status:   6,
		Bytes:    7,
		Referrer: 8,
	}
}

// MinTokens returns how many tokens a line must produce for every
// configured position to be readable.
func (l Layout) MinTokens() int {
	n := l.Request
	if l.Status > n {
		n = l.Status
	}
	if l.Bytes > n {
		n = l.Bytes
	}
	if l.Referrer > n {
		n = l.Referrer
	}
	return n + 1
}

// Extractor maps token sequences to parsed records.
type Extractor struct {
	Layout        Layout
	SuccessPrefix string
}

// NewExtractor creates an extractor for the given layout. An empty
// success prefix defaults to "2".
func NewExtractor(layout Layout, successPrefix string) Extractor {
	if successPrefix == "" {
		successPrefix = "2"
	}
	return Extractor{Layout: layout, SuccessPrefix: successPrefix}
}

// Record extracts the semantic fields from one tokenized line.
//
// The request target is the second whitespace-separated word of the
// request token ("GET /alice/x.txt HTTP/1.1" → "/alice/x.txt"), and the
// customer id is the segment after its first slash. A byte count of "-"
// is the combined-log marker for a bodyless response and counts as
// zero. The referrer host is empty when the referrer is absent or not a
// parseable URL.
func (e Extractor) Record(tokens []string) (models.Record, error) {
	if min := e.Layout.MinTokens(); len(tokens) < min {
		return models.Record{}, fmt.Errorf("%w: %d tokens, need at least %d", ErrMalformedLine, len(tokens), min)
	}

	words := strings.Fields(tokens[e.Layout.Request])
	if len(words) < 2 {
		return models.Record{}, fmt.Errorf("%w: request %q has no target", ErrMalformedLine, tokens[e.Layout.Request])
	}
	path := words[1]

	customer, err := customerID(path)
	if err != nil {
		return models.Record{}, err
	}

	bytes, err := parseBytes(tokens[e.Layout.Bytes])
	if err != nil {
		return models.Record{}, err
	}

	status := tokens[e.Layout.Status]

	return models.Record{
		RequestPath:  path,
		Status:       status,
		ReferrerHost: referrerHost(tokens[e.Layout.Referrer]),
		Customer:     customer,
		Bytes:        bytes,
		Success:      strings.HasPrefix(status, e.SuccessPrefix),
	}, nil
}

// customerID returns the first slash-separated segment after the
// leading slash of the request target.
func customerID(path string) (string, error) {
	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: request target %q has no customer segment", ErrMalformedLine, path)
	}
	return parts[1], nil
}

func parseBytes(tok string) (int64, error) {
	if tok == "-" {
		return 0, nil
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidByteCount, tok)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative value %d", ErrInvalidByteCount, n)
	}
	return n, nil
}

func referrerHost(referrer string) string {
	u, err := url.Parse(referrer)
	if err != nil {
		return ""
	}
	return u.Host
}
