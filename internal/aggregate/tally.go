// Package aggregate folds parsed log records into tallies and merges
// tallies from independent sources into a single result.
package aggregate

import (
	"strings"

	"github.com/j-veylop/webtally/internal/models"
)

// Tally is the aggregation of any number of log records: request
// counters, per-customer byte usage, and per-URL success counts. The
// zero value is the merge identity (all counters zero, no map entries)
// and is safe to use directly.
type Tally struct {
	CustomerBytes map[string]int64
	URLHits       map[string]int64
	Offsite       int64
	Total         int64
	Skipped       int64
}

// Zero returns the identity tally.
func Zero() Tally {
	return Tally{}
}

// Add folds one record into the tally in place. offsite reports
// whether the record's referrer was classified off-site.
func (t *Tally) Add(rec models.Record, offsite bool) {
	t.Total++
	if offsite {
		t.Offsite++
	}

	if t.CustomerBytes == nil {
		t.CustomerBytes = make(map[string]int64)
	}
	t.CustomerBytes[rec.Customer] += rec.Bytes

	if rec.Success {
		if t.URLHits == nil {
			t.URLHits = make(map[string]int64)
		}
		t.URLHits[rec.RequestPath]++
	}
}

// OffsitePercent returns the off-site share of all requests, or zero
// when the tally is empty.
func (t Tally) OffsitePercent() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Offsite) / float64(t.Total) * 100
}

// TotalBytes returns the byte usage summed over all customers.
func (t Tally) TotalBytes() int64 {
	var n int64
	for _, b := range t.CustomerBytes {
		n += b
	}
	return n
}

// Offsite reports whether a referrer host is off-site, meaning it does
// not contain the on-site marker. This is substring containment, not
// an exact host match: any host containing the marker is on-site, and
// an empty host (absent or unparseable referrer) is always off-site.
func Offsite(host, marker string) bool {
	return !strings.Contains(host, marker)
}

// Merge combines two tallies into a fresh one: counters sum, and both
// maps combine key-wise over the union of their keys. Merge is
// commutative and associative with Zero as identity, so tallies built
// independently may be folded in any order. Inputs are never aliased.
func Merge(a, b Tally) Tally {
	out := Tally{
		Offsite: a.Offsite + b.Offsite,
		Total:   a.Total + b.Total,
		Skipped: a.Skipped + b.Skipped,
	}

	if len(a.CustomerBytes)+len(b.CustomerBytes) > 0 {
		out.CustomerBytes = make(map[string]int64, len(a.CustomerBytes)+len(b.CustomerBytes))
		for k, v := range a.CustomerBytes {
			out.CustomerBytes[k] = v
		}
		for k, v := range b.CustomerBytes {
			out.CustomerBytes[k] += v
		}
	}

	if len(a.URLHits)+len(b.URLHits) > 0 {
		out.URLHits = make(map[string]int64, len(a.URLHits)+len(b.URLHits))
		for k, v := range a.URLHits {
			out.URLHits[k] = v
		}
		for k, v := range b.URLHits {
			out.URLHits[k] += v
		}
	}

	return out
}

// Fold merges any number of tallies left to right. By the Merge laws
// the order does not affect the result.
func Fold(tallies ...Tally) Tally {
	out := Zero()
	for _, t := range tallies {
		out = Merge(out, t)
	}
	return out
}
