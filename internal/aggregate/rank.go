package aggregate

import "sort"

// URLCount pairs a URL with its success count.
type URLCount struct {
	URL  string
	Hits int64
}

// CustomerUsage pairs a customer with their cumulative byte usage.
type CustomerUsage struct {
	Customer string
	Bytes    int64
}

// TopURLs ranks a URL-frequency map by hits descending, truncated to
// limit. Equal counts order by URL ascending, which gives callers a
// stable total order. A non-positive limit yields nil.
func TopURLs(hits map[string]int64, limit int) []URLCount {
	if limit <= 0 || len(hits) == 0 {
		return nil
	}

	ranked := make([]URLCount, 0, len(hits))
	for u, n := range hits {
		ranked = append(ranked, URLCount{URL: u, Hits: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Hits != ranked[j].Hits {
			return ranked[i].Hits > ranked[j].Hits
		}
		return ranked[i].URL < ranked[j].URL
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// RankCustomers orders customer usage by bytes descending, customer
// ascending among equal totals.
func RankCustomers(usage map[string]int64) []CustomerUsage {
	if len(usage) == 0 {
		return nil
	}

	ranked := make([]CustomerUsage, 0, len(usage))
	for c, b := range usage {
		ranked = append(ranked, CustomerUsage{Customer: c, Bytes: b})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Bytes != ranked[j].Bytes {
			return ranked[i].Bytes > ranked[j].Bytes
		}
		return ranked[i].Customer < ranked[j].Customer
	})

	return ranked
}
