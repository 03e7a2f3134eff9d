// Package report renders scan results as plain-text tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/j-veylop/webtally/internal/config"
	"github.com/j-veylop/webtally/internal/services/scanner"
)

// Render writes the off-site summary, the top requested URLs, and the
// per-customer usage breakdown.
func Render(w io.Writer, res *scanner.Result, cfg *config.Config) {
	tally := res.Tally

	fmt.Fprintf(w, "Off-site requests: %d of %d (%.2f %%)\n\n",
		tally.Offsite, tally.Total, tally.OffsitePercent())

	fmt.Fprintf(w, "Top %d URLs\n", cfg.TopLimit)
	urls := tablewriter.NewWriter(w)
	urls.SetHeader([]string{"Rank", "URL", "Hits"})
	for i, u := range res.TopURLs {
		urls.Append([]string{
			strconv.Itoa(i + 1),
			u.URL,
			strconv.FormatInt(u.Hits, 10),
		})
	}
	urls.Render()

	fmt.Fprintf(w, "\nCustomer usage\n")
	usage := tablewriter.NewWriter(w)
	usage.SetHeader([]string{"Customer", "Bytes", "Usage"})
	for _, c := range res.Customers {
		usage.Append([]string{
			c.Customer,
			strconv.FormatInt(c.Bytes, 10),
			FormatGB(c.Bytes, cfg.GigabyteDivisor),
		})
	}
	usage.Render()

	if tally.Skipped > 0 {
		fmt.Fprintf(w, "\nSkipped %d malformed line(s)\n", tally.Skipped)
	}
}

// RenderFiles writes the per-file breakdown for verbose runs.
func RenderFiles(w io.Writer, res *scanner.Result) {
	fmt.Fprintf(w, "\nScanned %d file(s) in %s\n", len(res.Files), res.Elapsed.Round(time.Millisecond))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Records", "Skipped", "Bytes", "Elapsed"})
	for _, stat := range res.Files {
		table.Append([]string{
			stat.Path,
			strconv.FormatInt(stat.Records, 10),
			strconv.FormatInt(stat.Skipped, 10),
			humanize.Bytes(uint64(stat.Bytes)),
			stat.Elapsed.Round(time.Millisecond).String(),
		})
	}
	table.Render()
}

// FormatGB renders a byte count in gigabytes with two decimals.
func FormatGB(bytes int64, divisor float64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/divisor)
}
