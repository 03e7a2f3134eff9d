package aggregate

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/j-veylop/webtally/internal/logger"
	"github.com/j-veylop/webtally/internal/logline"
	"github.com/j-veylop/webtally/internal/models"
)

// Policy selects how the aggregator treats lines that fail to parse.
type Policy int

const (
	// PolicyFailFast aborts the whole run on the first bad line.
	PolicyFailFast Policy = iota
	// PolicySkip drops the bad line, counts it in Tally.Skipped, and
	// continues with the rest of the file.
	PolicySkip
)

// String returns the policy's configuration name.
func (p Policy) String() string {
	if p == PolicySkip {
		return "skip"
	}
	return "fail"
}

// maxLineSize caps the scanner buffer; referrer and user-agent fields
// can push real log lines past the bufio default.
const maxLineSize = 1 << 20

// Aggregator folds the lines of one source into a Tally.
type Aggregator struct {
	Extractor    logline.Extractor
	OnsiteMarker string
	Policy       Policy
}

// NewAggregator creates an aggregator. An empty on-site marker
// defaults to "example.com".
func NewAggregator(ex logline.Extractor, onsiteMarker string, policy Policy) Aggregator {
	if onsiteMarker == "" {
		onsiteMarker = "example.com"
	}
	return Aggregator{
		Extractor:    ex,
		OnsiteMarker: onsiteMarker,
		Policy:       policy,
	}
}

// Read streams r line by line into a fresh tally. Under PolicyFailFast
// the first unparseable line aborts the read with its line number;
// under PolicySkip it is counted and the stream continues.
func (a Aggregator) Read(r io.Reader) (Tally, error) {
	tally := Zero()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		rec, err := a.parse(sc.Text())
		if err != nil {
			if a.Policy == PolicySkip {
				tally.Skipped++
				logger.Debug("skipping unparseable line", "line", lineNo, "error", err)
				continue
			}
			return Zero(), fmt.Errorf("line %d: %w", lineNo, err)
		}
		tally.Add(rec, Offsite(rec.ReferrerHost, a.OnsiteMarker))
	}
	if err := sc.Err(); err != nil {
		return Zero(), fmt.Errorf("read log: %w", err)
	}

	return tally, nil
}

// ReadFile aggregates one log file into a tally. Files ending in .gz
// are decompressed transparently. Errors carry the file path so a
// failed run names its source.
func (a Aggregator) ReadFile(path string) (Tally, error) {
	f, err := os.Open(path)
	if err != nil {
		return Zero(), fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Zero(), fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	tally, err := a.Read(r)
	if err != nil {
		return Zero(), fmt.Errorf("%s: %w", path, err)
	}
	return tally, nil
}

func (a Aggregator) parse(line string) (models.Record, error) {
	tokens, err := logline.Tokenize(line)
	if err != nil {
		return models.Record{}, err
	}
	return a.Extractor.Record(tokens)
}
