package scanner

import (
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j-veylop/webtally/internal/aggregate"
	"github.com/j-veylop/webtally/internal/config"
	"github.com/j-veylop/webtally/internal/logline"
)

const logOne = `203.0.113.7 - - [10/Oct/2025:13:55:36 +0000] "GET /bob/one.html HTTP/1.1" 200 100 "http://example.com/home" "Mozilla/5.0"
198.51.100.2 - - [10/Oct/2025:13:55:40 +0000] "GET /alice/page.html HTTP/1.1" 200 2048 "http://other.org/link" "Mozilla/5.0"
`

const logTwo = `203.0.113.7 - - [10/Oct/2025:14:01:12 +0000] "GET /bob/two.html HTTP/1.1" 404 50 "http://example.com/home" "Mozilla/5.0"
`

func testConfig(logDir string) *config.Config {
	return &config.Config{
		LogDir:          logDir,
		OnsiteMarker:    config.DefaultOnsiteMarker,
		SuccessPrefix:   config.DefaultSuccessPrefix,
		OnMalformed:     "fail",
		TopLimit:        config.DefaultTopLimit,
		Workers:         4,
		RequestIndex:    config.DefaultRequestIndex,
		StatusIndex:     config.DefaultStatusIndex,
		BytesIndex:      config.DefaultBytesIndex,
		ReferrerIndex:   config.DefaultReferrerIndex,
		GigabyteDivisor: config.DefaultGigabyteDivisor,
	}
}

func drainEvents(svc *Service) []Event {
	var events []Event
	for {
		select {
		case event := <-svc.Events():
			events = append(events, event)
		default:
			return events
		}
	}
}

func TestScan_TwoFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "access1.log", logOne)
	writeFile(t, tmpDir, "access2.log", logTwo)

	svc := New(testConfig(tmpDir))

	res, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if res.Tally.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Tally.Total)
	}

	if res.Tally.Offsite != 1 {
		t.Errorf("Offsite = %d, want 1", res.Tally.Offsite)
	}

	if got := res.Tally.CustomerBytes["bob"]; got != 150 {
		t.Errorf("bob bytes = %d, want 150 (summed across files)", got)
	}

	if got := res.Tally.CustomerBytes["alice"]; got != 2048 {
		t.Errorf("alice bytes = %d, want 2048", got)
	}

	if len(res.Tally.URLHits) != 2 {
		t.Errorf("got %d distinct successful URLs, want 2: %v", len(res.Tally.URLHits), res.Tally.URLHits)
	}

	if _, ok := res.Tally.URLHits["/bob/two.html"]; ok {
		t.Error("404 request should not count toward URL hits")
	}

	if len(res.Files) != 2 {
		t.Fatalf("got %d file stats, want 2", len(res.Files))
	}

	if res.Files[0].Path > res.Files[1].Path {
		t.Errorf("file stats not sorted by path: %s before %s", res.Files[0].Path, res.Files[1].Path)
	}

	if len(res.Customers) == 0 || res.Customers[0].Customer != "alice" {
		t.Errorf("Customers = %v, want alice ranked first", res.Customers)
	}

	if len(res.TopURLs) != 2 {
		t.Errorf("got %d top URLs, want 2", len(res.TopURLs))
	}
}

func TestScan_DefaultsToLogDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "access.log", logOne)

	svc := New(testConfig(tmpDir))

	res, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if res.Tally.Total != 2 {
		t.Errorf("Total = %d, want 2", res.Tally.Total)
	}
}

func TestScan_Gzip(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "access1.log", logOne)

	gzPath := filepath.Join(tmpDir, "access2.log.gz")
	f, err := os.Create(gzPath)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(logTwo)); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip Close() failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file Close() failed: %v", err)
	}

	svc := New(testConfig(tmpDir))

	res, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if res.Tally.Total != 3 {
		t.Errorf("Total = %d, want 3 (plain + gzip)", res.Tally.Total)
	}

	if got := res.Tally.CustomerBytes["bob"]; got != 150 {
		t.Errorf("bob bytes = %d, want 150", got)
	}
}

func TestScan_FailFastNamesFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "good.log", logOne)
	writeFile(t, tmpDir, "bad.log",
		`203.0.113.7 - - [10/Oct/2025:14:01:12 +0000] "GET /carol/x.html HTTP/1.1" 200 oops "http://example.com/" "Mozilla/5.0"`+"\n")

	svc := New(testConfig(tmpDir))

	_, err := svc.Scan(context.Background())
	if err == nil {
		t.Fatal("Scan() should fail on an invalid byte count")
	}

	if !errors.Is(err, logline.ErrInvalidByteCount) {
		t.Errorf("error %v should wrap ErrInvalidByteCount", err)
	}

	if !strings.Contains(err.Error(), "bad.log") {
		t.Errorf("error %q should name the failing file", err)
	}
}

func TestScan_SkipPolicy(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "mixed.log", logOne+
		`203.0.113.7 - - [10/Oct/2025:14:01:12 +0000] "GET /carol/x.html HTTP/1.1" 200 oops "http://example.com/" "Mozilla/5.0"`+"\n")

	cfg := testConfig(tmpDir)
	cfg.OnMalformed = "skip"
	svc := New(cfg)

	res, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if res.Tally.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Tally.Skipped)
	}

	if res.Tally.Total != 2 {
		t.Errorf("Total = %d, want 2 (bad line excluded)", res.Tally.Total)
	}

	if _, ok := res.Tally.CustomerBytes["carol"]; ok {
		t.Error("skipped line should not contribute to customer usage")
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	svc := New(testConfig(t.TempDir()))

	res, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if res.Tally.Total != 0 {
		t.Errorf("Total = %d, want 0", res.Tally.Total)
	}

	if got := res.Tally.OffsitePercent(); got != 0 {
		t.Errorf("OffsitePercent() = %f, want 0 for empty input", got)
	}
}

func TestScan_TopLimit(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "access.log", logOne)

	cfg := testConfig(tmpDir)
	cfg.TopLimit = 1
	svc := New(cfg)

	res, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if len(res.TopURLs) != 1 {
		t.Errorf("got %d top URLs, want 1", len(res.TopURLs))
	}
}

func TestScan_Events(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "access1.log", logOne)
	writeFile(t, tmpDir, "access2.log", logTwo)

	svc := New(testConfig(tmpDir))

	if _, err := svc.Scan(context.Background()); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	events := drainEvents(svc)
	if len(events) < 4 {
		t.Fatalf("got %d events, want at least 4", len(events))
	}

	if events[0].Type != EventScanStarted {
		t.Errorf("first event type = %v, want EventScanStarted", events[0].Type)
	}

	if events[0].Files != 2 {
		t.Errorf("EventScanStarted.Files = %d, want 2", events[0].Files)
	}

	tallied := 0
	for _, event := range events {
		if event.Type == EventFileTallied {
			tallied++
		}
	}
	if tallied != 2 {
		t.Errorf("got %d EventFileTallied events, want 2", tallied)
	}

	last := events[len(events)-1]
	if last.Type != EventScanCompleted {
		t.Errorf("last event type = %v, want EventScanCompleted", last.Type)
	}

	if last.Result == nil {
		t.Fatal("EventScanCompleted.Result should not be nil")
	}

	if last.Result.Tally.Total != 3 {
		t.Errorf("completed result Total = %d, want 3", last.Result.Tally.Total)
	}
}

func TestScan_FailureEvent(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "bad.log",
		`203.0.113.7 - - [10/Oct/2025:14:01:12 +0000] "GET /carol/x.html HTTP/1.1" 200 oops "http://example.com/" "Mozilla/5.0"`+"\n")

	svc := New(testConfig(tmpDir))

	if _, err := svc.Scan(context.Background()); err == nil {
		t.Fatal("Scan() should fail")
	}

	events := drainEvents(svc)
	if len(events) == 0 {
		t.Fatal("expected events from a failed scan")
	}

	last := events[len(events)-1]
	if last.Type != EventScanFailed {
		t.Errorf("last event type = %v, want EventScanFailed", last.Type)
	}

	if last.Err == nil {
		t.Error("EventScanFailed.Err should not be nil")
	}
}

func TestScan_Cancelled(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "access.log", logOne)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := New(testConfig(tmpDir))

	if _, err := svc.Scan(ctx); err == nil {
		t.Fatal("Scan() should fail when the context is already cancelled")
	}
}

func TestNew_SkipPolicy(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.OnMalformed = "skip"

	svc := New(cfg)
	if svc.agg.Policy != aggregate.PolicySkip {
		t.Errorf("policy = %v, want PolicySkip", svc.agg.Policy)
	}
}

func TestResult_Stats(t *testing.T) {
	var nilResult *Result
	if got := nilResult.Stats(); got.Records != 0 || got.Files != 0 {
		t.Errorf("nil result Stats() = %+v, want zero value", got)
	}

	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "access1.log", logOne)
	writeFile(t, tmpDir, "access2.log", logTwo)

	svc := New(testConfig(tmpDir))

	res, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	stats := res.Stats()
	if stats.Files != 2 {
		t.Errorf("Stats().Files = %d, want 2", stats.Files)
	}
	if stats.Records != 3 {
		t.Errorf("Stats().Records = %d, want 3", stats.Records)
	}
	if stats.Offsite != 1 {
		t.Errorf("Stats().Offsite = %d, want 1", stats.Offsite)
	}
	if stats.Bytes != 2198 {
		t.Errorf("Stats().Bytes = %d, want 2198", stats.Bytes)
	}
	if stats.LastScan.IsZero() {
		t.Error("Stats().LastScan should be set")
	}
}
