package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/bee-archive/internal/batch"
	"github.com/pfrederiksen/bee-archive/internal/config"
	"github.com/pfrederiksen/bee-archive/internal/glyph"
	"github.com/pfrederiksen/bee-archive/internal/logger"
)

var (
	glyphSize = image.Pt(12, 14)
	honeycomb = []image.Point{
		{40, 5}, {20, 20}, {60, 20}, {40, 35}, {20, 50}, {60, 50}, {40, 65},
	}
	// T O I L Q E R, with O and Q drawn as 200 and 210
	dayValues = []uint8{10, 200, 30, 40, 210, 60, 70}
	letterOf  = map[uint8]string{10: "T", 30: "I", 40: "L", 60: "E", 70: "R"}
)

func solid(v uint8) *image.Gray {
	img := image.NewGray(image.Rectangle{Max: glyphSize})
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func honeycombPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 90, 90))
	for i, v := range dayValues {
		r := image.Rectangle{Min: honeycomb[i], Max: honeycomb[i].Add(glyphSize)}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// newSite serves a page and image for every date.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	img := honeycombPNG(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/pics/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/Bee_"), ".html")
		if len(key) != 8 {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<html><body><h2>Spelling Bee</h2><h2>Day %s</h2>
<h3>Number of Pangrams: 2</h3><h3>Maximum Puzzle Score: 180</h3>
<h3>Number of Answers: 40</h3><h3>Points Needed for Genius: 126</h3>
<div id="bee-pic"><img src="pics/%s.png"></div></body></html>`, key, key)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type fakeOCR struct{}

func (fakeOCR) Recognize(g *image.Gray) (string, error) {
	return letterOf[g.GrayAt(0, 0).Y], nil
}

func (fakeOCR) Close() error { return nil }

// setup installs the fake recognizer, writes the reference glyphs and
// returns their directory.
func setup(t *testing.T) string {
	t.Helper()
	orig := newRecognizer
	newRecognizer = func(*config.Config) (glyph.Recognizer, io.Closer, error) {
		return fakeOCR{}, fakeOCR{}, nil
	}
	oldLogger := logger.Default()
	t.Cleanup(func() {
		newRecognizer = orig
		logger.SetDefault(oldLogger)
	})

	dir := t.TempDir()
	if err := glyph.WritePNG(filepath.Join(dir, config.TemplateOFile), solid(200)); err != nil {
		t.Fatal(err)
	}
	if err := glyph.WritePNG(filepath.Join(dir, config.TemplateQFile), solid(210)); err != nil {
		t.Fatal(err)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScrapeCommand(t *testing.T) {
	templates := setup(t)
	srv := newSite(t)
	out := filepath.Join(t.TempDir(), "bee.csv")

	stdout, stderr, err := run(t, "scrape",
		"--host", srv.URL, "--templates", templates,
		"--days", "3", "--output", out, "--summary", "json")
	if err != nil {
		t.Fatalf("scrape failed: %v\n%s", err, stderr)
	}

	var result OutputResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("summary is not JSON: %v\n%s", err, stdout)
	}
	if result.Summary.Written != 3 || result.Summary.Attempted != 3 {
		t.Errorf("Summary = %+v", result.Summary)
	}
	if result.Metrics.Counters["letters.template"] != 6 || result.Metrics.Counters["letters.ocr"] != 15 {
		t.Errorf("Counters = %v", result.Metrics.Counters)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("output has %d lines, want header + 3:\n%s", len(lines), data)
	}
	today := time.Now().Format("20060102")
	want := fmt.Sprintf("Day %s,2,180,40,126,TOILQER,L", today)
	if lines[1] != want {
		t.Errorf("first row = %q, want %q", lines[1], want)
	}
}

func TestScrapeCommand_TextSummary(t *testing.T) {
	templates := setup(t)
	srv := newSite(t)
	out := filepath.Join(t.TempDir(), "bee.json")

	stdout, _, err := run(t, "scrape",
		"--host", srv.URL, "--templates", templates,
		"--days", "2", "--output", out, "--format", "json", "--concurrency", "2")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if !strings.Contains(stdout, "Scraped 2 of 2 days") || !strings.Contains(stdout, "pages.fetched") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil || len(records) != 2 {
		t.Errorf("output = %s (err %v)", data, err)
	}
}

func TestScrapeCommand_MissingTemplatesUseOCR(t *testing.T) {
	setup(t)
	srv := newSite(t)
	out := filepath.Join(t.TempDir(), "bee.csv")

	_, stderr, err := run(t, "scrape",
		"--host", srv.URL, "--templates", t.TempDir(),
		"--days", "1", "--output", out, "--on-partial", "skip")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if !strings.Contains(stderr, "reference glyph not found") {
		t.Errorf("missing template not logged:\n%s", stderr)
	}

	// Without templates the fake recognizer cannot read O or Q.
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 1 {
		t.Errorf("partial day should be skipped, output:\n%s", data)
	}
}

func TestScrapeCommand_InvalidFlags(t *testing.T) {
	setup(t)
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad format", []string{"scrape", "--format", "xml"}, "invalid configuration"},
		{"bad summary", []string{"scrape", "--summary", "yaml"}, "invalid summary format"},
		{"bad order", []string{"scrape", "--order", "spiral"}, "invalid configuration"},
		{"bad partial policy", []string{"scrape", "--on-partial", "maybe"}, "invalid configuration"},
		{"zero days", []string{"scrape", "--days", "0"}, "invalid configuration"},
		{"bad log level", []string{"scrape", "--log-level", "loud"}, "unknown log level"},
		{"missing config", []string{"scrape", "--config", "/nonexistent/bee.yaml"}, "configuration file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestScrapeCommand_ConfigFile(t *testing.T) {
	templates := setup(t)
	srv := newSite(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "from-config.csv")

	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf("host: %s\ndays: 2\noutput: %s\nlog_level: warn\n", srv.URL, out)
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := run(t, "scrape", "--config", cfgPath, "--templates", templates)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if strings.Contains(stderr, `"level":"INFO"`) {
		t.Errorf("log_level warn still logged info lines:\n%s", stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("config output path not used: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 3 {
		t.Errorf("output has %d lines, want 3", lines)
	}
}

func TestRecoverCommand(t *testing.T) {
	templates := setup(t)
	srv := newSite(t)
	overlay := filepath.Join(t.TempDir(), "overlay.png")

	stdout, _, err := run(t, "recover", "--host", srv.URL, "--templates", templates,
		"--date", "20210515", "--overlay", overlay)
	if err != nil {
		t.Fatalf("recover failed: %v", err)
	}

	for _, want := range []string{
		"Bee_20210515.html",
		"pics/20210515.png",
		"glyph",
		"letters=TOILQER required=L",
		"  1 O template",
		"Overlay written to",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}

	f, err := os.Open(overlay)
	if err != nil {
		t.Fatalf("overlay not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("overlay is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 90 {
		t.Errorf("overlay width = %d, want 90", img.Bounds().Dx())
	}
}

func TestRecoverCommand_Errors(t *testing.T) {
	setup(t)
	srv := newSite(t)

	if _, _, err := run(t, "recover"); err == nil {
		t.Error("expected error without --date")
	}
	if _, _, err := run(t, "recover", "--date", "15/05/2021"); err == nil || !strings.Contains(err.Error(), "YYYYMMDD") {
		t.Errorf("error = %v, want date format error", err)
	}
	if _, _, err := run(t, "recover", "--host", srv.URL+"/missing/", "--date", "20210515"); err == nil {
		t.Error("expected error for a missing page")
	}
}

func TestGlyphsCommand(t *testing.T) {
	templates := setup(t)
	srv := newSite(t)
	dir := filepath.Join(t.TempDir(), "crops")

	stdout, _, err := run(t, "glyphs", "--host", srv.URL, "--templates", templates,
		"--date", "20210515", "--dir", dir)
	if err != nil {
		t.Fatalf("glyphs failed: %v", err)
	}
	if !strings.Contains(stdout, "Wrote 7 glyphs for 20210515") {
		t.Errorf("unexpected output:\n%s", stdout)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := "00_T.png 01_O.png 02_I.png 03_L.png 04_Q.png 05_E.png 06_R.png"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("files = %s, want %s", got, want)
	}

	// A dumped crop loads back as a matching template.
	ts, err := glyph.LoadTemplates(filepath.Join(dir, "01_O.png"), "")
	if err != nil {
		t.Fatal(err)
	}
	if l, ok := ts.Match(solid(200)); !ok || l != 'O' {
		t.Errorf("dumped O crop does not match: %q %v", l, ok)
	}
}

func TestWriteOutput(t *testing.T) {
	m := logger.NewMetrics()
	m.AddCounter("pages.fetched", 3)
	m.RecordTiming("page.duration", 120*time.Millisecond)

	result := &OutputResult{
		Output:  "nytbee.csv",
		Format:  "csv",
		Summary: batch.Summary{Attempted: 5, Written: 3, Skipped: 2, Partial: 1, Duration: 2 * time.Second},
		Metrics: m.GetSnapshot(),
	}

	var buf bytes.Buffer
	if err := WriteOutput(&buf, result, FormatText); err != nil {
		t.Fatalf("WriteOutput() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Scraped 3 of 5 days in 2s",
		"skipped: 2",
		"partial letters: 1",
		"Wrote nytbee.csv (csv)",
		"pages.fetched",
		"avg 120ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteOutput(&buf, &OutputResult{}, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "No days scraped." {
		t.Errorf("empty result = %q", buf.String())
	}

	if err := WriteOutput(&buf, result, OutputFormat("xml")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Order = config.OrderLeftToRight
	cfg.Thresholds.GlyphMin = 60

	opts, err := engineOptions(cfg)
	if err != nil {
		t.Fatalf("engineOptions() error: %v", err)
	}
	if opts.Order != glyph.OrderLeftToRight || opts.Thresholds.GlyphMin != 60 || opts.ExpectedLetters != 7 {
		t.Errorf("engineOptions() = %+v", opts)
	}
}
