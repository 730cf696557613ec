package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths.
	AppName = "bee-archive"

	// DefaultHost serves both the puzzle pages and the honeycomb images.
	DefaultHost = "https://nytbee.com/"

	// DefaultPageLayout is a time layout producing the page path for one date,
	// e.g. Bee_20210515.html.
	DefaultPageLayout = "Bee_20060102.html"

	// DefaultDays is the number of dates scraped, counting back from today.
	DefaultDays = 500

	// DefaultUserAgent mimics a browser; the site rejects default client
	// identifiers.
	DefaultUserAgent = "Chrome"

	// DefaultTimeout bounds a single HTTP request. Zero disables the limit.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency of 1 processes one date at a time.
	DefaultConcurrency = 1

	// DefaultOutput is the table file written at the end of a scrape.
	DefaultOutput = "nytbee.csv"

	// DefaultFormat is the table file format.
	DefaultFormat = "csv"

	// Contour area bands, tuned for the site's honeycomb rendering size.
	DefaultGlyphMinArea     = 50.0
	DefaultGlyphMaxArea     = 300.0
	DefaultStructureMinArea = 400.0

	// DefaultExpectedLetters is the letter count of a complete puzzle.
	DefaultExpectedLetters = 7

	// DefaultRequiredIndex is the position of the center letter.
	DefaultRequiredIndex = 3

	// DefaultProgressEvery is how many processed pages pass between progress lines.
	DefaultProgressEvery = 5

	// Template file names inside the template directory.
	TemplateOFile = "o.png"
	TemplateQFile = "q.png"
)

// Output formats.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Glyph orderings.
const (
	OrderDiscovery   = "discovery"
	OrderLeftToRight = "left-to-right"
)

// Partial recognition policies.
const (
	PartialKeep = "keep"
	PartialSkip = "skip"
)

// Thresholds are the contour area bands used to classify contours.
type Thresholds struct {
	GlyphMin  float64 `yaml:"glyph_min"`
	GlyphMax  float64 `yaml:"glyph_max"`
	Structure float64 `yaml:"structure"`
}

// Templates locates the O and Q reference glyphs. Empty paths disable the
// matching template.
type Templates struct {
	O string `yaml:"o"`
	Q string `yaml:"q"`
}

// Config holds all configuration options for a run.
type Config struct {
	Host        string        `yaml:"host"`
	PageLayout  string        `yaml:"page_layout"`
	Days        int           `yaml:"days"`
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`

	Output string `yaml:"output"`
	Format string `yaml:"format"`

	Templates       Templates  `yaml:"templates"`
	Thresholds      Thresholds `yaml:"thresholds"`
	ExpectedLetters int        `yaml:"expected_letters"`
	RequiredIndex   int        `yaml:"required_index"`
	Order           string     `yaml:"order"`
	OnPartial       string     `yaml:"on_partial"`
	ProgressEvery   int        `yaml:"progress_every"`

	// OCRLanguage is the Tesseract trained data set.
	OCRLanguage string `yaml:"ocr_language"`
	// OCRWhitelist, when set, limits the characters Tesseract may return.
	OCRWhitelist string `yaml:"ocr_whitelist"`

	LogLevel string `yaml:"log_level"`
}

// NewConfig creates a Config with default values. Template paths point into
// the XDG data directory.
func NewConfig() *Config {
	return &Config{
		Host:        DefaultHost,
		PageLayout:  DefaultPageLayout,
		Days:        DefaultDays,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		Output:      DefaultOutput,
		Format:      DefaultFormat,
		Templates: Templates{
			O: filepath.Join(TemplateDir(), TemplateOFile),
			Q: filepath.Join(TemplateDir(), TemplateQFile),
		},
		Thresholds: Thresholds{
			GlyphMin:  DefaultGlyphMinArea,
			GlyphMax:  DefaultGlyphMaxArea,
			Structure: DefaultStructureMinArea,
		},
		ExpectedLetters: DefaultExpectedLetters,
		RequiredIndex:   DefaultRequiredIndex,
		Order:           OrderDiscovery,
		OnPartial:       PartialKeep,
		ProgressEvery:   DefaultProgressEvery,
		OCRLanguage:     "eng",
		LogLevel:        "info",
	}
}

// XDGConfigDir returns the configuration directory, e.g. ~/.config/bee-archive.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the data directory, e.g. ~/.local/share/bee-archive.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// TemplateDir returns the default directory of the O and Q reference glyphs.
func TemplateDir() string {
	return filepath.Join(XDGDataDir(), "templates")
}

// UseTemplateDir points both template paths into dir.
func (c *Config) UseTemplateDir(dir string) {
	c.Templates.O = filepath.Join(dir, TemplateOFile)
	c.Templates.Q = filepath.Join(dir, TemplateQFile)
}

// PageURL returns the puzzle page URL for date.
func (c *Config) PageURL(date time.Time) string {
	host := c.Host
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	return host + date.Format(c.PageLayout)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidHost
	}
	if c.PageLayout == "" {
		return ErrEmptyPageLayout
	}
	if c.Days <= 0 {
		return ErrInvalidDays
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	th := c.Thresholds
	if th.GlyphMin < 0 || th.GlyphMin >= th.GlyphMax || th.GlyphMax > th.Structure {
		return ErrInvalidThresholds
	}

	switch c.Format {
	case FormatCSV, FormatJSON, FormatSQLite:
	default:
		return ErrInvalidFormat
	}
	switch c.Order {
	case OrderDiscovery, OrderLeftToRight:
	default:
		return ErrInvalidOrder
	}
	switch c.OnPartial {
	case PartialKeep, PartialSkip:
	default:
		return ErrInvalidPartialPolicy
	}

	if c.ExpectedLetters <= 0 || c.RequiredIndex < 0 || c.RequiredIndex >= c.ExpectedLetters {
		return ErrInvalidRequiredIndex
	}

	return nil
}
