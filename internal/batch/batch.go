package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/bee-archive/internal/config"
	"github.com/pfrederiksen/bee-archive/internal/glyph"
	"github.com/pfrederiksen/bee-archive/internal/logger"
	"github.com/pfrederiksen/bee-archive/internal/page"
	"github.com/pfrederiksen/bee-archive/internal/puzzle"
	"github.com/pfrederiksen/bee-archive/internal/scraper"
)

// Fetcher retrieves pages and images. *scraper.Client implements it.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (*goquery.Document, error)
	FetchImage(ctx context.Context, url string) (image.Image, error)
}

// Recoverer reads the letters of a honeycomb image. *glyph.Engine
// implements it.
type Recoverer interface {
	Recover(img image.Image) (*glyph.Recovery, error)
}

// Options controls a batch run.
type Options struct {
	// Host is the site root image sources are resolved against.
	Host string
	// PageURL builds the page URL of a puzzle date.
	PageURL       func(day time.Time) string
	Days          int
	Concurrency   int
	RequiredIndex int
	ProgressEvery int
	// SkipPartial drops days whose letter count is off instead of keeping
	// them.
	SkipPartial bool
	// Now returns the current time; time.Now when nil.
	Now func() time.Time
}

// OptionsFromConfig copies the batch settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Host:          cfg.Host,
		PageURL:       cfg.PageURL,
		Days:          cfg.Days,
		Concurrency:   cfg.Concurrency,
		RequiredIndex: cfg.RequiredIndex,
		ProgressEvery: cfg.ProgressEvery,
		SkipPartial:   cfg.OnPartial == config.PartialSkip,
	}
}

// Driver runs scrapes.
type Driver struct {
	fetcher   Fetcher
	recoverer Recoverer
	opts      Options
}

// New creates a Driver.
func New(fetcher Fetcher, recoverer Recoverer, opts Options) *Driver {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PageURL == nil {
		cfg := config.NewConfig()
		if opts.Host != "" {
			cfg.Host = opts.Host
		}
		opts.PageURL = cfg.PageURL
	}
	return &Driver{fetcher: fetcher, recoverer: recoverer, opts: opts}
}

// Day is everything read for one puzzle date.
type Day struct {
	Date     time.Time
	URL      string
	ImageURL string
	Fields   page.Fields
	Image    image.Image
	Recovery *glyph.Recovery
}

// Fetch reads the page and honeycomb image of one date and recovers its
// letters. A partial recovery is not an error here.
func (d *Driver) Fetch(ctx context.Context, day time.Time) (*Day, error) {
	url := d.opts.PageURL(day)

	doc, err := d.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	fields, err := page.ExtractFields(doc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	src, err := page.ImageSource(doc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	imageURL, err := page.ResolveImageURL(d.opts.Host, src)
	if err != nil {
		return nil, err
	}

	img, err := d.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}

	rec, err := d.recoverer.Recover(img)
	if err != nil {
		return nil, fmt.Errorf("recovering letters from %s: %w", imageURL, err)
	}

	return &Day{
		Date:     day,
		URL:      url,
		ImageURL: imageURL,
		Fields:   fields,
		Image:    img,
		Recovery: rec,
	}, nil
}

// Scrape fetches one date and assembles its record. The record is returned
// with a partial-recovery or missing-required-letter error when the letters
// came out wrong.
func (d *Driver) Scrape(ctx context.Context, day time.Time) (puzzle.Record, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("page.duration", time.Since(start)) }()

	got, err := d.Fetch(ctx, day)
	if err != nil {
		logger.IncrCounter("pages.failed")
		return puzzle.Record{}, err
	}
	logger.IncrCounter("pages.fetched")

	rec := got.Recovery
	logger.AddCounter("letters.template", int64(rec.CountSource(glyph.SourceTemplate)))
	logger.AddCounter("letters.ocr", int64(rec.CountSource(glyph.SourceOCR)))

	record, err := puzzle.Assemble(day, got.URL, got.Fields, rec, d.opts.RequiredIndex)
	if perr := rec.Err(); perr != nil {
		logger.IncrCounter("recovery.partial")
		return record, perr
	}
	return record, err
}

// Summary counts what happened during a run.
type Summary struct {
	Attempted int           `json:"attempted"`
	Written   int           `json:"written"`
	Skipped   int           `json:"skipped"`
	Partial   int           `json:"partial"`
	Duration  time.Duration `json:"duration"`
}

// Result is the outcome of a run.
type Result struct {
	// Records holds one record per kept day, newest first.
	Records []puzzle.Record
	Summary Summary
}

type outcome struct {
	record  puzzle.Record
	kept    bool
	partial bool
}

// Run scrapes every candidate date. Per-day failures are logged and
// skipped. The error is non-nil only when ctx ends the run early, in which
// case the days finished so far are still returned.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	dates := puzzle.CandidateDates(d.opts.Now(), d.opts.Days)
	outcomes := make([]outcome, len(dates))

	logger.Info("starting scrape", logger.Fields{
		"days":        len(dates),
		"concurrency": d.opts.Concurrency,
	})

	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)

	for i, day := range dates {
		i, day := i, day
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			outcomes[i] = d.scrapeDay(gctx, day)

			n := done.Add(1)
			if d.opts.ProgressEvery > 0 && n%int64(d.opts.ProgressEvery) == 0 {
				logger.Info(fmt.Sprintf("on %d of %d", n, len(dates)), logger.Fields{
					"done":  n,
					"total": len(dates),
				})
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	res := &Result{}
	for _, o := range outcomes {
		if o.kept {
			res.Records = append(res.Records, o.record)
		}
		if o.partial {
			res.Summary.Partial++
		}
	}
	res.Summary.Attempted = int(done.Load())
	res.Summary.Written = len(res.Records)
	res.Summary.Skipped = res.Summary.Attempted - res.Summary.Written
	res.Summary.Duration = time.Since(start)

	logger.Info("scrape complete", logger.Fields{
		"attempted": res.Summary.Attempted,
		"written":   res.Summary.Written,
		"skipped":   res.Summary.Skipped,
		"partial":   res.Summary.Partial,
	})

	if err != nil {
		return res, fmt.Errorf("scrape interrupted: %w", err)
	}
	return res, nil
}

func (d *Driver) scrapeDay(ctx context.Context, day time.Time) outcome {
	key := day.Format(puzzle.KeyLayout)

	record, err := d.Scrape(ctx, day)
	if err == nil {
		return outcome{record: record, kept: true}
	}

	var partial *glyph.PartialError
	var status *scraper.StatusError
	switch {
	case errors.As(err, &partial), errors.Is(err, puzzle.ErrNoRequiredLetter):
		logger.Warn("letter count mismatch", logger.Fields{
			"date":    key,
			"letters": record.Letters,
			"error":   err.Error(),
			"skipped": d.opts.SkipPartial,
		})
		return outcome{record: record, kept: !d.opts.SkipPartial, partial: true}
	case errors.As(err, &status):
		logger.Warn("page not available", logger.Fields{
			"date":   key,
			"url":    status.URL,
			"status": status.StatusCode,
		})
	case ctx.Err() != nil:
		// cancelled mid-fetch; Run reports it
	default:
		logger.Warn("skipping day", logger.Fields{
			"date":  key,
			"error": err.Error(),
		})
	}
	return outcome{}
}
