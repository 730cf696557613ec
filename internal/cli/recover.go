package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bee-archive/internal/batch"
	"github.com/pfrederiksen/bee-archive/internal/config"
	"github.com/pfrederiksen/bee-archive/internal/glyph"
	"github.com/pfrederiksen/bee-archive/internal/puzzle"
)

var (
	flagDate    string
	flagOverlay string
	flagDir     string
)

func newRecoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Read one day and show how its letters were found",
		Long: `Reads a single day's page and honeycomb image, then lists every
contour with its area and class, the letter each glyph resolved to and the
resulting record. With --overlay, also writes the image with the honeycomb
outlines and glyph boxes drawn on it, to check the area bands.`,
		Args: cobra.NoArgs,
		RunE: runRecover,
	}
	cmd.Flags().StringVar(&flagDate, "date", "", "Puzzle date as YYYYMMDD (required)")
	cmd.Flags().StringVar(&flagOverlay, "overlay", "", "Write an annotated PNG to this path")
	cmd.MarkFlagRequired("date")
	return cmd
}

func newGlyphsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glyphs",
		Short: "Write one day's glyph crops as PNG files",
		Long: `Writes every glyph crop of a day's honeycomb image to a directory.
Copy the crops of an O and a Q into the template directory as o.png and
q.png to rebuild the reference glyphs.`,
		Args: cobra.NoArgs,
		RunE: runGlyphs,
	}
	cmd.Flags().StringVar(&flagDate, "date", "", "Puzzle date as YYYYMMDD (required)")
	cmd.Flags().StringVar(&flagDir, "dir", "glyphs", "Output directory")
	cmd.MarkFlagRequired("date")
	return cmd
}

// fetchDay reads the day named by --date.
func fetchDay(cmd *cobra.Command) (*config.Config, *batch.Day, error) {
	day, err := puzzle.ParseKey(flagDate)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	driver, closer, err := newDriver(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer closer.Close()

	got, err := driver.Fetch(cmd.Context(), day)
	if err != nil {
		return nil, nil, err
	}
	return cfg, got, nil
}

func runRecover(cmd *cobra.Command, args []string) error {
	cfg, day, err := fetchDay(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	rec := day.Recovery

	fmt.Fprintf(w, "Page:  %s\nImage: %s\n\nContours:\n", day.URL, day.ImageURL)
	fmt.Fprint(w, rec.Describe())

	fmt.Fprintln(w, "\nGlyphs:")
	writeGlyphs(w, rec)

	record, err := puzzle.Assemble(day.Date, day.URL, day.Fields, rec, cfg.RequiredIndex)
	fmt.Fprintf(w, "\n%s: pangrams=%d score=%d words=%d genius=%d letters=%s required=%s\n",
		record.Date, record.NumPangram, record.MaxScore, record.MaxWords, record.MinGenius,
		record.Letters, record.RequiredLetter)
	if perr := rec.Err(); perr != nil {
		fmt.Fprintf(w, "warning: %v\n", perr)
	} else if err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}

	if flagOverlay != "" {
		if err := glyph.WritePNG(flagOverlay, glyph.Overlay(day.Image, rec)); err != nil {
			return fmt.Errorf("writing overlay: %w", err)
		}
		fmt.Fprintf(w, "Overlay written to %s\n", flagOverlay)
	}
	return nil
}

func writeGlyphs(w io.Writer, rec *glyph.Recovery) {
	for i, g := range rec.Glyphs {
		letter := "-"
		if g.Letter != 0 {
			letter = string(g.Letter)
		}
		fmt.Fprintf(w, "%3d %s %-8s area=%6.1f box=%v raw=%q\n", i, letter, g.Source, g.Area, g.Box, g.Raw)
	}
}

func runGlyphs(cmd *cobra.Command, args []string) error {
	_, day, err := fetchDay(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, g := range day.Recovery.Glyphs {
		name := fmt.Sprintf("%02d_%s.png", i, glyphLabel(g))
		path := filepath.Join(flagDir, name)
		if err := glyph.WritePNG(path, g.Crop); err != nil {
			return err
		}
		fmt.Fprintln(w, path)
	}
	fmt.Fprintf(w, "Wrote %d glyphs for %s\n", len(day.Recovery.Glyphs), day.Date.Format(puzzle.KeyLayout))
	return nil
}

// glyphLabel names a crop after its letter, or "unknown".
func glyphLabel(g glyph.Glyph) string {
	if g.Letter == 0 {
		return "unknown"
	}
	return string(g.Letter)
}
