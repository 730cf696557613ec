// Package cli implements the command-line interface for bee-archive.
//
// The root command carries the settings every subcommand shares (config
// file, log level, site host, template directory, glyph order). Subcommands:
//
//	scrape   walk back over N days and write the result table
//	recover  read one day and show every contour, letter and an overlay
//	glyphs   dump one day's glyph crops, to rebuild the O and Q templates
//
// Flags override values from the YAML config file, which in turn override
// the built-in defaults.
package cli
