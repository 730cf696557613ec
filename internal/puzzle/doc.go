// Package puzzle defines the per-day record produced by the scraper and the
// dates a batch run visits.
//
// A Record joins the statistics read from a day's page with the letters
// recovered from its honeycomb image. Records are built by Assemble, which
// also picks the required (center) letter out of the recovered sequence.
package puzzle
