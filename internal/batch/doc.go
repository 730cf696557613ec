// Package batch drives a scrape over a range of puzzle days.
//
// A Driver visits one page per candidate date, newest first, reads the
// page statistics and the honeycomb letters, and collects one puzzle.Record
// per day that could be read. Days whose page is missing or unreadable are
// logged and left out; the run itself only fails when its context is
// cancelled. Records come back in candidate-date order regardless of how
// many days are fetched at once.
package batch
