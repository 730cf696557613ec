// Package page extracts puzzle statistics and the honeycomb image reference
// from a parsed nytbee.com puzzle page.
//
// Extraction is positional: the first four <h3> headings hold
// "label: value" statistics and the second <h2> holds the display date. A
// page whose layout differs yields a *FieldError instead of a partial
// result.
package page
