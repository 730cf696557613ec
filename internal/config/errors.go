package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	// ErrInvalidHost is returned when the host is empty or not an absolute http(s) URL.
	ErrInvalidHost = errors.New("invalid host: must be an absolute http or https URL")

	// ErrInvalidDays is returned when the number of days to scrape is not positive.
	ErrInvalidDays = errors.New("invalid days: must be positive")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the HTTP timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidThresholds is returned when the area bands overlap or are not ordered.
	ErrInvalidThresholds = errors.New("invalid thresholds: need 0 <= glyph_min < glyph_max <= structure")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid format: must be csv, json or sqlite")

	// ErrInvalidOrder is returned for an unknown glyph ordering.
	ErrInvalidOrder = errors.New("invalid order: must be discovery or left-to-right")

	// ErrInvalidPartialPolicy is returned for an unknown on-partial policy.
	ErrInvalidPartialPolicy = errors.New("invalid on-partial policy: must be keep or skip")

	// ErrInvalidRequiredIndex is returned when the required letter index falls
	// outside the expected letter count.
	ErrInvalidRequiredIndex = errors.New("invalid required index: must be within the expected letter count")

	// ErrEmptyPageLayout is returned when no page URL layout is configured.
	ErrEmptyPageLayout = errors.New("invalid page layout: must not be empty")
)
