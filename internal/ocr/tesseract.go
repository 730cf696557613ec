package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Whitelist limits recognition to the characters a puzzle letter can be
// read as.
const Whitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ|"

// Tesseract reads single characters with one long-lived Tesseract client.
// The client is not safe for concurrent use, so calls are serialized.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// Option configures a Tesseract recognizer.
type Option func(*gosseract.Client) error

// WithLanguage selects the trained data set, "eng" by default. An empty
// name keeps the default.
func WithLanguage(lang string) Option {
	return func(c *gosseract.Client) error {
		if lang == "" {
			return nil
		}
		return c.SetLanguage(lang)
	}
}

// WithWhitelist restricts the characters Tesseract may return. An empty
// whitelist lifts the restriction.
func WithWhitelist(chars string) Option {
	return func(c *gosseract.Client) error {
		if chars == "" {
			return nil
		}
		return c.SetWhitelist(chars)
	}
}

// New creates a recognizer in single-character mode. Close it when done.
func New(opts ...Option) (*Tesseract, error) {
	client := gosseract.NewClient()
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	for _, opt := range opts {
		if err := opt(client); err != nil {
			client.Close()
			return nil, fmt.Errorf("configuring tesseract: %w", err)
		}
	}
	return &Tesseract{client: client}, nil
}

// Recognize returns Tesseract's raw text for one glyph crop.
func (t *Tesseract) Recognize(glyph *image.Gray) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, glyph); err != nil {
		return "", fmt.Errorf("encoding glyph: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("loading glyph: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("reading glyph: %w", err)
	}
	return text, nil
}

// Version reports the linked Tesseract version.
func (t *Tesseract) Version() string {
	return t.client.Version()
}

// Close releases the Tesseract client.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
