package glyph

import "regexp"

// ocrLetters matches a run of capitals; '|' is how the recognizer often
// reads a sans-serif I.
var ocrLetters = regexp.MustCompile(`[A-Z|]+`)

// CleanOCR extracts the letter from raw recognizer output: the first
// character of the first run of capitals, with '|' read as 'I'. It reports
// false when the output holds no such run.
func CleanOCR(raw string) (rune, bool) {
	run := ocrLetters.FindString(raw)
	if run == "" {
		return 0, false
	}
	if run[0] == '|' {
		return 'I', true
	}
	return rune(run[0]), true
}
