package errors

import (
	"unicode"
	"unicode/utf8"
)

const (
	// MaxLyricsBytes bounds the lyrics accepted from untrusted callers.
	MaxLyricsBytes = 64 << 10

	// MaxTokenRunes bounds the band name accepted from untrusted callers.
	MaxTokenRunes = 64
)

// ValidateLyrics validates lyrics text received from a user.
//
// The validation rules are intentionally conservative:
//   - No empty text
//   - Valid UTF-8 only
//   - No control characters other than tab, newline and carriage return
//   - Maximum size of MaxLyricsBytes
//
// An empty lyrics string is reported as EMPTY_INPUT so callers can map it to
// the layout sentinel rather than a request error.
func ValidateLyrics(text string) error {
	if text == "" {
		return New(ErrCodeEmptyInput, "lyrics cannot be empty")
	}
	if len(text) > MaxLyricsBytes {
		return New(ErrCodeInvalidInput, "lyrics too long (max %d bytes)", MaxLyricsBytes)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "lyrics must be valid UTF-8")
	}
	for _, r := range text {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "lyrics contain invalid control characters")
		}
	}
	return nil
}

// ValidateToken validates a band name received from a user.
func ValidateToken(token string) error {
	if token == "" {
		return New(ErrCodeEmptyInput, "band name cannot be empty")
	}
	if !utf8.ValidString(token) {
		return New(ErrCodeInvalidInput, "band name must be valid UTF-8")
	}
	if n := utf8.RuneCountInString(token); n > MaxTokenRunes {
		return New(ErrCodeInvalidInput, "band name too long (max %d characters, got %d)", MaxTokenRunes, n)
	}
	for _, r := range token {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "band name contains invalid control characters")
		}
	}
	return nil
}

// ValidateLineBounds checks a minimum/maximum line length pair and an
// optional cap schedule.
func ValidateLineBounds(minChars, maxChars int, caps []int) error {
	if minChars < 0 {
		return New(ErrCodeInvalidConfig, "min line chars must not be negative (got %d)", minChars)
	}
	if maxChars <= 0 {
		return New(ErrCodeInvalidConfig, "max line chars must be positive (got %d)", maxChars)
	}
	for _, c := range caps {
		if c <= 0 {
			return New(ErrCodeInvalidConfig, "cap schedule entries must be positive (got %d)", c)
		}
	}
	return nil
}
