// Package lemma provides the lemmatizer used by the lemmatize edit. Only
// English is supported.
package lemma

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedLanguage is returned for languages without a lemmatizer.
var ErrUnsupportedLanguage = errors.New("no lemmatizer for language")

// Lemmatizer computes the lemma of a word given its part-of-speech tag.
type Lemmatizer interface {
	Lemma(word, tag string) string
}

// ForLanguage returns the lemmatizer for lang.
func ForLanguage(lang string) (Lemmatizer, error) {
	if IsEnglish(lang) {
		return English{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
}

// IsEnglish accepts the spellings rule files use for English.
func IsEnglish(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en", "eng", "english", "universalenglish", "en-us", "en_us":
		return true
	}
	return false
}
