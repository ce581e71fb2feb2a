// Package validate provides pure validators for the intake fields.
//
// Each validator takes raw user text and returns either a normalized value or
// a rejection error. Validators are total over arbitrary input: malformed text
// produces a rejection, never a panic.
package validate

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Field range constants.
const (
	MinNameLength = 2
	MaxNameLength = 50
	MinAge        = 16
	MaxAge        = 100
	// AgeCautionThreshold marks ages that are accepted but trigger an
	// additional cautionary message.
	AgeCautionThreshold = 65
	MinHeightCm         = 100
	MaxHeightCm         = 250
	MinWeightKg         = 30
	MaxWeightKg         = 300
)

// Rejection errors. The dialogue engine maps these to re-prompt messages.
var (
	ErrNameLength       = errors.New("name must be between 2 and 50 characters")
	ErrAgeNotNumeric    = errors.New("age must be a number")
	ErrAgeOutOfRange    = errors.New("age must be between 16 and 100")
	ErrGenderUnknown    = errors.New("gender not recognized")
	ErrHeightNotNumeric = errors.New("height must be a number")
	ErrHeightOutOfRange = errors.New("height must be between 100 and 250 cm")
	ErrWeightNotNumeric = errors.New("weight must be a number")
	ErrWeightOutOfRange = errors.New("weight must be between 30 and 300 kg")
)

// Name normalizes and validates a person name: characters outside letters and
// spaces (accented letters included) are stripped, words are title-cased, and
// the result must be 2-50 characters long.
func Name(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if unicode.IsLetter(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	name := titleCase(strings.Join(strings.Fields(b.String()), " "))
	if n := len([]rune(name)); n < MinNameLength || n > MaxNameLength {
		return "", ErrNameLength
	}
	return name, nil
}

// titleCase upper-cases the first letter of each word and lower-cases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Age parses and range-checks an age. The second return value is true when
// the age is accepted but above the caution threshold; it never blocks
// progression.
func Age(raw string) (age int, caution bool, err error) {
	age, err = strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, ErrAgeNotNumeric
	}
	if age < MinAge || age > MaxAge {
		return 0, false, ErrAgeOutOfRange
	}
	return age, age > AgeCautionThreshold, nil
}

// genderSynonyms maps accepted answers to the canonical gender value. Keys
// are lower-cased and accent-insensitive forms users actually type.
var genderSynonyms = map[string]string{
	"masculino": "masculino", "homem": "masculino", "masc": "masculino", "m": "masculino",
	"feminino": "feminino", "mulher": "feminino", "fem": "feminino", "f": "feminino",
	"feminina": "feminino",
	"outro": "outro", "outra": "outro", "outros": "outro",
	"nao binario": "outro", "não binário": "outro", "não-binário": "outro",
	"nao-binario": "outro", "nb": "outro", "other": "outro",
}

// Gender maps a free-text answer to one of the three canonical values
// (masculino, feminino, outro). Unrecognized answers are rejected so the
// caller can re-prompt with the explicit choices.
func Gender(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimSuffix(key, ".")
	if g, ok := genderSynonyms[key]; ok {
		return g, nil
	}
	return "", ErrGenderUnknown
}

// Height parses a height in centimeters. Comma decimal separators and an
// optional unit suffix ("cm", "m") are accepted.
func Height(raw string) (float64, error) {
	v, err := parseMeasure(raw, "cm", "m")
	if err != nil {
		return 0, ErrHeightNotNumeric
	}
	if v < MinHeightCm || v > MaxHeightCm {
		return 0, ErrHeightOutOfRange
	}
	return v, nil
}

// Weight parses a weight in kilograms with the same numeric rules as Height.
func Weight(raw string) (float64, error) {
	v, err := parseMeasure(raw, "kg", "kgs", "quilos")
	if err != nil {
		return 0, ErrWeightNotNumeric
	}
	if v < MinWeightKg || v > MaxWeightKg {
		return 0, ErrWeightOutOfRange
	}
	return v, nil
}

// parseMeasure strips unit suffixes, normalizes the decimal separator and
// parses the remainder as a real number.
func parseMeasure(raw string, units ...string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ",", ".")
	for _, u := range units {
		s = strings.TrimSpace(strings.TrimSuffix(s, u))
	}
	return strconv.ParseFloat(s, 64)
}
