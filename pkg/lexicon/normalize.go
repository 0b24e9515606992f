package lexicon

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalizer maps raw text to the form stored in and queried against an Index.
type Normalizer func(string) string

// NFC composes text into Unicode normalization form C.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Lower lower-cases text.
func Lower(s string) string {
	return strings.ToLower(s)
}

// Identity returns text unchanged.
func Identity(s string) string {
	return s
}

// Replace returns a Normalizer applying a substitution table. Longer keys win over
// shorter ones that start at the same place.
func Replace(table map[string]string) Normalizer {
	if len(table) == 0 {
		return Identity
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		if k != "" {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, table[k])
	}
	r := strings.NewReplacer(pairs...)
	return r.Replace
}

// Chain applies normalizers left to right. Nil entries are skipped.
func Chain(ns ...Normalizer) Normalizer {
	return func(s string) string {
		for _, n := range ns {
			if n != nil {
				s = n(s)
			}
		}
		return s
	}
}
