package lexicon

import (
	"fmt"
	"strings"
	"unicode"
)

// Alphabet decides which runes a Word may contain.
type Alphabet interface {
	Name() string
	Contains(r rune) bool
}

type funcAlphabet struct {
	name string
	fn   func(rune) bool
}

func (a funcAlphabet) Name() string         { return a.name }
func (a funcAlphabet) Contains(r rune) bool { return a.fn(r) }

var (
	// Latin accepts the lower-case letters a to z.
	Latin Alphabet = funcAlphabet{"latin", func(r rune) bool { return r >= 'a' && r <= 'z' }}
	// Han accepts CJK ideographs.
	Han Alphabet = funcAlphabet{"han", func(r rune) bool { return unicode.Is(unicode.Han, r) }}
	// Letters accepts any Unicode letter.
	Letters Alphabet = funcAlphabet{"letters", unicode.IsLetter}
)

// NewAlphabet returns an alphabet made of exactly the runes of chars.
func NewAlphabet(name string, chars string) Alphabet {
	set := CharSetOf(chars)
	return funcAlphabet{name, set.Contains}
}

// AlphabetByName resolves the names used in configuration files:
// "latin", "han", "letters" or "chars:<runes>".
func AlphabetByName(name string) (Alphabet, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); {
	case n == "" || n == "letters":
		return Letters, nil
	case n == "latin":
		return Latin, nil
	case n == "han":
		return Han, nil
	case strings.HasPrefix(name, "chars:"):
		chars := strings.TrimPrefix(name, "chars:")
		if chars == "" {
			return nil, Invalidf("alphabet", "empty custom character set")
		}
		return NewAlphabet("custom", chars), nil
	default:
		return nil, Invalidf("alphabet", "unknown alphabet %q", name)
	}
}

func describeRune(r rune) string {
	return fmt.Sprintf("%q (U+%04X)", r, r)
}
