package pattern

import (
	"strings"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

// DefaultWildcard marks an unknown position in pattern strings.
const DefaultWildcard = '?'

// Parse reads pattern syntax: the wildcard rune is an unknown slot, "[abc]" is
// an allowed set and anything else is a literal. Literal runs and set bodies go
// through normalize when it is non-nil.
func Parse(s string, wildcard rune, normalize lexicon.Normalizer) (lexicon.Pattern, error) {
	if normalize == nil {
		normalize = lexicon.Identity
	}
	var (
		slots   []lexicon.Slot
		literal strings.Builder
	)
	flush := func() {
		if literal.Len() == 0 {
			return
		}
		for _, r := range normalize(literal.String()) {
			slots = append(slots, lexicon.Exactly(r))
		}
		literal.Reset()
	}

	rs := []rune(strings.TrimSpace(s))
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; {
		case r == wildcard:
			flush()
			slots = append(slots, lexicon.Any())
		case r == '[':
			flush()
			end := -1
			for j := i + 1; j < len(rs); j++ {
				if rs[j] == ']' {
					end = j
					break
				}
			}
			if end < 0 {
				return lexicon.Pattern{}, lexicon.Invalidf("parse", "unterminated set in %q", s)
			}
			body := normalize(string(rs[i+1 : end]))
			if body == "" {
				return lexicon.Pattern{}, lexicon.Invalidf("parse", "empty set in %q", s)
			}
			slots = append(slots, lexicon.OneOf(lexicon.CharSetOf(body)))
			i = end
		case r == ']':
			return lexicon.Pattern{}, lexicon.Invalidf("parse", "unexpected ']' in %q", s)
		default:
			literal.WriteRune(r)
		}
	}
	flush()
	if len(slots) == 0 {
		return lexicon.Pattern{}, lexicon.Invalidf("parse", "empty pattern")
	}
	return lexicon.NewPattern(slots...)
}
