package lexicon

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPattern_Wildcard(t *testing.T) {
	ix := buildWords(t, "cat", "car", "can")
	p, err := NewPattern(Exactly('c'), Exactly('a'), Any())
	require.NoError(t, err)

	assert.Equal(t, []string{"can", "car", "cat"}, texts(slices.Collect(ix.MatchPattern(p))))
	assert.Equal(t, 3, ix.CountPattern(p))
}

func TestMatchPattern_Slots(t *testing.T) {
	ix := buildWords(t, "cat", "cot", "cut", "dog", "dot", "at", "cats")

	tests := []struct {
		name  string
		slots []Slot
		want  []string
	}{
		{"all wildcard", []Slot{Any(), Any(), Any()}, []string{"cat", "cot", "cut", "dog", "dot"}},
		{"fixed last", []Slot{Any(), Any(), Exactly('t')}, []string{"cat", "cot", "cut", "dot"}},
		{"allowed middle", []Slot{Exactly('c'), OneOf(CharSetOf("ao")), Any()}, []string{"cat", "cot"}},
		{"leading run absent", []Slot{Exactly('z'), Any(), Any()}, nil},
		{"no such length", []Slot{Any(), Any(), Any(), Any(), Any()}, nil},
		{"allowed with unseen runes", []Slot{OneOf(CharSetOf("xyz")), Any(), Any()}, nil},
		{"length four", []Slot{Any(), Any(), Any(), Exactly('s')}, []string{"cats"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPattern(tt.slots...)
			require.NoError(t, err)
			got := texts(slices.Collect(ix.MatchPattern(p)))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchPattern_Rescannable(t *testing.T) {
	ix := buildWords(t, "cat", "cot")
	p, err := NewPattern(Exactly('c'), Any(), Exactly('t'))
	require.NoError(t, err)

	seq := ix.MatchPattern(p)
	first := texts(slices.Collect(seq))
	second := texts(slices.Collect(seq))
	assert.Equal(t, first, second)

	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestNewPattern_Validation(t *testing.T) {
	_, err := NewPattern()
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewPattern(Any(), OneOf(NewCharSet()))
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := NewPattern(OneOf(CharSetOf("q")))
	require.NoError(t, err)
	assert.Equal(t, Fixed, p.Slot(0).Kind())
	assert.Equal(t, 'q', p.Slot(0).Char())
}

func TestMatchPattern_AgreesWithBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	words := randomLexicon(r, 300, "abcd")
	ix := buildWords(t, words...)
	alphabet := []rune("abcde")

	for trial := 0; trial < 200; trial++ {
		n := 1 + r.IntN(6)
		slots := make([]Slot, n)
		for i := range slots {
			switch r.IntN(3) {
			case 0:
				slots[i] = Any()
			case 1:
				slots[i] = Exactly(alphabet[r.IntN(len(alphabet))])
			default:
				slots[i] = OneOf(NewCharSet(alphabet[r.IntN(len(alphabet))], alphabet[r.IntN(len(alphabet))]))
			}
		}
		p, err := NewPattern(slots...)
		require.NoError(t, err)

		var want []string
		for _, w := range sortedCopy(words) {
			if p.Matches(w) {
				want = append(want, w)
			}
		}
		got := texts(slices.Collect(ix.MatchPattern(p)))
		if len(want) == 0 {
			assert.Empty(t, got, p.String())
			continue
		}
		assert.Equal(t, want, got, p.String())
	}
}
