package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharSet(t *testing.T) {
	a := CharSetOf("cab")
	b := CharSetOf("bcd")

	assert.Equal(t, []rune("abc"), a.Sorted())
	assert.Equal(t, []rune("bc"), a.Intersect(b).Sorted())
	assert.Equal(t, []rune("abcd"), a.Union(b).Sorted())
	assert.True(t, a.Contains('a'))
	assert.False(t, a.Contains('d'))
	assert.True(t, a.Intersect(CharSetOf("xy")).IsEmpty())
	assert.True(t, CharSetOf("aab").Equal(NewCharSet('b', 'a')))
	assert.Equal(t, "[abc]", a.String())
}

func TestReplace_LongestKeyFirst(t *testing.T) {
	n := Replace(map[string]string{"u": "v", "ue": "ve"})
	assert.Equal(t, "lve", n("lue"))
	assert.Equal(t, "lv", n("lu"))
	assert.Equal(t, "abc", Replace(nil)("abc"))
}
