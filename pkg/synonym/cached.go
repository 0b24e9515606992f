package synonym

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of query vectors a CachedEmbedder keeps.
const DefaultCacheSize = 1024

// CachedEmbedder keeps recently embedded texts in an LRU so repeated queries
// skip the service. Failed calls are never cached.
type CachedEmbedder struct {
	inner TextEmbedder
	cache *lru.Cache[string, []float32]
}

func NewCachedEmbedder(inner TextEmbedder, size int) *CachedEmbedder {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](size)
	return &CachedEmbedder{inner: inner, cache: cache}
}

// Embed returns cached vectors and embeds only the misses, in one call.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var (
		missIdx   []int
		missTexts []string
	)
	for i, t := range texts {
		if v, ok := c.cache.Get(t); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}
	got, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, i := range missIdx {
		out[i] = got[j]
		c.cache.Add(texts[i], got[j])
	}
	return out, nil
}

// Len is the number of cached texts.
func (c *CachedEmbedder) Len() int { return c.cache.Len() }
