package synonym

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/coder/hnsw"
	"github.com/vmihailenco/msgpack/v5"
)

// TextEmbedder turns texts into vectors. *Embedder implements it.
type TextEmbedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorOracle answers similarity queries from precomputed word vectors held
// in a cosine HNSW graph. Only the query is embedded at request time.
type VectorOracle struct {
	embedder TextEmbedder
	graph    *hnsw.Graph[uint32]
	words    []string
	dims     int
}

// NewVectorOracle indexes vectors[i] as words[i]. Every vector must share one
// dimension.
func NewVectorOracle(e TextEmbedder, words []string, vectors [][]float32) (*VectorOracle, error) {
	if len(words) != len(vectors) {
		return nil, fmt.Errorf("vector oracle: %d words for %d vectors", len(words), len(vectors))
	}
	graph := hnsw.NewGraph[uint32]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 64
	graph.Ml = 0.25

	v := &VectorOracle{embedder: e, graph: graph, words: slices.Clone(words)}
	for i, vec := range vectors {
		if i == 0 {
			v.dims = len(vec)
		}
		if len(vec) == 0 || len(vec) != v.dims {
			return nil, fmt.Errorf("vector oracle: vector %d has dimension %d, want %d", i, len(vec), v.dims)
		}
		n := slices.Clone(vec)
		normalizeInPlace(n)
		graph.Add(hnsw.MakeNode(uint32(i), n))
	}
	return v, nil
}

func (v *VectorOracle) Len() int { return v.graph.Len() }

// Similar embeds query and returns its nearest words ordered by similarity,
// ties by word.
func (v *VectorOracle) Similar(ctx context.Context, query string, pool int) ([]Scored, error) {
	if v.graph.Len() == 0 || pool <= 0 {
		return nil, nil
	}
	vecs, err := v.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, unavailable("embedder", err)
	}
	if len(vecs) != 1 || len(vecs[0]) != v.dims {
		return nil, unavailable("embedder", fmt.Errorf("query vector has the wrong shape"))
	}
	q := slices.Clone(vecs[0])
	normalizeInPlace(q)

	nodes := v.graph.Search(q, pool)
	out := make([]Scored, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, Scored{
			Word:  v.words[node.Key],
			Score: float64(1 - v.graph.Distance(q, node.Value)),
		})
	}
	slices.SortFunc(out, func(a, b Scored) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	return out, nil
}

func normalizeInPlace(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

// VectorFile is the on-disk msgpack layout of precomputed vectors.
type VectorFile struct {
	Words   []string    `msgpack:"words"`
	Vectors [][]float32 `msgpack:"vectors"`
}

// LoadVectors reads a msgpack VectorFile.
func LoadVectors(path string) (*VectorFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	var vf VectorFile
	if err := msgpack.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("decode vectors %s: %w", path, err)
	}
	if len(vf.Words) != len(vf.Vectors) {
		return nil, fmt.Errorf("vectors %s: %d words for %d vectors", path, len(vf.Words), len(vf.Vectors))
	}
	return &vf, nil
}

// SaveVectors writes vf to path as msgpack.
func SaveVectors(path string, vf *VectorFile) error {
	data, err := msgpack.Marshal(vf)
	if err != nil {
		return fmt.Errorf("encode vectors: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	return nil
}
