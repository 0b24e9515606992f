package dictionary

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeChunk(t *testing.T, dir string, id int, entries []lexicon.Entry) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, entries))
	path := filepath.Join(dir, fmt.Sprintf("dict_%04d.bin", id))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestReadText(t *testing.T) {
	entries, err := ReadText(strings.NewReader("cat\t3\n\n# comment\ndog\n  bee \t 7 \n"))
	require.NoError(t, err)
	assert.Equal(t, []lexicon.Entry{{Text: "cat", Key: 3}, {Text: "dog"}, {Text: "bee", Key: 7}}, entries)

	_, err = ReadText(strings.NewReader("cat\tmany\n"))
	assert.Error(t, err)
}

func TestReadJSON(t *testing.T) {
	in := `[
		{"ci": "中国", "explanation": "国家名"},
		{"word": "cat", "key": 42},
		{"ci": "", "word": "", "explanation": "skipped"}
	]`
	entries, err := ReadJSON(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []lexicon.Entry{{Text: "中国", Key: 3}, {Text: "cat", Key: 42}}, entries)

	_, err = ReadJSON(strings.NewReader(`{"ci":"x"}`))
	assert.Error(t, err)
}

func TestChunkRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := []lexicon.Entry{{Text: "the", Key: 65535}, {Text: "of", Key: 65534}}
	require.NoError(t, WriteChunk(&buf, in))

	out, err := ReadChunk(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoad_DetectsFormats(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "words.txt", "cat\ndog\nbird\n")
	js := writeFile(t, dir, "ci.json", `[{"ci":"cat"},{"ci":"dog"}]`)
	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, os.Mkdir(chunkDir, 0o755))
	writeChunk(t, chunkDir, 1, []lexicon.Entry{{Text: "the", Key: 65535}, {Text: "and", Key: 65534}})
	writeChunk(t, chunkDir, 2, []lexicon.Entry{{Text: "cat", Key: 60000}})

	tests := []struct {
		path     string
		format   FileFormat
		maxWords int
		want     []string
	}{
		{txt, FormatUnknown, 0, []string{"cat", "dog", "bird"}},
		{txt, FormatText, 2, []string{"cat", "dog"}},
		{js, FormatUnknown, 0, []string{"cat", "dog"}},
		{chunkDir, FormatUnknown, 0, []string{"the", "and", "cat"}},
		{chunkDir, FormatChunk, 1, []string{"the"}},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			entries, err := Load(tt.path, tt.format, tt.maxWords)
			require.NoError(t, err)
			var got []string
			for _, e := range entries {
				got = append(got, e.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	chunk := writeChunk(t, dir, 3, []lexicon.Entry{{Text: "a", Key: 1}})
	f, err := DetectFileFormat(chunk)
	require.NoError(t, err)
	assert.Equal(t, FormatChunk, f)

	_, err = DetectFileFormat(writeFile(t, dir, "notes.md", "x"))
	assert.Error(t, err)
	_, err = DetectFileFormat(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
	_, err = DetectFileFormat(t.TempDir())
	assert.Error(t, err)
}

func TestAvailableChunks(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, 2, []lexicon.Entry{{Text: "b"}})
	writeChunk(t, dir, 1, []lexicon.Entry{{Text: "a"}, {Text: "c"}})
	writeFile(t, dir, "dict_xx.bin", "junk")

	chunks, err := AvailableChunks(dir)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].ChunkID)
	assert.Equal(t, 2, chunks[0].WordCount)
	assert.Equal(t, 2, chunks[1].ChunkID)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "json", f.String())

	f, err = ParseFormat("auto")
	require.NoError(t, err)
	assert.Equal(t, FormatUnknown, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
