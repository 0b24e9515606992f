/*
Package dictionary reads word lists from disk into lexicon entries.
*/
package dictionary

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

const maxChunkWords = 1000000

// Load reads the dictionary at path. FormatUnknown detects the format.
// maxWords caps the entries returned; zero means no cap.
func Load(path string, format FileFormat, maxWords int) ([]lexicon.Entry, error) {
	if format == FormatUnknown {
		detected, err := DetectFileFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	var (
		entries []lexicon.Entry
		err     error
	)
	switch format {
	case FormatChunk:
		entries, err = loadChunkPath(path, maxWords)
	case FormatText, FormatJSON:
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open dictionary %s: %w", path, openErr)
		}
		defer f.Close()
		if format == FormatText {
			entries, err = ReadText(f)
		} else {
			entries, err = ReadJSON(f)
		}
	default:
		return nil, fmt.Errorf("unsupported dictionary format %v", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s dictionary %s: %w", format, path, err)
	}
	if maxWords > 0 && len(entries) > maxWords {
		entries = entries[:maxWords]
	}
	log.Debugf("Loaded %d entries from %s (%s)", len(entries), path, format)
	return entries, nil
}

// ReadText reads one word per line. A tab may separate an integer key. Blank
// lines and lines starting with '#' are skipped.
func ReadText(r io.Reader) ([]lexicon.Entry, error) {
	var entries []lexicon.Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, keyField, hasKey := strings.Cut(text, "\t")
		e := lexicon.Entry{Text: strings.TrimSpace(word)}
		if hasKey {
			key, err := strconv.Atoi(strings.TrimSpace(keyField))
			if err != nil {
				return nil, fmt.Errorf("line %d: bad key %q: %w", line, keyField, err)
			}
			e.Key = key
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan text dictionary: %w", err)
	}
	return entries, nil
}

type jsonRecord struct {
	Ci          string `json:"ci"`
	Word        string `json:"word"`
	Explanation string `json:"explanation"`
	Key         *int   `json:"key"`
}

// ReadJSON reads an array of records. The word comes from "ci" or "word"; the
// key is "key" when present, otherwise the rune count of "explanation".
// Records without a word are skipped.
func ReadJSON(r io.Reader) ([]lexicon.Entry, error) {
	var records []jsonRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode json dictionary: %w", err)
	}
	entries := make([]lexicon.Entry, 0, len(records))
	for _, rec := range records {
		word := strings.TrimSpace(rec.Ci)
		if word == "" {
			word = strings.TrimSpace(rec.Word)
		}
		if word == "" {
			continue
		}
		key := utf8.RuneCountInString(rec.Explanation)
		if rec.Key != nil {
			key = *rec.Key
		}
		entries = append(entries, lexicon.Entry{Text: word, Key: key})
	}
	return entries, nil
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// AvailableChunks scans dir for dict_NNNN.bin files, ordered by chunk ID.
func AvailableChunks(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			continue
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file, WordCount: wordCount})
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// loadChunkPath loads a single chunk file or every chunk of a directory until
// maxWords entries are read.
func loadChunkPath(path string, maxWords int) ([]lexicon.Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return loadChunkFile(path)
	}

	chunks, err := AvailableChunks(path)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunk files found in %s", path)
	}
	log.Debugf("Found %d chunk files", len(chunks))

	var entries []lexicon.Entry
	for _, chunk := range chunks {
		if maxWords > 0 && len(entries) >= maxWords {
			break
		}
		got, err := loadChunkFile(chunk.Filename)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk.ChunkID, err)
		}
		entries = append(entries, got...)
	}
	return entries, nil
}

func loadChunkFile(filename string) ([]lexicon.Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()
	return ReadChunk(bufio.NewReader(file))
}

// ReadChunk decodes one chunk: an int32 word count, then per word a uint16
// byte length, the bytes and a uint16 rank. Rank 1 becomes key 65535.
func ReadChunk(r io.Reader) ([]lexicon.Entry, error) {
	var total int32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if total < 0 || total > maxChunkWords {
		return nil, fmt.Errorf("invalid chunk word count %d", total)
	}

	entries := make([]lexicon.Entry, 0, total)
	for i := 0; i < int(total); i++ {
		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read word length: %w", err)
		}
		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(r, wordBytes); err != nil {
			return nil, fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}
		entries = append(entries, lexicon.Entry{Text: string(wordBytes), Key: 65536 - int(rank)})
	}
	return entries, nil
}

// WriteChunk encodes entries in the chunk layout. Keys map back to ranks as
// 65536 - key, clamped to the uint16 range.
func WriteChunk(w io.Writer, entries []lexicon.Entry) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if len(e.Text) > 0xFFFF {
			return fmt.Errorf("word %q is too long for a chunk", e.Text[:16])
		}
		rank := min(max(65536-e.Key, 0), 0xFFFF)
		if err := binary.Write(w, binary.LittleEndian, uint16(len(e.Text))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, e.Text); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(rank)); err != nil {
			return err
		}
	}
	return nil
}
