package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat is a dictionary source layout.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one word per line, optional tab and key
	FormatJSON               // array of {ci|word, explanation|key} records
	FormatChunk              // directory of dict_NNNN.bin chunks
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Name        string
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Name:        "text",
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt", ".tsv"},
		MinSize:     1,
	},
	FormatJSON: {
		Format:      FormatJSON,
		Name:        "json",
		Description: "JSON Record Dictionary",
		Extensions:  []string{".json"},
		MinSize:     2,
	},
	FormatChunk: {
		Format:      FormatChunk,
		Name:        "chunks",
		Description: "Chunked Binary Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return "unknown"
}

// ParseFormat maps a configuration name to a format. "" and "auto" yield FormatUnknown,
// which tells Load to detect.
func ParseFormat(name string) (FileFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatUnknown, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "chunks", "chunk", "bin":
		return FormatChunk, nil
	}
	return FormatUnknown, fmt.Errorf("unknown dictionary format %q", name)
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatChunk {
		return validateBinaryFormat(filename)
	}
	return nil
}

// validateBinaryFormat reads a chunk header and sanity checks its word count.
func validateBinaryFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("invalid word count in %s: %d (negative)", filename, wordCount)
	}
	if wordCount > maxChunkWords {
		return fmt.Errorf("suspicious word count in %s: %d (too large)", filename, wordCount)
	}

	log.Debugf("Binary file %s validated: %d words", filename, wordCount)
	return nil
}

// DetectFileFormat guesses the format of path. A directory holding chunk files is FormatChunk.
func DetectFileFormat(path string) (FileFormat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		chunks, err := AvailableChunks(path)
		if err == nil && len(chunks) > 0 {
			return FormatChunk, nil
		}
		return FormatUnknown, fmt.Errorf("directory %s holds no dict_*.bin chunks", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	basename := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasPrefix(basename, "dict_") && ext == ".bin":
		if err := ValidateFileFormat(path, FormatChunk); err == nil {
			return FormatChunk, nil
		}
	case ext == ".json":
		if err := ValidateFileFormat(path, FormatJSON); err == nil {
			return FormatJSON, nil
		}
	case ext == ".txt" || ext == ".tsv":
		if err := ValidateFileFormat(path, FormatText); err == nil {
			return FormatText, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", path)
}
