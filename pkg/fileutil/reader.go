package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadText reads a whole text file, refusing anything larger than maxSize
// bytes. A non-positive maxSize disables the check.
func ReadText(path string, maxSize int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if maxSize > 0 && info.Size() > maxSize {
		return "", fmt.Errorf("file too large: %s (%d bytes, max %d bytes)", path, info.Size(), maxSize)
	}

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", path, err)
	}
	return string(data), nil
}

// LineOf returns the 1-based line of the first occurrence of needle in text,
// or 0 when it does not occur.
func LineOf(text, needle string) int {
	if needle == "" {
		return 0
	}
	i := strings.Index(text, needle)
	if i < 0 {
		return 0
	}
	return strings.Count(text[:i], "\n") + 1
}

// GetFileType returns a human name for the file's extension
func GetFileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return "Text"
	case ".md":
		return "Markdown"
	case ".json":
		return "JSON"
	case ".xml":
		return "XML"
	case ".html", ".htm":
		return "HTML"
	case ".csv":
		return "CSV"
	case ".rtf":
		return "Rich Text Format"
	case ".log":
		return "Log File"
	case ".cfg", ".conf", ".ini", ".toml", ".yaml", ".yml", ".env":
		return "Configuration File"
	case ".pem", ".key", ".pub":
		return "Key File"
	default:
		return "Unknown"
	}
}
