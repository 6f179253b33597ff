package utils

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Common utilities used across the station-api

// GetFileExtension extracts and normalizes the file extension
func GetFileExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.TrimPrefix(ext, ".")
}

// MatchesMimeType checks if a MIME type matches a pattern
func MatchesMimeType(actual, pattern string) bool {
	// Parameters such as "; charset=utf-8" never take part in matching
	if i := strings.IndexByte(actual, ';'); i >= 0 {
		actual = strings.TrimSpace(actual[:i])
	}
	actual = strings.ToLower(actual)
	pattern = strings.ToLower(pattern)

	// Exact match
	if actual == pattern {
		return true
	}

	// Wildcard match (e.g., "image/*" matches "image/png")
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return strings.HasPrefix(actual, prefix+"/")
	}

	return false
}

var sizeUnits = []struct {
	suffix     string
	multiplier float64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSizeString converts human-readable size strings to bytes
func ParseSizeString(sizeStr string) (int64, error) {
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	for _, unit := range sizeUnits {
		if !strings.HasSuffix(sizeStr, unit.suffix) {
			continue
		}
		number := strings.TrimSpace(strings.TrimSuffix(sizeStr, unit.suffix))
		size, err := strconv.ParseFloat(number, 64)
		if err != nil || size < 0 {
			return 0, fmt.Errorf("invalid size format: %s", sizeStr)
		}
		return int64(size * unit.multiplier), nil
	}

	// Try to parse as raw bytes
	if size, err := strconv.ParseInt(sizeStr, 10, 64); err == nil && size >= 0 {
		return size, nil
	}

	return 0, fmt.Errorf("invalid size format: %s", sizeStr)
}
