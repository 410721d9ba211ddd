package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// EnsureParentDir creates the directory that will hold filename
func EnsureParentDir(filename string) error {
	return EnsureDir(filepath.Dir(filename))
}

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// FormatFromFilename guesses the coordinate format from an output filename.
// Anything that is not .csv or .json is written as a C array.
func FormatFromFilename(filename string) string {
	switch ext := GetFileExtension(filename); ext {
	case "csv", "json":
		return ext
	default:
		return "c"
	}
}

// IsPlotFile checks if a file has an extension the plot can be saved as
func IsPlotFile(filename string) bool {
	switch GetFileExtension(filename) {
	case "png", "jpg", "jpeg", "webp":
		return true
	}
	return false
}

// FileSize returns the size of a file in bytes, or 0 if it cannot be read
func FileSize(filename string) int64 {
	info, err := os.Stat(filename)
	if err != nil || info.IsDir() {
		return 0
	}
	return info.Size()
}

// FormatFileSize formats file size in human-readable format
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
