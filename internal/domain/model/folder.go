package model

import "strings"

const RootPath = "/"

// FolderSegments splits a folder path on both slash styles and drops empty
// segments.
func FolderSegments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}

// NormalizeFolderPath trims the path and makes it absolute. Paths made only
// of separators resolve to the root.
func NormalizeFolderPath(path string) string {
	path = strings.TrimSpace(path)

	if strings.Trim(path, `/\`) == "" {
		return RootPath
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return path
}
