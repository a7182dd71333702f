package model

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultMimeType = "application/octet-stream"

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".zip":  "application/zip",
	".json": "application/json",
	".xml":  "application/xml",
}

// Content is an open document stream. The caller closes Body.
type Content struct {
	FileName string
	MimeType string
	Length   int64
	Body     io.ReadCloser
}

// MimeTypeFor infers the media type from the file extension.
func MimeTypeFor(name string) string {
	if mimeType, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mimeType
	}

	return defaultMimeType
}

// UniqueName prefixes name with 7 hex digits of the clock and 4 characters
// of a random id, for example 3A9F0C1_9b2e_report.pdf.
func UniqueName(name string, now time.Time, id uuid.UUID) string {
	ticks := now.UnixNano() / 100

	return fmt.Sprintf("%07X_%s_%s", ticks&0xFFFFFFF, id.String()[:4], name)
}
