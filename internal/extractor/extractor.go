package extractor

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	MimePDF  = "application/pdf"
	MimeText = "text/plain"
)

var ErrUnsupportedType = errors.New("unsupported document type")

// DetectContentType resolves the MIME type from the filename extension,
// falling back to the reported header value.
func DetectContentType(filename, headerContentType string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MimePDF
	case ".txt", ".text":
		return MimeText
	}

	contentType := strings.TrimSpace(strings.SplitN(headerContentType, ";", 2)[0])
	switch contentType {
	case MimePDF, "application/x-pdf":
		return MimePDF
	case MimeText, "text/txt", "application/txt", "application/x-txt":
		return MimeText
	}
	return contentType
}

// IsSupported reports whether Extract can handle contentType.
func IsSupported(contentType string) bool {
	return contentType == MimePDF || contentType == MimeText
}

// Extract pulls plain text out of an uploaded document.
func Extract(data []byte, contentType string) (string, error) {
	switch contentType {
	case MimePDF:
		return ExtractPDF(data)
	case MimeText:
		return ExtractTXT(data)
	default:
		return "", ErrUnsupportedType
	}
}
