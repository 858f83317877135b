package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const previewTokenBytes = 12

// DetectContentType keeps a meaningful declared content type and otherwise
// sniffs the content. The reader is rewound before returning.
func DetectContentType(r io.ReadSeeker, declared string) (string, error) {
	declared = strings.TrimSpace(declared)
	if declared != "" && !strings.HasPrefix(declared, "application/octet-stream") {
		return declared, nil
	}
	detected, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return detected.String(), nil
}

// NewPreviewToken returns an unguessable hex token for shared-preview lookups.
func NewPreviewToken() (string, error) {
	buf := make([]byte, previewTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// CleanItemName trims whitespace and rejects names that cannot be displayed as one path segment.
func CleanItemName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return "", false
	}
	return name, true
}
