// Package documents turns uploaded requirement documents into plain text.
package documents

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
)

// Kind is a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindDOC  Kind = "doc"
	KindText Kind = "text"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDOC  = "application/msword"
)

// Default limits.
const (
	DefaultMaxBytes int64 = 10 << 20
	DefaultMaxChars       = 15000
)

// User-facing rejection messages.
const (
	MsgUnsupportedType = "Unsupported file type. Please upload a PDF, Word document (.docx/.doc), text file, or CSV."
	MsgEmptyText       = "Could not extract any text from the uploaded document. It may be an image-only PDF or empty file."
	MsgNoFile          = "No file uploaded"
)

// Upload is a received file.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Size returns the payload length in bytes.
func (u *Upload) Size() int64 {
	return int64(len(u.Data))
}

// DetectKind classifies a file by extension, falling back to its MIME type.
// Any text/* MIME type is accepted as text.
func DetectKind(fileName, contentType string) (Kind, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	switch {
	case ext == "pdf" || mime == mimePDF:
		return KindPDF, true
	case ext == "docx" || mime == mimeDOCX:
		return KindDOCX, true
	case ext == "doc" || mime == mimeDOC:
		return KindDOC, true
	case ext == "txt" || ext == "csv" || ext == "md" || strings.HasPrefix(mime, "text/"):
		return KindText, true
	}
	return "", false
}

// Extractor validates uploads and extracts their text.
type Extractor struct {
	maxBytes int64
	maxChars int
}

// NewExtractor creates an extractor. Non-positive limits use the defaults.
func NewExtractor(maxBytes int64, maxChars int) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Extractor{maxBytes: maxBytes, maxChars: maxChars}
}

// MaxBytes returns the upload size limit.
func (e *Extractor) MaxBytes() int64 {
	return e.maxBytes
}

// TooLargeMessage is the rejection shown for oversized uploads.
func (e *Extractor) TooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", e.maxBytes>>20)
}

// Validate checks size and type without reading the content.
func (e *Extractor) Validate(u *Upload) (Kind, error) {
	if u == nil || (len(u.Data) == 0 && u.FileName == "") {
		return "", apperrors.Validation(MsgNoFile)
	}
	if u.Size() > e.maxBytes {
		return "", apperrors.UnsupportedMedia(e.TooLargeMessage())
	}
	kind, ok := DetectKind(u.FileName, u.ContentType)
	if !ok {
		return "", apperrors.UnsupportedMedia(MsgUnsupportedType)
	}
	return kind, nil
}

// Extract validates the upload and returns its text, truncated to the
// configured number of characters.
func (e *Extractor) Extract(u *Upload) (string, error) {
	kind, err := e.Validate(u)
	if err != nil {
		return "", err
	}

	var text string
	switch kind {
	case KindPDF:
		text, err = extractPDF(u.Data)
	case KindDOCX, KindDOC:
		text, err = extractWord(u.Data, maxWordInflatedBytes)
	case KindText:
		text = strings.ToValidUTF8(string(u.Data), "")
	}
	if err != nil {
		return "", apperrors.UnsupportedMedia(MsgEmptyText)
	}

	if strings.TrimSpace(text) == "" {
		return "", apperrors.UnsupportedMedia(MsgEmptyText)
	}

	return Truncate(text, e.maxChars), nil
}

// Truncate keeps the first n characters of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
