package documents

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(contentTypesXML))
	require.NoError(t, err)

	w, err = zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		want        Kind
		ok          bool
	}{
		{"pdf ext", "Brief.PDF", "application/octet-stream", KindPDF, true},
		{"pdf mime", "brief", "application/pdf", KindPDF, true},
		{"docx", "spec.docx", "", KindDOCX, true},
		{"docx mime", "spec", mimeDOCX, KindDOCX, true},
		{"doc", "old.doc", "", KindDOC, true},
		{"txt", "notes.txt", "", KindText, true},
		{"csv", "rates.csv", "", KindText, true},
		{"md", "README.md", "", KindText, true},
		{"text mime with charset", "notes", "text/plain; charset=utf-8", KindText, true},
		{"image", "photo.png", "image/png", "", false},
		{"spreadsheet", "budget.xlsx", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectKind(tt.fileName, tt.contentType)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractor_Text(t *testing.T) {
	e := NewExtractor(0, 0)

	got, err := e.Extract(&Upload{FileName: "brief.txt", Data: []byte("Need a Python trainer in Leeds")})

	require.NoError(t, err)
	assert.Equal(t, "Need a Python trainer in Leeds", got)
}

func TestExtractor_TruncatesByCharacters(t *testing.T) {
	e := NewExtractor(0, 10)

	got, err := e.Extract(&Upload{FileName: "pounds.md", Data: []byte(strings.Repeat("£", 25))})

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("£", 10), got)
}

func TestExtractor_DefaultTruncation(t *testing.T) {
	e := NewExtractor(0, 0)

	got, err := e.Extract(&Upload{FileName: "big.txt", Data: []byte(strings.Repeat("x", 20000))})

	require.NoError(t, err)
	assert.Len(t, got, DefaultMaxChars)
}

func TestExtractor_DOCX(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>Role: Scrum Master</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Rate:</w:t><w:tab/><w:t xml:space="preserve">£600 per day</w:t></w:r></w:p>`)
	e := NewExtractor(0, 0)

	got, err := e.Extract(&Upload{FileName: "spec.docx", Data: data})

	require.NoError(t, err)
	assert.Contains(t, got, "Role: Scrum Master")
	assert.Contains(t, got, "£600 per day")
}

func TestExtractWord_RejectsInflationBeyondLimit(t *testing.T) {
	run := strings.Repeat("a", 4<<20)
	data := buildDOCX(t, `<w:p><w:r><w:t>`+run+`</w:t></w:r></w:p>`)
	require.Less(t, len(data), 64<<10, "fixture should compress well")

	_, err := extractWord(data, 1<<20)

	assert.ErrorIs(t, err, errWordTooLarge)

	text, err := extractWord(data, 8<<20)
	require.NoError(t, err)
	assert.Contains(t, text, "aaaa")
}

func TestExtractor_DOCXBombIsUnsupported(t *testing.T) {
	run := strings.Repeat(" ", maxWordInflatedBytes)
	data := buildDOCX(t, `<w:p><w:r><w:t>x`+run+`</w:t></w:r></w:p>`)
	e := NewExtractor(0, 0)

	_, err := e.Extract(&Upload{FileName: "bomb.docx", Data: data})

	assert.ErrorIs(t, err, apperrors.ErrUnsupportedMedia)
	assert.Equal(t, MsgEmptyText, apperrors.Message(err, ""))
}

func TestExtractor_Rejections(t *testing.T) {
	e := NewExtractor(16, 0)

	tests := []struct {
		name    string
		upload  *Upload
		kind    error
		message string
	}{
		{"nil", nil, apperrors.ErrValidation, MsgNoFile},
		{"too large", &Upload{FileName: "a.txt", Data: bytes.Repeat([]byte("a"), 17)}, apperrors.ErrUnsupportedMedia, "File too large. Maximum size is 0MB."},
		{"unsupported", &Upload{FileName: "a.exe", Data: []byte("MZ")}, apperrors.ErrUnsupportedMedia, MsgUnsupportedType},
		{"blank text", &Upload{FileName: "a.txt", Data: []byte("  \n\t ")}, apperrors.ErrUnsupportedMedia, MsgEmptyText},
		{"corrupt docx", &Upload{FileName: "a.docx", Data: []byte("not a zip")}, apperrors.ErrUnsupportedMedia, MsgEmptyText},
		{"legacy doc", &Upload{FileName: "a.doc", Data: []byte{0xD0, 0xCF, 0x11, 0xE0}}, apperrors.ErrUnsupportedMedia, MsgEmptyText},
		{"corrupt pdf", &Upload{FileName: "a.pdf", Data: []byte("%PDF-1.4 junk")}, apperrors.ErrUnsupportedMedia, MsgEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(tt.upload)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, apperrors.Message(err, ""))
		})
	}
}

func TestExtractor_TooLargeMessage(t *testing.T) {
	assert.Equal(t, "File too large. Maximum size is 10MB.", NewExtractor(0, 0).TooLargeMessage())
	assert.Equal(t, DefaultMaxBytes, NewExtractor(-1, 0).MaxBytes())
}
