package documents

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"

	"code.sajari.com/docconv"
)

// maxWordInflatedBytes bounds the total uncompressed size of an OOXML upload.
const maxWordInflatedBytes = 64 << 20

var errWordTooLarge = errors.New("word archive inflates beyond limit")

// extractWord returns the text of an OOXML document. Legacy binary .doc files
// are not zip archives and fail here. The archive's declared sizes are checked
// before anything is inflated; archive/zip refuses entries that outgrow them.
func extractWord(data []byte, limit uint64) (text string, err error) {
	if err := checkInflatedSize(data, limit); err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse word document: %v", r)
		}
	}()

	text, _, err = docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("convert docx: %w", err)
	}
	return text, nil
}

func checkInflatedSize(data []byte, limit uint64) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open word archive: %w", err)
	}

	var total uint64
	for _, f := range zr.File {
		total += f.UncompressedSize64
		if total > limit {
			return errWordTooLarge
		}
	}
	return nil
}
