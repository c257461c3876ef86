package extraction

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFPages caps how large a PDF the pipeline will send to a vision
// model in one request.
const maxPDFPages = 20

// Supported upload MIME types.
const (
	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"
	mimePDF  = "application/pdf"
)

// DetectMimeType sniffs the document type from magic bytes, falling
// back to JPEG for anything unrecognized (the upload layer has already
// restricted uploads to images and PDFs).
func DetectMimeType(data []byte) string {
	if len(data) >= 4 && string(data[:4]) == "%PDF" {
		return mimePDF
	}
	if len(data) >= 8 && string(data[:4]) == "\x89PNG" {
		return mimePNG
	}
	return mimeJPEG
}

// ValidateDocument rejects documents the pipeline cannot process before
// any model call is spent on them.
func ValidateDocument(data []byte) error {
	if len(data) == 0 {
		return &DocumentError{Reason: "empty file"}
	}
	if DetectMimeType(data) != mimePDF {
		return nil
	}

	pages := CountPDFPages(data)
	if pages > maxPDFPages {
		return &DocumentError{Reason: "PDF has too many pages"}
	}
	return nil
}

// CountPDFPages returns the page count of a PDF, falling back to a
// string-scan heuristic when the parser cannot read the file. Never
// panics; scanned or malformed PDFs count as one page.
func CountPDFPages(data []byte) (n int) {
	defer func() {
		if recover() != nil {
			n = countPDFPagesHeuristic(data)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return countPDFPagesHeuristic(data)
	}

	n = reader.NumPage()
	if n < 1 {
		n = 1
	}
	return n
}

// countPDFPagesHeuristic counts "/Type /Page" markers (excluding
// /Pages) as a rough page estimate.
func countPDFPagesHeuristic(data []byte) int {
	content := string(data)
	count := 0
	idx := 0
	for {
		pos := strings.Index(content[idx:], "/Type /Page")
		if pos == -1 {
			break
		}
		absPos := idx + pos
		afterPage := absPos + len("/Type /Page")
		if afterPage >= len(content) || content[afterPage] != 's' {
			count++
		}
		idx = absPos + 1
	}
	if count == 0 {
		count = 1
	}
	return count
}
