package document

import (
	"fmt"
	"os"

	"github.com/twistandthread/chatwidget/internal/domain"
)

// MIME types accepted by upload validation.
const (
	MimeTypeText = "text/plain"
	MimeTypePDF  = "application/pdf"
	MimeTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MaxUploadSize is the upload size limit in bytes.
const MaxUploadSize = 10 * 1024 * 1024

// ExtractText reads the text content of an uploaded file. Only plain
// text is functional; PDF and DOCX pass validation but are rejected
// here with an explanatory error.
func ExtractText(path, mimeType string) (string, error) {
	switch mimeType {
	case MimeTypeText:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from file: %w", err)
		}
		return string(data), nil
	case MimeTypePDF:
		return "", &domain.ExtractionUnsupportedError{
			MimeType: mimeType,
			Message:  "PDF processing requires additional setup. Please convert to text format.",
		}
	case MimeTypeDocx:
		return "", &domain.ExtractionUnsupportedError{
			MimeType: mimeType,
			Message:  "DOCX processing requires additional setup. Please convert to text format.",
		}
	default:
		return "", &domain.ExtractionUnsupportedError{
			MimeType: mimeType,
			Message:  fmt.Sprintf("Unsupported file type: %s", mimeType),
		}
	}
}
