package content

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
)

// ExtractPDFText reads the text layer of a PDF document.
func ExtractPDFText(data []byte) (text string, err error) {
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		return "", apperr.New(apperr.FileReadError, "read pdf", "file is missing the %PDF header")
	}

	// the pdf lexer panics on some malformed input
	defer func() {
		if r := recover(); r != nil {
			text, err = "", apperr.New(apperr.FileReadError, "read pdf", fmt.Sprint("malformed pdf: ", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperr.Wrap(apperr.FileReadError, "read pdf", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", apperr.Wrap(apperr.FileReadError, "pdf plaintext", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", apperr.Wrap(apperr.FileReadError, "pdf read", err)
	}

	text = collapseWhitespace(string(b))
	if text == "" {
		return "", apperr.New(apperr.EmptyContent, "read pdf", "pdf has no text layer")
	}
	return text, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
