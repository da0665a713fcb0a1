package content

import (
	"net/url"
	"strings"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
)

// Kind tags what a submitted payload is.
type Kind string

const (
	KindText    Kind = "text"
	KindYouTube Kind = "youtube"
	KindPDF     Kind = "pdf"
	KindArticle Kind = "article"
)

// File is an uploaded document.
type File struct {
	Name string
	Data []byte
}

// Input is one user submission. Payload holds the text or URL; File is set for pdf.
type Input struct {
	Kind    Kind
	Payload string
	File    *File
}

// ParseKind maps a wire tag to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindText, KindYouTube, KindPDF, KindArticle:
		return k, nil
	default:
		return "", apperr.New(apperr.UnsupportedType, "parse kind", "unsupported content type: "+s)
	}
}

// parseHTTPURL accepts only absolute http(s) URLs with a host.
func parseHTTPURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperr.New(apperr.InvalidURL, "parse url", "url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidURL, "parse url", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperr.New(apperr.InvalidURL, "parse url", "url must start with http:// or https://")
	}
	return u, nil
}

func isPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".pdf")
}
