package content

import (
	"context"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
)

// Used when no fetcher is wired for a remote source.
const (
	TranscriptPlaceholder = "YouTube transcript placeholder"
	ArticlePlaceholder    = "Article content placeholder"
)

// Normalizer turns an Input into the plain text the prompts are built from.
type Normalizer struct {
	transcripts TranscriptFetcher
	articles    ArticleFetcher
	cache       *lru.Cache[string, string]
	logger      *slog.Logger
}

// NewNormalizer builds a Normalizer. Either fetcher may be nil; cacheSize <= 0 disables caching.
func NewNormalizer(transcripts TranscriptFetcher, articles ArticleFetcher, cacheSize int, logger *slog.Logger) (*Normalizer, error) {
	n := &Normalizer{
		transcripts: transcripts,
		articles:    articles,
		logger:      logger,
	}
	if cacheSize > 0 {
		c, err := lru.New[string, string](cacheSize)
		if err != nil {
			return nil, err
		}
		n.cache = c
	}
	return n, nil
}

// Normalize returns the text content of in.
func (n *Normalizer) Normalize(ctx context.Context, in Input) (string, error) {
	switch in.Kind {
	case KindText:
		if strings.TrimSpace(in.Payload) == "" {
			return "", apperr.New(apperr.EmptyContent, "normalize text", "content is empty")
		}
		return in.Payload, nil

	case KindYouTube:
		id, err := ExtractVideoID(in.Payload)
		if err != nil {
			return "", err
		}
		if n.transcripts == nil {
			return TranscriptPlaceholder, nil
		}
		return n.cached(ctx, "youtube:"+id, func(ctx context.Context) (string, error) {
			return n.transcripts.Transcript(ctx, id)
		})

	case KindPDF:
		if in.File == nil {
			return "", apperr.New(apperr.InvalidArgument, "normalize pdf", "pdf input requires a file")
		}
		if !isPDFName(in.File.Name) {
			return "", apperr.New(apperr.InvalidArgument, "normalize pdf", "file must have a .pdf name: "+in.File.Name)
		}
		return ExtractPDFText(in.File.Data)

	case KindArticle:
		u, err := parseHTTPURL(in.Payload)
		if err != nil {
			return "", err
		}
		if n.articles == nil {
			return ArticlePlaceholder, nil
		}
		return n.cached(ctx, "article:"+u.String(), func(ctx context.Context) (string, error) {
			return n.articles.Article(ctx, u.String())
		})

	default:
		return "", apperr.New(apperr.UnsupportedType, "normalize", "unsupported content type: "+string(in.Kind))
	}
}

func (n *Normalizer) cached(ctx context.Context, key string, fetch func(context.Context) (string, error)) (string, error) {
	if n.cache != nil {
		if text, ok := n.cache.Get(key); ok {
			n.logger.Debug("content cache hit", "key", key)
			return text, nil
		}
	}

	text, err := fetch(ctx)
	if err != nil {
		return "", err
	}

	if n.cache != nil {
		n.cache.Add(key, text)
	}
	n.logger.Info("content fetched", "key", key, "text_len", len(text))
	return text, nil
}
