// Package pdftext turns PDF bytes into plain text, remotely through the
// extraction service or locally with an in-process parser.
package pdftext

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

var (
	// ErrNoText indicates the document yielded no extractable text.
	ErrNoText = errors.New("no extractable text")
	// ErrMalformed indicates the document could not be parsed as a PDF.
	ErrMalformed = errors.New("malformed pdf")
)

// Extractor returns the plain text of a PDF document.
type Extractor interface {
	Text(ctx context.Context, name string, data []byte) (string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, name string, data []byte) (string, error)

func (f ExtractorFunc) Text(ctx context.Context, name string, data []byte) (string, error) {
	return f(ctx, name, data)
}

// Fallback tries Primary first and Secondary when Primary fails.
type Fallback struct {
	Primary   Extractor
	Secondary Extractor
	Logger    *zap.Logger
}

func (f Fallback) Text(ctx context.Context, name string, data []byte) (string, error) {
	text, err := f.Primary.Text(ctx, name, data)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if f.Logger != nil {
		f.Logger.Warn("primary text extraction failed, falling back",
			zap.String("file", name), zap.Error(err))
	}
	text, fbErr := f.Secondary.Text(ctx, name, data)
	if fbErr != nil {
		return "", errors.Join(err, fbErr)
	}
	return text, nil
}

// Cached memoizes extraction results by content digest.
type Cached struct {
	next  Extractor
	cache *lru.Cache[string, string]
}

// NewCached wraps next with an LRU cache of the given size.
func NewCached(next Extractor, size int) (*Cached, error) {
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Text(ctx context.Context, name string, data []byte) (string, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if text, ok := c.cache.Get(key); ok {
		return text, nil
	}
	text, err := c.next.Text(ctx, name, data)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, text)
	return text, nil
}

// Len reports the number of cached documents.
func (c *Cached) Len() int { return c.cache.Len() }

func nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}
