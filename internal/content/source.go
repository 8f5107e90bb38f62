package content

import (
	"context"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
	"github.com/FocuswithJustin/JuniperCanon/internal/cache"
	"github.com/FocuswithJustin/JuniperCanon/internal/logging"
)

// Source supplies verse text.
type Source interface {
	Text(ctx context.Context, key Key) (string, error)
	Name() string
}

// Cached wraps a Source with a TTL cache. Failed lookups are not cached.
type Cached struct {
	src   Source
	cache *cache.TTLCache[Key, string]
}

// NewCached returns src fronted by a cache holding entries for ttl.
// A non-positive ttl disables caching.
func NewCached(src Source, ttl time.Duration) *Cached {
	return &Cached{src: src, cache: cache.New[Key, string](ttl)}
}

// Name implements Source.
func (c *Cached) Name() string { return c.src.Name() }

// Text implements Source.
func (c *Cached) Text(ctx context.Context, key Key) (string, error) {
	if text, ok := c.cache.Get(key); ok {
		logging.ContentLookup(ctx, key.Ordinal, c.Name(), true)
		return text, nil
	}
	text, err := c.cache.GetOrLoad(key, func() (string, error) {
		return c.src.Text(ctx, key)
	})
	if err != nil {
		return "", err
	}
	logging.ContentLookup(ctx, key.Ordinal, c.Name(), false)
	return text, nil
}

// Len returns the number of cached entries.
func (c *Cached) Len() int { return c.cache.Len() }

// Invalidate drops every cached entry.
func (c *Cached) Invalidate() { c.cache.Invalidate() }

// VerseText returns the text of v, fetching it from src on first use and
// memoising it on the verse afterwards.
func VerseText(ctx context.Context, src Source, v *bible.Verse) (string, error) {
	if text, ok := v.CachedText(); ok {
		return text, nil
	}
	text, err := src.Text(ctx, KeyOf(v))
	if err != nil {
		return "", err
	}
	return v.CacheText(text), nil
}

// PassageText returns the text of every verse in p, one verse per line.
func PassageText(ctx context.Context, src Source, p *bible.Passage) (string, error) {
	var sb strings.Builder
	for v := range p.Verses() {
		text, err := VerseText(ctx, src, v)
		if err != nil {
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
