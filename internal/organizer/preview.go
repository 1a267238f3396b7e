package organizer

import (
	"context"
	"sync"

	"github.com/Epistemic-Technology/pdfworks/models"
)

// PreviewCache holds single-page previews keyed by source page.
type PreviewCache interface {
	GetPreview(ctx context.Context, key models.PreviewKey) ([]byte, bool, error)
	PutPreview(ctx context.Context, key models.PreviewKey, data []byte) error
	// DeletePreviews drops every preview of one source in a session.
	DeletePreviews(ctx context.Context, session, source string) error
}

// Preview returns a standalone one-page PDF of the entry's page. Previews
// are computed once per source page and released with their source.
func (m *Manager) Preview(ctx context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	at := m.indexOf(id)
	if at < 0 {
		m.mu.Unlock()
		return nil, ErrUnknownEntry
	}
	entry := m.entries[at]
	src := m.sources[entry.Source]
	m.mu.Unlock()

	key := models.PreviewKey{Session: m.id, Source: entry.Source, Page: entry.SourcePage}
	if data, ok, err := m.cache.GetPreview(ctx, key); err != nil {
		m.log.Warn("preview cache lookup failed: %v", err)
	} else if ok {
		return data, nil
	}

	if src == nil {
		return nil, ErrSourceMissing
	}
	doc, err := m.lib.Parse(src.Data)
	if err != nil {
		return nil, err
	}
	data, err := m.lib.ExtractPage(doc, entry.SourcePage)
	if err != nil {
		return nil, err
	}

	// A source released while we were extracting must not get its preview
	// cached again.
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sources[entry.Source]; ok {
		if err := m.cache.PutPreview(ctx, key, data); err != nil {
			m.log.Warn("failed to cache preview of %s page %d: %v", entry.Source, entry.SourcePage, err)
		}
	}
	return data, nil
}

type memoryCache struct {
	mu       sync.Mutex
	previews map[models.PreviewKey][]byte
}

// NewMemoryCache returns a PreviewCache backed by a map.
func NewMemoryCache() PreviewCache {
	return &memoryCache{previews: make(map[models.PreviewKey][]byte)}
}

func (c *memoryCache) GetPreview(_ context.Context, key models.PreviewKey) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.previews[key]
	return data, ok, nil
}

func (c *memoryCache) PutPreview(_ context.Context, key models.PreviewKey, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previews[key] = data
	return nil
}

func (c *memoryCache) DeletePreviews(_ context.Context, session, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.previews {
		if key.Session == session && key.Source == source {
			delete(c.previews, key)
		}
	}
	return nil
}
