// Package organizer keeps the ordered page list of an editing session and
// turns it back into a PDF on request.
//
// Entries carry their provenance (source document and zero-based page index)
// separately from their identity, so reordering, duplicating and deleting
// never need to inspect an ID to find the page it stands for.
package organizer

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/models"
)

// Manager is the page collection of one editing session. It is safe for
// concurrent use; every mutation is applied atomically to both the sequence
// and the selection.
type Manager struct {
	id    string
	lib   pdf.Library
	cache PreviewCache
	log   logger.Logger

	mu         sync.Mutex
	entries    []models.PageEntry
	selected   map[string]struct{}
	sources    map[string]*models.SourceDocument
	nextEntry  uint64
	nextSource uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithPreviewCache stores previews in cache instead of process memory.
func WithPreviewCache(cache PreviewCache) Option {
	return func(m *Manager) {
		m.cache = cache
	}
}

// NewManager creates an empty session.
func NewManager(id string, lib pdf.Library, log logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		id:       id,
		lib:      lib,
		log:      log,
		selected: make(map[string]struct{}),
		sources:  make(map[string]*models.SourceDocument),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = NewMemoryCache()
	}
	return m
}

// ID returns the session ID.
func (m *Manager) ID() string {
	return m.id
}

// Load appends one entry per page of data, in page order.
func (m *Manager) Load(ctx context.Context, name string, data []byte) (models.SourceSummary, []models.PageEntry, error) {
	return m.Insert(ctx, name, data, -1)
}

// Insert adds one entry per page of data starting at position. A negative
// position, or one past the end, appends. The sequence is unchanged when
// data cannot be parsed.
func (m *Manager) Insert(ctx context.Context, name string, data []byte, position int) (models.SourceSummary, []models.PageEntry, error) {
	doc, err := m.lib.Parse(data)
	if err != nil {
		m.log.Debug("parse of %q failed: %v", name, err)
		return models.SourceSummary{}, nil, &LoadError{Name: name, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return models.SourceSummary{}, nil, &LoadError{Name: name, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSource++
	src := &models.SourceDocument{
		Ref:       fmt.Sprintf("d%d", m.nextSource),
		Name:      name,
		PageCount: doc.PageCount(),
		Data:      data,
	}
	m.sources[src.Ref] = src

	added := make([]models.PageEntry, src.PageCount)
	for i := range added {
		added[i] = models.PageEntry{ID: m.newEntryID(), Source: src.Ref, SourcePage: i}
	}

	if position < 0 || position > len(m.entries) {
		position = len(m.entries)
	}
	m.entries = slices.Insert(m.entries, position, added...)

	m.log.Info("loaded %q as %s with %d pages at position %d", name, src.Ref, src.PageCount, position)
	return m.summary(src), slices.Clone(added), nil
}

// Move reinserts the entry at target. It reports false, changing nothing,
// when id is unknown, target is outside [0, len-1] or target is the entry's
// current position.
func (m *Manager) Move(id string, target int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.indexOf(id)
	if from < 0 || target < 0 || target >= len(m.entries) || target == from {
		return false
	}
	entry := m.entries[from]
	m.entries = slices.Delete(m.entries, from, from+1)
	m.entries = slices.Insert(m.entries, target, entry)
	return true
}

// Duplicate inserts a copy of the entry, with a new ID, right after it.
func (m *Manager) Duplicate(id string) (models.PageEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	at := m.indexOf(id)
	if at < 0 {
		return models.PageEntry{}, false
	}
	orig := m.entries[at]
	dup := models.PageEntry{ID: m.newEntryID(), Source: orig.Source, SourcePage: orig.SourcePage}
	m.entries = slices.Insert(m.entries, at+1, dup)
	return dup, true
}

// Delete removes every entry whose ID is in ids and drops those IDs from
// the selection. Unknown IDs are ignored. When the delete would leave the
// session without pages it returns ErrDeleteRejected and changes nothing.
func (m *Manager) Delete(ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(ids)
}

// DeleteSelected deletes the currently selected entries.
func (m *Manager) DeleteSelected() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	return m.deleteLocked(ids)
}

func (m *Manager) deleteLocked(ids []string) (int, error) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	remaining := make([]models.PageEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if _, ok := drop[e.ID]; !ok {
			remaining = append(remaining, e)
		}
	}
	removed := len(m.entries) - len(remaining)
	if removed == 0 {
		return 0, nil
	}
	if len(remaining) == 0 {
		return 0, ErrDeleteRejected
	}

	m.entries = remaining
	for id := range drop {
		delete(m.selected, id)
	}
	m.releaseUnreferenced()
	return removed, nil
}

// ToggleSelect flips the selection state of an entry and reports the new
// state. ok is false, and nothing changes, for unknown IDs.
func (m *Manager) ToggleSelect(id string) (selected, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(id) < 0 {
		return false, false
	}
	if _, in := m.selected[id]; in {
		delete(m.selected, id)
		return false, true
	}
	m.selected[id] = struct{}{}
	return true, true
}

// ClearSelection empties the selection.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.selected)
}

// Entries returns the current sequence.
func (m *Manager) Entries() []models.PageEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}

// Selection returns the selected IDs in sequence order.
func (m *Manager) Selection() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectionLocked()
}

func (m *Manager) selectionLocked() []string {
	ids := make([]string, 0, len(m.selected))
	for _, e := range m.entries {
		if _, ok := m.selected[e.ID]; ok {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Sources lists the loaded source documents in load order.
func (m *Manager) Sources() []models.SourceSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sourcesLocked()
}

func (m *Manager) sourcesLocked() []models.SourceSummary {
	out := make([]models.SourceSummary, 0, len(m.sources))
	for _, src := range m.sources {
		out = append(out, m.summary(src))
	}
	slices.SortFunc(out, func(a, b models.SourceSummary) int {
		return refNumber(a.Ref) - refNumber(b.Ref)
	})
	return out
}

// State returns a consistent view of pages, selection and sources.
func (m *Manager) State() models.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.SessionState{
		SessionID: m.id,
		Pages:     append(make([]models.PageEntry, 0, len(m.entries)), m.entries...),
		Selected:  m.selectionLocked(),
		Sources:   m.sourcesLocked(),
	}
}

// Len returns the number of entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Reset drops every entry, the selection, all sources and their previews.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	clear(m.selected)
	for ref := range m.sources {
		m.releaseLocked(ref)
	}
}

// Materialize builds the output document from the sequence as it is when
// the call starts. Edits made while it runs do not affect the result.
func (m *Manager) Materialize(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	if len(m.entries) == 0 {
		m.mu.Unlock()
		return nil, ErrEmpty
	}
	entries := slices.Clone(m.entries)
	sources := make(map[string]*models.SourceDocument, len(m.sources))
	for ref, src := range m.sources {
		sources[ref] = src
	}
	m.mu.Unlock()

	docs := make(map[string]*pdf.Document)
	pages := make([][]byte, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, &MaterializeError{Err: err}
		}
		doc, ok := docs[e.Source]
		if !ok {
			src, found := sources[e.Source]
			if !found {
				return nil, &MaterializeError{Entry: e.ID, Err: ErrSourceMissing}
			}
			var err error
			doc, err = m.lib.Parse(src.Data)
			if err != nil {
				m.log.Error("re-parse of %s failed: %v", src.Ref, err)
				return nil, &MaterializeError{Entry: e.ID, Err: err}
			}
			docs[e.Source] = doc
		}
		page, err := m.lib.ExtractPage(doc, e.SourcePage)
		if err != nil {
			m.log.Error("extract of %s page %d failed: %v", e.Source, e.SourcePage, err)
			return nil, &MaterializeError{Entry: e.ID, Err: err}
		}
		pages = append(pages, page)
	}

	out, err := m.lib.Assemble(pages)
	if err != nil {
		m.log.Error("assemble of %d pages failed: %v", len(pages), err)
		return nil, &MaterializeError{Err: err}
	}
	m.log.Info("materialized %d pages (%d bytes)", len(pages), len(out))
	return out, nil
}

func (m *Manager) newEntryID() string {
	m.nextEntry++
	return fmt.Sprintf("p%d", m.nextEntry)
}

// refNumber returns the load counter encoded in a source ref.
func refNumber(ref string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(ref, "d"))
	return n
}

func (m *Manager) indexOf(id string) int {
	return slices.IndexFunc(m.entries, func(e models.PageEntry) bool { return e.ID == id })
}

func (m *Manager) summary(src *models.SourceDocument) models.SourceSummary {
	inUse := 0
	for _, e := range m.entries {
		if e.Source == src.Ref {
			inUse++
		}
	}
	return models.SourceSummary{Ref: src.Ref, Name: src.Name, PageCount: src.PageCount, InUse: inUse}
}

// releaseUnreferenced drops sources no entry points at any more.
func (m *Manager) releaseUnreferenced() {
	used := make(map[string]struct{}, len(m.sources))
	for _, e := range m.entries {
		used[e.Source] = struct{}{}
	}
	for ref := range m.sources {
		if _, ok := used[ref]; !ok {
			m.releaseLocked(ref)
		}
	}
}

func (m *Manager) releaseLocked(ref string) {
	delete(m.sources, ref)
	if err := m.cache.DeletePreviews(context.Background(), m.id, ref); err != nil {
		m.log.Warn("failed to release previews of %s: %v", ref, err)
	}
	m.log.Debug("released source %s", ref)
}
