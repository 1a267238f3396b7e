package tools

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf/pdftest"
	"github.com/Epistemic-Technology/pdfworks/internal/storage"
	"github.com/Epistemic-Technology/pdfworks/models"
)

type testEnv struct {
	lib      *pdf.Pdfcpu
	store    storage.Store
	registry *organizer.Registry
	fetcher  *documents.Fetcher
	log      logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewNoOpLogger()
	store, err := storage.NewSQLiteStore("", log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	lib := pdf.New()
	return &testEnv{
		lib:      lib,
		store:    store,
		registry: organizer.NewRegistry(lib, store, log),
		fetcher:  documents.NewFetcher(documents.FetcherConfig{}, log),
		log:      log,
	}
}

func (e *testEnv) open(t *testing.T, widths ...int) string {
	t.Helper()
	ctx := context.Background()
	_, opened, err := OrganizerOpenToolHandler(ctx, nil, OrganizerOpenQuery{}, e.registry, e.log)
	require.NoError(t, err)

	_, loaded, err := OrganizerLoadToolHandler(ctx, nil, OrganizerLoadQuery{
		SessionID: opened.Session.SessionID,
		RawData:   pdftest.Document(t, widths...),
		Name:      "doc.pdf",
	}, e.registry, e.fetcher, e.lib, e.log)
	require.NoError(t, err)
	require.Len(t, loaded.Added, len(widths))
	return opened.Session.SessionID
}

func pageIDs(state models.SessionState) []string {
	out := make([]string, len(state.Pages))
	for i, p := range state.Pages {
		out[i] = p.ID
	}
	return out
}

func TestOrganizerWorkflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sid := env.open(t, 100, 200, 300)

	_, pages, err := OrganizerPagesToolHandler(ctx, nil, OrganizerPagesQuery{SessionID: sid}, env.registry, env.log)
	require.NoError(t, err)
	ids := pageIDs(pages.Session)
	require.Len(t, ids, 3)

	_, moved, err := OrganizerMoveToolHandler(ctx, nil, OrganizerMoveQuery{SessionID: sid, PageID: ids[2], Target: 0}, env.registry, env.log)
	require.NoError(t, err)
	assert.True(t, moved.Changed)
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, pageIDs(moved.Session))

	_, dup, err := OrganizerDuplicateToolHandler(ctx, nil, OrganizerDuplicateQuery{SessionID: sid, PageID: ids[2]}, env.registry, env.log)
	require.NoError(t, err)
	require.NotNil(t, dup.Duplicate)
	assert.Equal(t, []string{ids[2], dup.Duplicate.ID, ids[0], ids[1]}, pageIDs(dup.Session))

	_, selected, err := OrganizerSelectToolHandler(ctx, nil, OrganizerSelectQuery{SessionID: sid, PageIDs: []string{ids[0], ids[1]}}, env.registry, env.log)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ids[0], ids[1]}, selected.Session.Selected)

	_, deleted, err := OrganizerDeleteToolHandler(ctx, nil, OrganizerDeleteQuery{SessionID: sid}, env.registry, env.log)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted.Removed)
	assert.Empty(t, deleted.Session.Selected)

	_, mat, err := OrganizerMaterializeToolHandler(ctx, nil, OrganizerMaterializeQuery{SessionID: sid}, env.registry, env.store, env.lib, env.log)
	require.NoError(t, err)
	assert.Equal(t, 2, mat.Output.PageCount)
	assert.Contains(t, mat.ResourcePaths, storage.OutputURI(mat.Output.ID))

	stored, err := env.store.GetOutput(ctx, mat.Output.ID)
	require.NoError(t, err)
	widths := pdftest.PageWidths(t, stored.Data)
	require.Len(t, widths, 2)
	assert.Equal(t, widths[0], widths[1])
}

func TestOrganizerDelete_RejectsEmptying(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sid := env.open(t, 100, 200)

	m, err := env.registry.Get(sid)
	require.NoError(t, err)
	ids := pageIDs(m.State())

	_, _, err = OrganizerDeleteToolHandler(ctx, nil, OrganizerDeleteQuery{SessionID: sid, PageIDs: ids}, env.registry, env.log)
	assert.ErrorIs(t, err, organizer.ErrDeleteRejected)
	assert.Equal(t, 2, m.Len())
}

func TestOrganizerMove_OutOfRange(t *testing.T) {
	env := newTestEnv(t)
	sid := env.open(t, 100, 200)
	m, err := env.registry.Get(sid)
	require.NoError(t, err)
	before := pageIDs(m.State())

	_, resp, err := OrganizerMoveToolHandler(context.Background(), nil, OrganizerMoveQuery{SessionID: sid, PageID: before[0], Target: 5}, env.registry, env.log)
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Equal(t, before, pageIDs(resp.Session))
}

func TestOrganizerLoad_Position(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sid := env.open(t, 100, 200)

	position := 1
	_, resp, err := OrganizerLoadToolHandler(ctx, nil, OrganizerLoadQuery{
		SessionID: sid,
		RawData:   pdftest.PNG(t, 60, 40),
		Name:      "scan.png",
		Position:  &position,
	}, env.registry, env.fetcher, env.lib, env.log)
	require.NoError(t, err)
	require.Len(t, resp.Added, 1)
	assert.Equal(t, resp.Added[0].ID, resp.Session.Pages[1].ID)
	assert.Len(t, resp.Session.Sources, 2)
}

func TestOrganizerPreview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sid := env.open(t, 100, 200)
	m, err := env.registry.Get(sid)
	require.NoError(t, err)
	second := m.Entries()[1]

	result, resp, err := OrganizerPreviewToolHandler(ctx, nil, OrganizerPreviewQuery{SessionID: sid, PageID: second.ID}, env.registry, env.log)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Position)
	assert.Equal(t, second, resp.Page)

	require.Len(t, result.Content, 2)
	embedded, ok := result.Content[1].(*mcp.EmbeddedResource)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", embedded.Resource.MIMEType)

	n, err := env.lib.PageCount(embedded.Resource.Blob)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, _, err = OrganizerPreviewToolHandler(ctx, nil, OrganizerPreviewQuery{SessionID: sid, PageID: "p99"}, env.registry, env.log)
	assert.ErrorIs(t, err, organizer.ErrUnknownEntry)
}

func TestOrganizerResetAndClose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sid := env.open(t, 100)

	_, reset, err := OrganizerResetToolHandler(ctx, nil, OrganizerResetQuery{SessionID: sid}, env.registry, env.log)
	require.NoError(t, err)
	assert.Empty(t, reset.Session.Pages)
	assert.Empty(t, reset.Session.Sources)

	_, _, err = OrganizerMaterializeToolHandler(ctx, nil, OrganizerMaterializeQuery{SessionID: sid}, env.registry, env.store, env.lib, env.log)
	assert.ErrorIs(t, err, organizer.ErrEmpty)

	_, closed, err := OrganizerCloseToolHandler(ctx, nil, OrganizerCloseQuery{SessionID: sid}, env.registry, env.log)
	require.NoError(t, err)
	assert.Equal(t, sid, closed.Closed)

	_, _, err = OrganizerPagesToolHandler(ctx, nil, OrganizerPagesQuery{SessionID: sid}, env.registry, env.log)
	assert.ErrorIs(t, err, organizer.ErrUnknownSession)
}
