package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Epistemic-Technology/pdfworks/internal/config"
	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf/pdftest"
	"github.com/Epistemic-Technology/pdfworks/tools"
)

func connect(t *testing.T, cfg *config.Config) (*Server, *mcp.ClientSession) {
	t.Helper()
	ctx := context.Background()

	srv, err := CreateServer(ctx, cfg, "test", logger.NewNoOpLogger())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return srv, session
}

func TestCreateServer_ListsTools(t *testing.T) {
	_, session := connect(t, &config.Config{})

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"images-to-pdf",
		"pdf-merge",
		"organizer-open",
		"organizer-load",
		"organizer-pages",
		"organizer-move",
		"organizer-duplicate",
		"organizer-select",
		"organizer-delete",
		"organizer-materialize",
		"organizer-reset",
		"organizer-close",
		"organizer-preview",
		"zotero-attachments",
	}, names)
}

func TestCreateServer_MaterializedOutputIsReadable(t *testing.T) {
	srv, session := connect(t, &config.Config{})
	ctx := context.Background()

	m := srv.Registry.Open()
	data := pdftest.Document(t, 100, 200)
	_, _, err := m.Load(ctx, "a.pdf", data)
	require.NoError(t, err)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "organizer-materialize",
		Arguments: tools.OrganizerMaterializeQuery{SessionID: m.ID()},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	outputs, err := srv.Store.ListOutputs(ctx)
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	read, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "pdfworks://outputs/" + outputs[0].ID})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	assert.Equal(t, pdftest.PageWidths(t, data), pdftest.PageWidths(t, read.Contents[0].Blob))
}

func TestCreateServer_FileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pdfworks.db")
	srv, err := CreateServer(context.Background(), &config.Config{Store: config.StoreConfig{Path: path}}, "test", logger.NewNoOpLogger())
	require.NoError(t, err)
	require.NoError(t, srv.Close())
	assert.FileExists(t, path)
}
