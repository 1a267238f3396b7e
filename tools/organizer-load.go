package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/operations"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/internal/storage"
	"github.com/Epistemic-Technology/pdfworks/models"
)

type OrganizerLoadQuery struct {
	SessionID string `json:"session_id"`
	ZoteroID  string `json:"zotero_id,omitempty"`
	URL       string `json:"url,omitempty"`
	Path      string `json:"path,omitempty"`
	RawData   []byte `json:"raw_data,omitempty"`
	Name      string `json:"name,omitempty"`     // Display name for the source (default: derived from the source)
	Position  *int   `json:"position,omitempty"` // Zero-based insert position (default: append)
}

type OrganizerLoadResponse struct {
	Session       models.SessionState  `json:"session"`
	Source        models.SourceSummary `json:"source"`
	Added         []models.PageEntry   `json:"added"`
	ResourcePaths []string             `json:"resource_paths,omitempty"`
}

func OrganizerLoadTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerLoadQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-load",
		Description: "Add every page of a PDF (or a single image, as one page) to an organizer session. Provide exactly one of zotero_id, url, path or raw_data. Pages are appended unless a zero-based position is given.",
		InputSchema: inputschema,
	}
}

func OrganizerLoadToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerLoadQuery, registry *organizer.Registry, fetcher *documents.Fetcher, lib *pdf.Pdfcpu, log logger.Logger) (*mcp.CallToolResult, *OrganizerLoadResponse, error) {
	log.Info("organizer-load tool called for session %s", query.SessionID)

	m, err := registry.Get(query.SessionID)
	if err != nil {
		return nil, nil, err
	}

	position := -1
	if query.Position != nil {
		position = *query.Position
	}
	info := models.SourceInfo{
		ZoteroID: query.ZoteroID,
		URL:      query.URL,
		Path:     query.Path,
		RawData:  query.RawData,
		Name:     query.Name,
	}

	src, added, err := operations.LoadIntoSession(ctx, m, fetcher, lib, info, position)
	if err != nil {
		return nil, nil, err
	}

	result := textResult("Loaded %s as %s: %d pages added, %d pages in session.", src.Name, src.Ref, len(added), m.Len())
	return result, &OrganizerLoadResponse{
		Session:       m.State(),
		Source:        src,
		Added:         added,
		ResourcePaths: storage.CalculateResourcePaths(m.ID(), nil),
	}, nil
}
