package tools

import (
	"context"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/internal/storage"
	"github.com/Epistemic-Technology/pdfworks/models"
)

type OrganizerPreviewQuery struct {
	SessionID string `json:"session_id"`
	PageID    string `json:"page_id"`
}

type OrganizerPreviewResponse struct {
	Page     models.PageEntry `json:"page"`
	Position int              `json:"position"`
	Size     int              `json:"size"`
}

func OrganizerPreviewTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerPreviewQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-preview",
		Description: "Return a single page of an organizer session as a one-page PDF, embedded in the result. Previews are cached until the page's source document is released.",
		InputSchema: inputschema,
	}
}

func OrganizerPreviewToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerPreviewQuery, registry *organizer.Registry, log logger.Logger) (*mcp.CallToolResult, *OrganizerPreviewResponse, error) {
	log.Debug("organizer-preview tool called: %s in %s", query.PageID, query.SessionID)

	m, err := registry.Get(query.SessionID)
	if err != nil {
		return nil, nil, err
	}

	data, err := m.Preview(ctx, query.PageID)
	if err != nil {
		return nil, nil, err
	}

	entries := m.Entries()
	position := slices.IndexFunc(entries, func(e models.PageEntry) bool { return e.ID == query.PageID })
	resp := &OrganizerPreviewResponse{Position: position, Size: len(data)}
	if position >= 0 {
		resp.Page = entries[position]
	}

	result := textResult("Page %s at position %d (%d bytes).", query.PageID, position, len(data))
	result.Content = append(result.Content, &mcp.EmbeddedResource{
		Resource: &mcp.ResourceContents{
			URI:      storage.SessionURI(m.ID()) + "/pages/" + query.PageID,
			MIMEType: "application/pdf",
			Blob:     data,
		},
	})
	return result, resp, nil
}
