package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
)

type OrganizerPagesQuery struct {
	SessionID string `json:"session_id"`
}

func OrganizerPagesTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerPagesQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-pages",
		Description: "Show the current page order, selection and loaded source documents of an organizer session. Each page lists its id, source document and zero-based source page.",
		InputSchema: inputschema,
	}
}

func OrganizerPagesToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerPagesQuery, registry *organizer.Registry, log logger.Logger) (*mcp.CallToolResult, *SessionResponse, error) {
	log.Debug("organizer-pages tool called for session %s", query.SessionID)

	m, err := registry.Get(query.SessionID)
	if err != nil {
		return nil, nil, err
	}
	resp := sessionResponse(m, false)
	return textResult("Session %s has %d pages, %d selected.", m.ID(), len(resp.Session.Pages), len(resp.Session.Selected)), resp, nil
}
