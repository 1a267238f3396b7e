package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
)

type OrganizerMoveQuery struct {
	SessionID string `json:"session_id"`
	PageID    string `json:"page_id"`
	Target    int    `json:"target"` // Zero-based position the page should end up at
}

func OrganizerMoveTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerMoveQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-move",
		Description: "Move a page to a new zero-based position in an organizer session. Other pages keep their relative order. Moving to an out-of-range position, or to where the page already is, changes nothing.",
		InputSchema: inputschema,
	}
}

func OrganizerMoveToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerMoveQuery, registry *organizer.Registry, log logger.Logger) (*mcp.CallToolResult, *SessionResponse, error) {
	log.Info("organizer-move tool called: %s to %d in %s", query.PageID, query.Target, query.SessionID)

	m, err := registry.Get(query.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if !m.Move(query.PageID, query.Target) {
		return textResult("Page %s was not moved.", query.PageID), sessionResponse(m, false), nil
	}
	return textResult("Moved page %s to position %d.", query.PageID, query.Target), sessionResponse(m, true), nil
}
