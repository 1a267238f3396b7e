package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
)

type OrganizerSelectQuery struct {
	SessionID string   `json:"session_id"`
	PageIDs   []string `json:"page_ids,omitempty"` // Pages whose selection is toggled, in order
	Clear     bool     `json:"clear,omitempty"`    // Clear the selection before toggling
}

func OrganizerSelectTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerSelectQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-select",
		Description: "Toggle the selection of pages in an organizer session: selected pages become unselected and vice versa. Set clear to empty the selection first. Selected pages can be removed together with organizer-delete.",
		InputSchema: inputschema,
	}
}

func OrganizerSelectToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerSelectQuery, registry *organizer.Registry, log logger.Logger) (*mcp.CallToolResult, *SessionResponse, error) {
	log.Info("organizer-select tool called: %d pages in %s", len(query.PageIDs), query.SessionID)

	m, err := registry.Get(query.SessionID)
	if err != nil {
		return nil, nil, err
	}

	changed := false
	if query.Clear {
		changed = len(m.Selection()) > 0
		m.ClearSelection()
	}
	for _, id := range query.PageIDs {
		if _, ok := m.ToggleSelect(id); ok {
			changed = true
		}
	}

	resp := sessionResponse(m, changed)
	return textResult("%d pages selected.", len(resp.Session.Selected)), resp, nil
}
