package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/models"
)

type OrganizerDuplicateQuery struct {
	SessionID string `json:"session_id"`
	PageID    string `json:"page_id"`
}

type OrganizerDuplicateResponse struct {
	Session   models.SessionState `json:"session"`
	Duplicate *models.PageEntry   `json:"duplicate,omitempty"`
}

func OrganizerDuplicateTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerDuplicateQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-duplicate",
		Description: "Duplicate a page in an organizer session. The copy gets a new page id, shows the same source page and is placed right after the original.",
		InputSchema: inputschema,
	}
}

func OrganizerDuplicateToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerDuplicateQuery, registry *organizer.Registry, log logger.Logger) (*mcp.CallToolResult, *OrganizerDuplicateResponse, error) {
	log.Info("organizer-duplicate tool called: %s in %s", query.PageID, query.SessionID)

	m, err := registry.Get(query.SessionID)
	if err != nil {
		return nil, nil, err
	}
	dup, ok := m.Duplicate(query.PageID)
	if !ok {
		return textResult("Page %s was not found.", query.PageID), &OrganizerDuplicateResponse{Session: m.State()}, nil
	}
	return textResult("Duplicated page %s as %s.", query.PageID, dup.ID), &OrganizerDuplicateResponse{
		Session:   m.State(),
		Duplicate: &dup,
	}, nil
}
