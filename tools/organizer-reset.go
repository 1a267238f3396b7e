package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
)

type OrganizerResetQuery struct {
	SessionID string `json:"session_id"`
}

func OrganizerResetTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerResetQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-reset",
		Description: "Remove every page, the selection and all loaded documents from an organizer session, keeping the session open.",
		InputSchema: inputschema,
	}
}

func OrganizerResetToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerResetQuery, registry *organizer.Registry, log logger.Logger) (*mcp.CallToolResult, *SessionResponse, error) {
	log.Info("organizer-reset tool called for session %s", query.SessionID)

	m, err := registry.Get(query.SessionID)
	if err != nil {
		return nil, nil, err
	}
	m.Reset()
	return textResult("Session %s is empty.", m.ID()), sessionResponse(m, true), nil
}
