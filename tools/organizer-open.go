package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
)

type OrganizerOpenQuery struct{}

func OrganizerOpenTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerOpenQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-open",
		Description: "Start a new, empty page organizer session. Use the returned session_id with organizer-load to add pages, then reorder, duplicate or delete them and call organizer-materialize to produce the PDF.",
		InputSchema: inputschema,
	}
}

func OrganizerOpenToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerOpenQuery, registry *organizer.Registry, log logger.Logger) (*mcp.CallToolResult, *SessionResponse, error) {
	m := registry.Open()
	log.Info("organizer-open tool called, opened %s", m.ID())
	return textResult("Opened session %s.", m.ID()), sessionResponse(m, true), nil
}
