package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
)

type OrganizerCloseQuery struct {
	SessionID string `json:"session_id"`
}

type OrganizerCloseResponse struct {
	Closed string `json:"closed"`
}

func OrganizerCloseTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerCloseQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-close",
		Description: "Close an organizer session and release its documents and previews. Outputs already produced stay available.",
		InputSchema: inputschema,
	}
}

func OrganizerCloseToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerCloseQuery, registry *organizer.Registry, log logger.Logger) (*mcp.CallToolResult, *OrganizerCloseResponse, error) {
	log.Info("organizer-close tool called for session %s", query.SessionID)

	if err := registry.Close(query.SessionID); err != nil {
		return nil, nil, err
	}
	return textResult("Closed session %s.", query.SessionID), &OrganizerCloseResponse{Closed: query.SessionID}, nil
}
