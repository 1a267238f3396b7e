package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/operations"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/internal/storage"
	"github.com/Epistemic-Technology/pdfworks/models"
)

type OrganizerMaterializeQuery struct {
	SessionID string `json:"session_id"`
}

type OrganizerMaterializeResponse struct {
	Output        OutputResult `json:"output"`
	ResourcePaths []string       `json:"resource_paths"`
}

func OrganizerMaterializeTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerMaterializeQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-materialize",
		Description: "Build a PDF from an organizer session's pages in their current order. The PDF is stored and can be read from the returned resource path; the session stays open for further edits.",
		InputSchema: inputschema,
	}
}

func OrganizerMaterializeToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerMaterializeQuery, registry *organizer.Registry, store storage.Store, lib *pdf.Pdfcpu, log logger.Logger) (*mcp.CallToolResult, *OrganizerMaterializeResponse, error) {
	log.Info("organizer-materialize tool called for session %s", query.SessionID)

	m, err := registry.Get(query.SessionID)
	if err != nil {
		return nil, nil, err
	}

	data, err := m.Materialize(ctx)
	if err != nil {
		return nil, nil, err
	}

	output, err := operations.StoreOutput(ctx, store, lib, models.OutputOrganized, data)
	if err != nil {
		return nil, nil, err
	}

	result := textResult("Generated %s with %d pages (%d bytes).", output.Filename, output.PageCount, output.Size)
	return result, &OrganizerMaterializeResponse{
		Output:        outputResult(output),
		ResourcePaths: storage.CalculateResourcePaths(m.ID(), output),
	}, nil
}
