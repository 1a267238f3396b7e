package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/operations"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/internal/storage"
	"github.com/Epistemic-Technology/pdfworks/models"
)

type PDFMergeQuery struct {
	Documents []models.SourceInfo `json:"documents"` // PDFs to merge, in output order
}

type PDFMergeResponse struct {
	Output        OutputResult `json:"output"`
	ResourcePaths []string       `json:"resource_paths"`
}

func PDFMergeTool() *mcp.Tool {
	inputschema, err := jsonschema.For[PDFMergeQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "pdf-merge",
		Description: "Merge several PDF documents, in the given order, into one PDF. Each document may be given as raw_data, url, path or zotero_id. The merged PDF is stored and can be read from the returned resource path.",
		InputSchema: inputschema,
	}
}

func PDFMergeToolHandler(ctx context.Context, req *mcp.CallToolRequest, query PDFMergeQuery, fetcher *documents.Fetcher, lib *pdf.Pdfcpu, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *PDFMergeResponse, error) {
	log.Info("pdf-merge tool called with %d documents", len(query.Documents))

	data, err := operations.MergeDocuments(ctx, fetcher, lib, query.Documents, log)
	if err != nil {
		return nil, nil, err
	}

	output, err := operations.StoreOutput(ctx, store, lib, models.OutputMerged, data)
	if err != nil {
		return nil, nil, err
	}

	result := textResult("Merged %s into %s (%d pages, %d bytes).", describeSources(len(query.Documents)), output.Filename, output.PageCount, output.Size)
	return result, &PDFMergeResponse{
		Output:        outputResult(output),
		ResourcePaths: storage.CalculateResourcePaths("", output),
	}, nil
}
