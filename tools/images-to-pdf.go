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

type ImagesToPDFQuery struct {
	Images   []models.SourceInfo `json:"images"`              // One page per image, in order
	PageSize string              `json:"page_size,omitempty"` // Paper size such as "A4", "Letter" or "A4L" (default: image size)
	Position string              `json:"position,omitempty"`  // Anchor: tl, tc, tr, l, c, r, bl, bc, br or full
	Scale    float64             `json:"scale,omitempty"`     // Relative scale factor in (0, 1]
}

type ImagesToPDFResponse struct {
	Output        OutputResult `json:"output"`
	ResourcePaths []string       `json:"resource_paths"`
}

func ImagesToPDFTool() *mcp.Tool {
	inputschema, err := jsonschema.For[ImagesToPDFQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "images-to-pdf",
		Description: "Convert an ordered list of images (PNG, JPEG, TIFF, WebP, GIF or BMP) into a single PDF with one page per image. Each image may be given as raw_data, url, path or zotero_id. The PDF is stored and can be read from the returned resource path.",
		InputSchema: inputschema,
	}
}

func ImagesToPDFToolHandler(ctx context.Context, req *mcp.CallToolRequest, query ImagesToPDFQuery, fetcher *documents.Fetcher, lib *pdf.Pdfcpu, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *ImagesToPDFResponse, error) {
	log.Info("images-to-pdf tool called with %d images", len(query.Images))

	opts := pdf.ImageOptions{
		PageSize: query.PageSize,
		Position: query.Position,
		Scale:    query.Scale,
	}
	data, err := operations.ImagesToPDF(ctx, fetcher, lib, query.Images, opts, log)
	if err != nil {
		return nil, nil, err
	}

	output, err := operations.StoreOutput(ctx, store, lib, models.OutputImages, data)
	if err != nil {
		return nil, nil, err
	}

	result := textResult("Converted %d images into %s (%d pages, %d bytes).", len(query.Images), output.Filename, output.PageCount, output.Size)
	return result, &ImagesToPDFResponse{
		Output:        outputResult(output),
		ResourcePaths: storage.CalculateResourcePaths("", output),
	}, nil
}
