package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/internal/storage"
)

const scheme = "pdfworks://"

// ResourceHandler serves produced documents and organizer session state
type ResourceHandler struct {
	store    storage.Store
	registry *organizer.Registry
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(store storage.Store, registry *organizer.Registry) *ResourceHandler {
	return &ResourceHandler{store: store, registry: registry}
}

// ListResources returns a list of available resources
func (h *ResourceHandler) ListResources(ctx context.Context) ([]*mcp.Resource, error) {
	outputs, err := h.store.ListOutputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list outputs: %w", err)
	}

	var resources []*mcp.Resource
	for _, out := range outputs {
		resources = append(resources, &mcp.Resource{
			URI:         storage.OutputURI(out.ID),
			Name:        out.Filename,
			Description: fmt.Sprintf("%s PDF with %d pages", out.Kind, out.PageCount),
			MIMEType:    "application/pdf",
			Size:        int64(out.Size),
		})
	}

	for _, id := range h.registry.List() {
		resources = append(resources, &mcp.Resource{
			URI:         storage.SessionURI(id),
			Name:        fmt.Sprintf("%s (Organizer Session)", id),
			Description: "Page order, selection and loaded documents of an organizer session",
			MIMEType:    "application/json",
		})
	}

	return resources, nil
}

// ReadResource reads a specific resource by URI
func (h *ResourceHandler) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	// Parse URI: pdfworks://resource_type/id
	if !strings.HasPrefix(uri, scheme) {
		return nil, fmt.Errorf("invalid URI scheme, expected %s", scheme)
	}

	resourceType, id, ok := strings.Cut(strings.TrimPrefix(uri, scheme), "/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("invalid URI, expected %s<type>/<id>", scheme)
	}

	switch resourceType {
	case "outputs":
		return h.readOutput(ctx, uri, id)
	case "sessions":
		return h.readSession(uri, id)
	default:
		return nil, fmt.Errorf("unknown resource type: %s", resourceType)
	}
}

func (h *ResourceHandler) readOutput(ctx context.Context, uri, id string) (*mcp.ReadResourceResult, error) {
	output, err := h.store.GetOutput(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/pdf",
				Blob:     output.Data,
			},
		},
	}, nil
}

func (h *ResourceHandler) readSession(uri, id string) (*mcp.ReadResourceResult, error) {
	m, err := h.registry.Get(id)
	if errors.Is(err, organizer.ErrUnknownSession) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(m.State(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
