package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/config"
	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/internal/storage"
	"github.com/Epistemic-Technology/pdfworks/resources"
	"github.com/Epistemic-Technology/pdfworks/tools"
)

// Server is the pdfworks MCP server together with the state its tools share.
type Server struct {
	*mcp.Server

	Store    storage.Store
	Registry *organizer.Registry
}

// Close releases the storage backend.
func (s *Server) Close() error {
	return s.Store.Close()
}

func CreateServer(ctx context.Context, cfg *config.Config, version string, log logger.Logger) (*Server, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: "pdfworks", Version: version}, nil)

	store, err := initializeStorage(ctx, cfg.Store.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var libOpts []pdf.Option
	if cfg.PDF.Strict {
		libOpts = append(libOpts, pdf.WithStrictValidation())
	}
	lib := pdf.New(libOpts...)
	fetcher := documents.NewFetcher(cfg.Fetcher(), log.Named("fetch"))
	registry := organizer.NewRegistry(lib, store, log.Named("organizer"))
	resourceHandler := resources.NewResourceHandler(store, registry)

	mcp.AddTool(server, tools.ImagesToPDFTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.ImagesToPDFQuery) (*mcp.CallToolResult, *tools.ImagesToPDFResponse, error) {
		return tools.ImagesToPDFToolHandler(ctx, req, query, fetcher, lib, store, log)
	})

	mcp.AddTool(server, tools.PDFMergeTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.PDFMergeQuery) (*mcp.CallToolResult, *tools.PDFMergeResponse, error) {
		return tools.PDFMergeToolHandler(ctx, req, query, fetcher, lib, store, log)
	})

	mcp.AddTool(server, tools.OrganizerOpenTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerOpenQuery) (*mcp.CallToolResult, *tools.SessionResponse, error) {
		return tools.OrganizerOpenToolHandler(ctx, req, query, registry, log)
	})

	mcp.AddTool(server, tools.OrganizerLoadTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerLoadQuery) (*mcp.CallToolResult, *tools.OrganizerLoadResponse, error) {
		return tools.OrganizerLoadToolHandler(ctx, req, query, registry, fetcher, lib, log)
	})

	mcp.AddTool(server, tools.OrganizerPagesTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerPagesQuery) (*mcp.CallToolResult, *tools.SessionResponse, error) {
		return tools.OrganizerPagesToolHandler(ctx, req, query, registry, log)
	})

	mcp.AddTool(server, tools.OrganizerMoveTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerMoveQuery) (*mcp.CallToolResult, *tools.SessionResponse, error) {
		return tools.OrganizerMoveToolHandler(ctx, req, query, registry, log)
	})

	mcp.AddTool(server, tools.OrganizerDuplicateTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerDuplicateQuery) (*mcp.CallToolResult, *tools.OrganizerDuplicateResponse, error) {
		return tools.OrganizerDuplicateToolHandler(ctx, req, query, registry, log)
	})

	mcp.AddTool(server, tools.OrganizerSelectTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerSelectQuery) (*mcp.CallToolResult, *tools.SessionResponse, error) {
		return tools.OrganizerSelectToolHandler(ctx, req, query, registry, log)
	})

	mcp.AddTool(server, tools.OrganizerDeleteTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerDeleteQuery) (*mcp.CallToolResult, *tools.OrganizerDeleteResponse, error) {
		return tools.OrganizerDeleteToolHandler(ctx, req, query, registry, log)
	})

	mcp.AddTool(server, tools.OrganizerMaterializeTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerMaterializeQuery) (*mcp.CallToolResult, *tools.OrganizerMaterializeResponse, error) {
		return tools.OrganizerMaterializeToolHandler(ctx, req, query, registry, store, lib, log)
	})

	mcp.AddTool(server, tools.OrganizerResetTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerResetQuery) (*mcp.CallToolResult, *tools.SessionResponse, error) {
		return tools.OrganizerResetToolHandler(ctx, req, query, registry, log)
	})

	mcp.AddTool(server, tools.OrganizerCloseTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerCloseQuery) (*mcp.CallToolResult, *tools.OrganizerCloseResponse, error) {
		return tools.OrganizerCloseToolHandler(ctx, req, query, registry, log)
	})

	mcp.AddTool(server, tools.OrganizerPreviewTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.OrganizerPreviewQuery) (*mcp.CallToolResult, *tools.OrganizerPreviewResponse, error) {
		return tools.OrganizerPreviewToolHandler(ctx, req, query, registry, log)
	})

	mcp.AddTool(server, tools.ZoteroAttachmentsTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.ZoteroAttachmentsQuery) (*mcp.CallToolResult, *tools.ZoteroAttachmentsResponse, error) {
		return tools.ZoteroAttachmentsToolHandler(ctx, req, query, fetcher, log)
	})

	// Template for produced documents
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "pdfworks://outputs/{outputId}",
		Name:        "pdfworks-output",
		Description: "A PDF produced by images-to-pdf, pdf-merge or organizer-materialize",
		MIMEType:    "application/pdf",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return resourceHandler.ReadResource(ctx, req.Params.URI)
	})

	// Template for organizer sessions
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "pdfworks://sessions/{sessionId}",
		Name:        "pdfworks-session",
		Description: "Page order, selection and loaded documents of an organizer session",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return resourceHandler.ReadResource(ctx, req.Params.URI)
	})

	return &Server{Server: server, Store: store, Registry: registry}, nil
}

// initializeStorage creates and initializes the storage backend
func initializeStorage(ctx context.Context, dbPath string, log logger.Logger) (storage.Store, error) {
	if dbPath == "" {
		log.Info("Using in-memory SQLite database")
	} else {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		log.Info("Initializing SQLite database at: %s", dbPath)
	}

	store, err := storage.NewSQLiteStore(dbPath, log.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite store: %w", err)
	}

	if err := store.PurgePreviews(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return store, nil
}
