package tools

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/operations"
)

type ZoteroAttachmentsQuery struct {
	Query      string   `json:"query,omitempty"`      // Quick search text (searches title, creator, year)
	Tags       []string `json:"tags,omitempty"`       // Filter by tags
	Collection string   `json:"collection,omitempty"` // Filter by collection key (optional)
	Limit      int      `json:"limit,omitempty"`      // Max items to inspect (default 25)
	Images     bool     `json:"images,omitempty"`     // Include image attachments, not only PDFs
}

type ZoteroAttachmentsResponse struct {
	Items []ZoteroAttachmentItem `json:"items"`
	Count int                    `json:"count"`
}

type ZoteroAttachmentItem struct {
	Key         string           `json:"key"`
	Title       string           `json:"title"`
	ItemType    string           `json:"item_type"`
	Attachments []AttachmentInfo `json:"attachments"`
}

type AttachmentInfo struct {
	Key         string `json:"key"` // Use this as zotero_id in organizer-load, pdf-merge or images-to-pdf
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

func ZoteroAttachmentsTool() *mcp.Tool {
	inputschema, err := jsonschema.For[ZoteroAttachmentsQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "zotero-attachments",
		Description: "Search a Zotero library for items with PDF (and optionally image) attachments. Use an attachment key as zotero_id with organizer-load, pdf-merge or images-to-pdf.",
		InputSchema: inputschema,
	}
}

func ZoteroAttachmentsToolHandler(ctx context.Context, req *mcp.CallToolRequest, query ZoteroAttachmentsQuery, fetcher *documents.Fetcher, log logger.Logger) (*mcp.CallToolResult, *ZoteroAttachmentsResponse, error) {
	log.Info("zotero-attachments tool called")

	apiKey, libraryID := fetcher.ZoteroCredentials()
	if apiKey == "" {
		return nil, nil, fmt.Errorf("ZOTERO_API_KEY environment variable not set")
	}
	if libraryID == "" {
		return nil, nil, fmt.Errorf("ZOTERO_LIBRARY_ID environment variable not set")
	}

	items, err := operations.FindAttachments(ctx, apiKey, libraryID, operations.AttachmentSearchParams{
		Query:      query.Query,
		Tags:       query.Tags,
		Collection: query.Collection,
		Limit:      query.Limit,
		ImagesToo:  query.Images,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	results := make([]ZoteroAttachmentItem, len(items))
	for i, item := range items {
		results[i] = ZoteroAttachmentItem{
			Key:      item.Key,
			Title:    item.Title,
			ItemType: item.ItemType,
		}
		for _, att := range item.Attachments {
			results[i].Attachments = append(results[i].Attachments, AttachmentInfo{
				Key:         att.Key,
				Filename:    att.Filename,
				ContentType: att.ContentType,
			})
		}
	}

	return nil, &ZoteroAttachmentsResponse{
		Items: results,
		Count: len(results),
	}, nil
}
