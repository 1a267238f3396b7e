package operations

import (
	"context"
	"fmt"
	"strings"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
)

// AttachmentSearchParams contains parameters for finding loadable
// attachments in a Zotero library.
type AttachmentSearchParams struct {
	Query      string   // Quick search text (searches title, creator, year)
	Tags       []string // Filter by tags
	Collection string   // Filter by collection key (optional)
	Limit      int      // Max parent items to inspect (default 25)
	ImagesToo  bool     // Include image attachments, not only PDFs
}

// AttachmentItem is a Zotero item with the attachments pdfworks can load.
type AttachmentItem struct {
	Key         string
	Title       string
	ItemType    string
	Attachments []AttachmentInfo
}

// AttachmentInfo contains information about a file attached to a Zotero item.
type AttachmentInfo struct {
	Key         string // Use this as zotero_id when loading a document
	Filename    string
	ContentType string // MIME type (e.g., "application/pdf")
}

// FindAttachments searches a Zotero library and returns the matching items
// that have at least one PDF (or, with ImagesToo, image) attachment.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - apiKey: Zotero API key for authentication
//   - libraryID: Zotero library ID
//   - params: Search parameters
//   - log: Logger for recording operations
//
// Returns:
//   - items: Items with loadable attachments, in library sort order
//   - error: Any error encountered during the search
func FindAttachments(ctx context.Context, apiKey, libraryID string, params AttachmentSearchParams, log logger.Logger) ([]AttachmentItem, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Zotero API key is required")
	}
	if libraryID == "" {
		return nil, fmt.Errorf("Zotero library ID is required")
	}

	client := zotero.NewClient(libraryID, zotero.LibraryTypeUser, zotero.WithAPIKey(apiKey))

	queryParams := &zotero.QueryParams{
		Q:        params.Query,
		QMode:    "titleCreatorYear",
		Tag:      params.Tags,
		ItemType: []string{"-attachment"},
		Limit:    params.Limit,
		Sort:     "dateModified",
	}
	if queryParams.Limit <= 0 {
		queryParams.Limit = 25
	}

	var items []zotero.Item
	var err error
	if params.Collection != "" {
		items, err = client.CollectionItems(ctx, params.Collection, queryParams)
		if err != nil {
			log.Error("Failed to search collection %s: %v", params.Collection, err)
			return nil, fmt.Errorf("failed to search collection %s: %w", params.Collection, err)
		}
	} else {
		items, err = client.Items(ctx, queryParams)
		if err != nil {
			log.Error("Failed to search Zotero library: %v", err)
			return nil, fmt.Errorf("failed to search Zotero library: %w", err)
		}
	}

	log.Info("Found %d items in Zotero library", len(items))

	results := make([]AttachmentItem, 0, len(items))
	for _, item := range items {
		if item.Data.ItemType == "attachment" {
			continue
		}

		children, err := client.Children(ctx, item.Key, nil)
		if err != nil {
			log.Error("Failed to retrieve children for item %s: %v", item.Key, err)
			continue
		}

		result := AttachmentItem{
			Key:      item.Key,
			Title:    item.Data.Title,
			ItemType: item.Data.ItemType,
		}
		for _, child := range children {
			if child.Data.ItemType != "attachment" || !loadable(child.Data.ContentType, params.ImagesToo) {
				continue
			}
			result.Attachments = append(result.Attachments, AttachmentInfo{
				Key:         child.Key,
				Filename:    child.Data.Filename,
				ContentType: child.Data.ContentType,
			})
		}
		if len(result.Attachments) > 0 {
			results = append(results, result)
		}
	}

	log.Info("Returning %d items with loadable attachments", len(results))

	return results, nil
}

// loadable reports whether an attachment MIME type can be loaded.
func loadable(contentType string, imagesToo bool) bool {
	if contentType == "application/pdf" {
		return true
	}
	return imagesToo && strings.HasPrefix(contentType, "image/")
}
