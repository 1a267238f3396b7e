package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/models"
)

type OrganizerDeleteQuery struct {
	SessionID string   `json:"session_id"`
	PageIDs   []string `json:"page_ids,omitempty"` // Pages to delete (default: the current selection)
}

type OrganizerDeleteResponse struct {
	Session models.SessionState `json:"session"`
	Removed int                 `json:"removed"`
}

func OrganizerDeleteTool() *mcp.Tool {
	inputschema, err := jsonschema.For[OrganizerDeleteQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "organizer-delete",
		Description: "Delete pages from an organizer session, either the given page_ids or, when none are given, the selected pages. A session always keeps at least one page: a delete that would remove every page is rejected and changes nothing.",
		InputSchema: inputschema,
	}
}

func OrganizerDeleteToolHandler(ctx context.Context, req *mcp.CallToolRequest, query OrganizerDeleteQuery, registry *organizer.Registry, log logger.Logger) (*mcp.CallToolResult, *OrganizerDeleteResponse, error) {
	log.Info("organizer-delete tool called for session %s", query.SessionID)

	m, err := registry.Get(query.SessionID)
	if err != nil {
		return nil, nil, err
	}

	var removed int
	if len(query.PageIDs) > 0 {
		removed, err = m.Delete(query.PageIDs)
	} else {
		removed, err = m.DeleteSelected()
	}
	if err != nil {
		return nil, nil, err
	}

	return textResult("Deleted %d pages, %d remain.", removed, m.Len()), &OrganizerDeleteResponse{
		Session: m.State(),
		Removed: removed,
	}, nil
}
