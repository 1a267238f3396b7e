package tools

import (
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/internal/storage"
	"github.com/Epistemic-Technology/pdfworks/models"
)

// SessionResponse is returned by every organizer tool that changes or shows
// a session.
type SessionResponse struct {
	Session       models.SessionState `json:"session"`
	Changed       bool                `json:"changed"`
	ResourcePaths []string            `json:"resource_paths,omitempty"`
}

func sessionResponse(m *organizer.Manager, changed bool) *SessionResponse {
	return &SessionResponse{
		Session:       m.State(),
		Changed:       changed,
		ResourcePaths: storage.CalculateResourcePaths(m.ID(), nil),
	}
}

func textResult(format string, v ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, v...)},
		},
	}
}

func describeSources(n int) string {
	if n == 1 {
		return "1 document"
	}
	return fmt.Sprintf("%d documents", n)
}

// OutputResult describes a stored output without its bytes.
type OutputResult struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Filename  string `json:"filename"`
	PageCount int    `json:"page_count"`
	Size      int    `json:"size"`
	CreatedAt string `json:"created_at"`
}

func outputResult(output *models.Output) OutputResult {
	return OutputResult{
		ID:        output.ID,
		Kind:      string(output.Kind),
		Filename:  output.Filename,
		PageCount: output.PageCount,
		Size:      output.Size,
		CreatedAt: output.CreatedAt.Format(time.RFC3339),
	}
}
