package storage

import (
	"context"

	"github.com/Epistemic-Technology/pdfworks/models"
)

// Store defines the interface for keeping page previews and produced
// documents
type Store interface {
	// GetPreview retrieves a cached page preview; ok is false on a miss
	GetPreview(ctx context.Context, key models.PreviewKey) (data []byte, ok bool, err error)

	// PutPreview caches a page preview, replacing any previous one
	PutPreview(ctx context.Context, key models.PreviewKey, data []byte) error

	// DeletePreviews removes every preview of a source document in a session
	DeletePreviews(ctx context.Context, session, source string) error

	// PurgePreviews removes every preview. Session IDs restart with each
	// process, so previews left by an earlier run must not be served.
	PurgePreviews(ctx context.Context) error

	// PutOutput stores a produced document and assigns its ID if empty
	PutOutput(ctx context.Context, output *models.Output) error

	// GetOutput retrieves a produced document with its bytes
	GetOutput(ctx context.Context, id string) (*models.Output, error)

	// ListOutputs returns every stored output, newest first
	ListOutputs(ctx context.Context) ([]models.OutputInfo, error)

	// DeleteOutput removes a produced document
	DeleteOutput(ctx context.Context, id string) error

	// Close closes the database connection
	Close() error
}
