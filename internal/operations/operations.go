// Package operations holds the logic shared by the MCP tools and the
// command line: resolving sources, running the PDF utilities and storing
// what they produce.
package operations

import (
	"context"
	"errors"
	"fmt"

	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/internal/storage"
	"github.com/Epistemic-Technology/pdfworks/models"
)

// ErrNotPDF is returned when a source expected to be a PDF is something else.
var ErrNotPDF = errors.New("source is not a PDF document")

// FetchAll resolves every source in order. The first failure aborts and
// names the offending source by its one-based position.
func FetchAll(ctx context.Context, fetcher *documents.Fetcher, sources []models.SourceInfo) ([]models.DocumentData, error) {
	if len(sources) == 0 {
		return nil, pdf.ErrNoInput
	}
	docs := make([]models.DocumentData, 0, len(sources))
	for i, src := range sources {
		doc, err := fetcher.GetData(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch source %d: %w", i+1, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// MergeDocuments fetches the given PDFs and merges them, in order, into one
// document.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - fetcher: Resolves each source to bytes
//   - lib: PDF library used for the merge
//   - sources: Documents to merge, in output order
//   - log: Logger for recording operations
//
// Returns:
//   - data: The merged document
//   - error: Any error encountered while fetching or merging
func MergeDocuments(ctx context.Context, fetcher *documents.Fetcher, lib *pdf.Pdfcpu, sources []models.SourceInfo, log logger.Logger) ([]byte, error) {
	docs, err := FetchAll(ctx, fetcher, sources)
	if err != nil {
		return nil, err
	}

	raw := make([][]byte, len(docs))
	for i, doc := range docs {
		if doc.Type != documents.TypePDF {
			return nil, fmt.Errorf("source %d (%s): %w", i+1, doc.Name, ErrNotPDF)
		}
		raw[i] = doc.Data
	}

	out, err := lib.Merge(raw)
	if err != nil {
		log.Error("merge of %d documents failed: %v", len(raw), err)
		return nil, fmt.Errorf("failed to merge documents: %w", err)
	}
	log.Info("merged %d documents (%d bytes)", len(raw), len(out))
	return out, nil
}

// ImagesToPDF fetches the given images and converts them into one PDF with
// one page per image, in order.
func ImagesToPDF(ctx context.Context, fetcher *documents.Fetcher, lib *pdf.Pdfcpu, sources []models.SourceInfo, opts pdf.ImageOptions, log logger.Logger) ([]byte, error) {
	docs, err := FetchAll(ctx, fetcher, sources)
	if err != nil {
		return nil, err
	}

	images := make([]pdf.Image, len(docs))
	for i, doc := range docs {
		images[i] = pdf.Image{Name: doc.Name, Data: doc.Data, Type: doc.Type}
	}

	out, err := lib.ImagesToPDF(images, opts)
	if err != nil {
		log.Error("conversion of %d images failed: %v", len(images), err)
		return nil, fmt.Errorf("failed to convert images: %w", err)
	}
	log.Info("converted %d images (%d bytes)", len(images), len(out))
	return out, nil
}

// LoadIntoSession fetches a source and adds its pages to an organizer
// session at position (negative appends). Images are converted to a
// one-page PDF first.
func LoadIntoSession(ctx context.Context, m *organizer.Manager, fetcher *documents.Fetcher, lib *pdf.Pdfcpu, info models.SourceInfo, position int) (models.SourceSummary, []models.PageEntry, error) {
	doc, err := fetcher.GetData(ctx, info)
	if err != nil {
		return models.SourceSummary{}, nil, fmt.Errorf("failed to fetch document data: %w", err)
	}

	data := doc.Data
	if documents.IsImage(doc.Type) {
		data, err = lib.ImagesToPDF([]pdf.Image{{Name: doc.Name, Data: doc.Data, Type: doc.Type}}, pdf.ImageOptions{})
		if err != nil {
			return models.SourceSummary{}, nil, &organizer.LoadError{Name: doc.Name, Err: err}
		}
	}

	return m.Insert(ctx, doc.Name, data, position)
}

// StoreOutput records a produced document so it can be read back as a
// resource. The page count is taken from the document itself.
func StoreOutput(ctx context.Context, store storage.Store, lib *pdf.Pdfcpu, kind models.OutputKind, data []byte) (*models.Output, error) {
	pageCount, err := lib.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages of output: %w", err)
	}

	output := &models.Output{
		Kind:      kind,
		PageCount: pageCount,
		Data:      data,
	}
	if err := store.PutOutput(ctx, output); err != nil {
		return nil, fmt.Errorf("failed to store output: %w", err)
	}
	return output, nil
}
