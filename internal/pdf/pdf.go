package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrNoPages is returned for documents without a single page.
	ErrNoPages = errors.New("document has no pages")
	// ErrPageRange is returned when a page index does not exist in a document.
	ErrPageRange = errors.New("page index out of range")
	// ErrNoInput is returned when an operation is given nothing to work on.
	ErrNoInput = errors.New("no input documents")
)

// Document is a parsed PDF whose pages can be extracted.
type Document struct {
	ctx *model.Context
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Library is the page-level PDF toolkit the organizer and tools depend on.
type Library interface {
	// Parse loads raw bytes into a page-addressable document.
	Parse(data []byte) (*Document, error)
	// ExtractPage returns a standalone one-page document holding the page at
	// the zero-based index.
	ExtractPage(doc *Document, index int) ([]byte, error)
	// Assemble concatenates one-page documents, in order, into one document.
	Assemble(pages [][]byte) ([]byte, error)
}

// Pdfcpu implements Library on top of pdfcpu.
type Pdfcpu struct {
	relaxed bool
}

// Option configures a Pdfcpu library.
type Option func(*Pdfcpu)

// WithStrictValidation validates input against the PDF specification instead
// of pdfcpu's relaxed mode.
func WithStrictValidation() Option {
	return func(p *Pdfcpu) {
		p.relaxed = false
	}
}

// New creates a pdfcpu backed Library.
func New(opts ...Option) *Pdfcpu {
	p := &Pdfcpu{relaxed: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pdfcpu) configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	if p.relaxed {
		conf.ValidationMode = model.ValidationRelaxed
	} else {
		conf.ValidationMode = model.ValidationStrict
	}
	return conf
}

// Parse reads, validates and optimizes data.
func (p *Pdfcpu) Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty document data")
	}
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), p.configuration())
	if err != nil {
		return nil, err
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}
	if ctx.PageCount == 0 {
		return nil, ErrNoPages
	}
	return &Document{ctx: ctx}, nil
}

func (p *Pdfcpu) ExtractPage(doc *Document, index int) ([]byte, error) {
	if index < 0 || index >= doc.PageCount() {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageRange, index, doc.PageCount())
	}
	pageReader, err := api.ExtractPage(doc.ctx, index+1)
	if err != nil {
		return nil, fmt.Errorf("failed to extract page %d: %w", index, err)
	}
	pageData, err := io.ReadAll(pageReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d: %w", index, err)
	}
	return pageData, nil
}

func (p *Pdfcpu) Assemble(pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, ErrNoInput
	}
	if len(pages) == 1 {
		if _, err := p.Parse(pages[0]); err != nil {
			return nil, fmt.Errorf("failed to validate page: %w", err)
		}
		return pages[0], nil
	}
	return p.mergeRaw(pages)
}

// Merge concatenates whole documents in order. Every input is parsed first
// so a broken member is reported by its index.
func (p *Pdfcpu) Merge(docs [][]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, ErrNoInput
	}
	for i, doc := range docs {
		if _, err := p.Parse(doc); err != nil {
			return nil, fmt.Errorf("document %d is not a valid PDF: %w", i+1, err)
		}
	}
	if len(docs) == 1 {
		return docs[0], nil
	}
	return p.mergeRaw(docs)
}

func (p *Pdfcpu) mergeRaw(docs [][]byte) ([]byte, error) {
	readers := make([]io.ReadSeeker, len(docs))
	for i, data := range docs {
		readers[i] = bytes.NewReader(data)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, p.configuration()); err != nil {
		return nil, fmt.Errorf("failed to merge documents: %w", err)
	}
	return out.Bytes(), nil
}

// PageCount returns the number of pages in data.
func (p *Pdfcpu) PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), p.configuration())
}

// SplitPages splits a document into standalone one-page documents.
func (p *Pdfcpu) SplitPages(data []byte) ([][]byte, error) {
	doc, err := p.Parse(data)
	if err != nil {
		return nil, err
	}
	pages := make([][]byte, 0, doc.PageCount())
	for i := 0; i < doc.PageCount(); i++ {
		page, err := p.ExtractPage(doc, i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

var _ Library = (*Pdfcpu)(nil)
