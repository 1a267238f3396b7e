package models

import "time"

// PageEntry is one page slot in an organizer session. Position is implied by
// the entry's index in the session's sequence.
type PageEntry struct {
	ID         string `json:"id" yaml:"id"`
	Source     string `json:"source" yaml:"source"`
	SourcePage int    `json:"source_page" yaml:"source_page"`
}

// SourceDocument is a loaded PDF whose pages entries draw from.
type SourceDocument struct {
	Ref       string `json:"ref" yaml:"ref"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	PageCount int    `json:"page_count" yaml:"page_count"`
	Data      []byte `json:"-" yaml:"-"`
}

// SourceSummary is a SourceDocument without its bytes.
type SourceSummary struct {
	Ref       string `json:"ref" yaml:"ref"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	PageCount int    `json:"page_count" yaml:"page_count"`
	InUse     int    `json:"in_use" yaml:"in_use"`
}

// SessionState is a consistent view of an organizer session.
type SessionState struct {
	SessionID string          `json:"session_id" yaml:"session_id"`
	Pages     []PageEntry     `json:"pages" yaml:"pages"`
	Selected  []string        `json:"selected" yaml:"selected"`
	Sources   []SourceSummary `json:"sources" yaml:"sources"`
}

// SourceInfo contains information about where document bytes come from.
// Exactly one field is expected to be set.
type SourceInfo struct {
	ZoteroID string `json:"zotero_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Path     string `json:"path,omitempty"`
	RawData  []byte `json:"raw_data,omitempty"`
	Name     string `json:"name,omitempty"`
}

// DocumentData is fetched document bytes with a detected type.
type DocumentData struct {
	Data []byte
	Type string
	Name string
}

// OutputKind names the utility that produced an output.
type OutputKind string

const (
	OutputOrganized OutputKind = "organized"
	OutputMerged    OutputKind = "merged"
	OutputImages    OutputKind = "images"
)

// Output is a produced PDF kept for retrieval.
type Output struct {
	ID        string     `json:"id"`
	Kind      OutputKind `json:"kind"`
	Filename  string     `json:"filename"`
	PageCount int        `json:"page_count"`
	Size      int        `json:"size"`
	CreatedAt time.Time  `json:"created_at"`
	Data      []byte     `json:"-"`
}

// OutputInfo describes an Output without its bytes.
type OutputInfo struct {
	ID        string     `json:"id"`
	Kind      OutputKind `json:"kind"`
	Filename  string     `json:"filename"`
	PageCount int        `json:"page_count"`
	Size      int        `json:"size"`
	CreatedAt time.Time  `json:"created_at"`
}

// OutputFilename derives the download name for an output from its kind and
// the date it was produced.
func OutputFilename(kind OutputKind, at time.Time) string {
	return string(kind) + "-" + at.Format("2006-01-02") + ".pdf"
}

// PreviewKey identifies a cached page preview. Previews depend only on the
// source page, so entries duplicated from one another share a preview.
type PreviewKey struct {
	Session string
	Source  string
	Page    int
}
