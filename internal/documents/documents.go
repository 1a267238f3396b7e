package documents

import (
	"bytes"
)

// Document types reported by DetectDocumentType.
const (
	TypePDF     = "pdf"
	TypePNG     = "png"
	TypeJPEG    = "jpeg"
	TypeGIF     = "gif"
	TypeTIFF    = "tiff"
	TypeBMP     = "bmp"
	TypeWebP    = "webp"
	TypeUnknown = "unknown"
)

// DetectDocumentType determines the type of document from the raw data
// by checking magic bytes/headers
func DetectDocumentType(data []byte) string {
	if len(data) < 4 {
		return TypeUnknown
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return TypePDF
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return TypePNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return TypeJPEG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return TypeGIF
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return TypeTIFF
	case bytes.HasPrefix(data, []byte("BM")) && len(data) >= 14:
		return TypeBMP
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return TypeWebP
	}

	// Some producers prepend junk before the header; the PDF reference allows
	// the header anywhere in the first 1024 bytes.
	if bytes.Contains(data[:min(len(data), 1024)], []byte("%PDF-")) {
		return TypePDF
	}

	return TypeUnknown
}

// IsImage reports whether docType is an image format.
func IsImage(docType string) bool {
	switch docType {
	case TypePNG, TypeJPEG, TypeGIF, TypeTIFF, TypeBMP, TypeWebP:
		return true
	}
	return false
}
