package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/image/bmp"
)

// Image is one input of an images-to-PDF conversion.
type Image struct {
	Name string
	Data []byte
	// Type is the detected format ("png", "jpeg", "tiff", "webp", "bmp", "gif").
	Type string
}

// ImageOptions controls page layout for ImagesToPDF. Zero values keep
// pdfcpu's defaults.
type ImageOptions struct {
	// PageSize is a paper size name like "A4", "Letter" or "A4L".
	PageSize string
	// Position is an anchor: tl, tc, tr, l, c, r, bl, bc, br or full.
	Position string
	// Scale is the relative scale factor in (0, 1].
	Scale float64
}

func (o ImageOptions) description() string {
	var parts []string
	if o.PageSize != "" {
		parts = append(parts, "formsize:"+o.PageSize)
	}
	if o.Position != "" {
		parts = append(parts, "position:"+o.Position)
	}
	if o.Scale > 0 {
		parts = append(parts, fmt.Sprintf("scalefactor:%.2f rel", o.Scale))
	}
	return strings.Join(parts, ", ")
}

// supportedImageTypes are the formats pdfcpu imports directly.
var supportedImageTypes = map[string]bool{
	"png":  true,
	"jpeg": true,
	"tiff": true,
	"webp": true,
}

// ImagesToPDF places every image on its own page, in order.
func (p *Pdfcpu) ImagesToPDF(images []Image, opts ImageOptions) ([]byte, error) {
	if len(images) == 0 {
		return nil, ErrNoInput
	}

	readers := make([]io.Reader, 0, len(images))
	for i, img := range images {
		data, err := normalizeImage(img)
		if err != nil {
			return nil, fmt.Errorf("image %d (%s): %w", i+1, img.Name, err)
		}
		readers = append(readers, bytes.NewReader(data))
	}

	var imp *pdfcpu.Import
	if desc := opts.description(); desc != "" {
		var err error
		imp, err = pdfcpu.ParseImportDetails(desc, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("invalid page layout %q: %w", desc, err)
		}
	}

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, p.configuration()); err != nil {
		return nil, fmt.Errorf("failed to import images: %w", err)
	}
	return out.Bytes(), nil
}

// transcoders decode formats pdfcpu cannot import so they can be re-encoded
// as PNG. Only the first frame of an animated GIF is kept.
var transcoders = map[string]func(io.Reader) (image.Image, error){
	"bmp": bmp.Decode,
	"gif": gif.Decode,
}

// normalizeImage returns bytes pdfcpu can import, transcoding BMP and GIF
// to PNG.
func normalizeImage(img Image) ([]byte, error) {
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if supportedImageTypes[img.Type] {
		return img.Data, nil
	}
	decode, ok := transcoders[img.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %q", img.Type)
	}
	decoded, err := decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", img.Type, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
