// Package pdftest builds small PDF fixtures at test time so tests never need
// binary files on disk. Every generated page has a distinct width, which lets
// tests identify pages after they have been copied around.
package pdftest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"
)

// PNG encodes a solid w x h image.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := color.RGBA{R: uint8(w % 256), G: uint8(h % 256), B: 128, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// Document builds a PDF with one page per width. Page heights are fixed.
func Document(t testing.TB, widths ...int) []byte {
	t.Helper()
	readers := make([]io.Reader, 0, len(widths))
	for _, w := range widths {
		readers = append(readers, bytes.NewReader(PNG(t, w, 40)))
	}
	var out bytes.Buffer
	require.NoError(t, api.ImportImages(nil, &out, readers, nil, model.NewDefaultConfiguration()))
	return out.Bytes()
}

// PageWidths returns the rounded width of every page in data, in order.
func PageWidths(t testing.TB, data []byte) []int {
	t.Helper()
	dims, err := api.PageDims(bytes.NewReader(data), model.NewDefaultConfiguration())
	require.NoError(t, err)
	widths := make([]int, len(dims))
	for i, d := range dims {
		widths[i] = int(math.Round(d.Width))
	}
	return widths
}
