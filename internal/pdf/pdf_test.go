package pdf

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Epistemic-Technology/pdfworks/internal/pdf/pdftest"
)

func TestParse(t *testing.T) {
	lib := New()
	doc, err := lib.Parse(pdftest.Document(t, 100, 120, 140))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount())
}

func TestParse_InvalidInput(t *testing.T) {
	lib := New()
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"nil", nil},
		{"not a pdf", []byte("This is not a PDF")},
		{"truncated", pdftest.Document(t, 100)[:64]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.Parse(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestSplitPages(t *testing.T) {
	lib := New()
	data := pdftest.Document(t, 100, 120, 140)
	want := pdftest.PageWidths(t, data)

	pages, err := lib.SplitPages(data)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	for i, page := range pages {
		count, err := lib.PageCount(page)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "page %d", i+1)
		assert.Equal(t, want[i:i+1], pdftest.PageWidths(t, page))
	}
}

func TestExtractPage_OutOfRange(t *testing.T) {
	lib := New()
	doc, err := lib.Parse(pdftest.Document(t, 100, 120))
	require.NoError(t, err)

	for _, idx := range []int{-1, 2, 10} {
		_, err := lib.ExtractPage(doc, idx)
		assert.ErrorIs(t, err, ErrPageRange)
	}
}

func TestAssemble(t *testing.T) {
	lib := New()
	data := pdftest.Document(t, 100, 120, 140)
	widths := pdftest.PageWidths(t, data)
	pages, err := lib.SplitPages(data)
	require.NoError(t, err)

	out, err := lib.Assemble([][]byte{pages[2], pages[0], pages[0]})
	require.NoError(t, err)
	assert.Equal(t, []int{widths[2], widths[0], widths[0]}, pdftest.PageWidths(t, out))

	single, err := lib.Assemble([][]byte{pages[1]})
	require.NoError(t, err)
	assert.Equal(t, []int{widths[1]}, pdftest.PageWidths(t, single))

	_, err = lib.Assemble(nil)
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = lib.Assemble([][]byte{[]byte("garbage")})
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	lib := New()
	a := pdftest.Document(t, 100, 120)
	b := pdftest.Document(t, 200)

	out, err := lib.Merge([][]byte{a, b})
	require.NoError(t, err)
	want := append(pdftest.PageWidths(t, a), pdftest.PageWidths(t, b)...)
	assert.Equal(t, want, pdftest.PageWidths(t, out))

	_, err = lib.Merge(nil)
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = lib.Merge([][]byte{a, []byte("nope")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 2")
}

func TestImagesToPDF(t *testing.T) {
	lib := New()

	bmpImg := image.NewRGBA(image.Rect(0, 0, 30, 20))
	var bmpBuf bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpBuf, bmpImg))

	images := []Image{
		{Name: "a.png", Data: pdftest.PNG(t, 60, 40), Type: "png"},
		{Name: "b.bmp", Data: bmpBuf.Bytes(), Type: "bmp"},
		{Name: "c.png", Data: pdftest.PNG(t, 90, 40), Type: "png"},
	}
	out, err := lib.ImagesToPDF(images, ImageOptions{})
	require.NoError(t, err)

	count, err := lib.PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestImagesToPDF_PageSize(t *testing.T) {
	lib := New()
	images := []Image{
		{Name: "a.png", Data: pdftest.PNG(t, 60, 40), Type: "png"},
		{Name: "b.png", Data: pdftest.PNG(t, 90, 40), Type: "png"},
	}
	out, err := lib.ImagesToPDF(images, ImageOptions{PageSize: "A4", Position: "c", Scale: 0.8})
	require.NoError(t, err)

	widths := pdftest.PageWidths(t, out)
	require.Len(t, widths, 2)
	assert.Equal(t, widths[0], widths[1])
}

func TestImagesToPDF_Rejects(t *testing.T) {
	lib := New()

	_, err := lib.ImagesToPDF(nil, ImageOptions{})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = lib.ImagesToPDF([]Image{
		{Name: "ok.png", Data: pdftest.PNG(t, 10, 10), Type: "png"},
		{Name: "doc.txt", Data: []byte("hello"), Type: "txt"},
	}, ImageOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image 2 (doc.txt)")
}
