package extract

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"linesheet-extractor/internal/colorlex"
	"linesheet-extractor/internal/garment"
	"linesheet-extractor/internal/ocr"
	"linesheet-extractor/pkg/colorutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()

	classifier := garment.NewClassifier()
	t.Cleanup(classifier.Close)

	// No OCR engine in tests; color detection runs in fallback mode.
	reader := ocr.NewColorReader(nil, colorlex.Default, zerolog.Nop())
	return New(colorlex.Default, classifier, reader, zerolog.Nop())
}

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		w, h int
		want float64
	}{
		{200, 100, 2.0},
		{100, 200, 0.5},
		{150, 150, 1.0},
		{199, 300, 0.66},
		{100, 3, 33.33},
		{150, 0, 0},
	}

	for _, tt := range tests {
		if got := aspectRatio(tt.w, tt.h); got != tt.want {
			t.Errorf("aspectRatio(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestExtractShortInput(t *testing.T) {
	e := newTestExtractor(t)

	for _, input := range [][]byte{nil, []byte("%PDF-1.4"), make([]byte, 99)} {
		result, err := e.Extract(input)
		require.NoError(t, err, "short input must soft-fail")
		require.NotNil(t, result)
		assert.True(t, result.Empty(), "short input must yield an empty result")
	}
}

func TestExtractGarbageInput(t *testing.T) {
	e := newTestExtractor(t)

	garbage := bytes.Repeat([]byte("this is not a portable document "), 8)
	_, err := e.Extract(garbage)
	require.Error(t, err, "unparsable documents surface an error")
}

func TestExtractMinimalDocument(t *testing.T) {
	e := newTestExtractor(t)

	result, err := e.Extract(minimalPDF("Navy and Crimson jersey"))
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)

	page := result.Pages[0]
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, []string{"Navy", "Crimson"}, page.TextColors)

	// No two records may share a content hash.
	seen := make(map[string]bool)
	for _, rec := range append(result.GarmentImages, result.OtherImages...) {
		assert.False(t, seen[rec.ContentHash], "duplicate content hash in output")
		seen[rec.ContentHash] = true
		assert.Equal(t, aspectRatio(rec.Width, rec.Height), rec.AspectRatio)
	}
}

func TestExtractZeroPageDocument(t *testing.T) {
	e := newTestExtractor(t)

	result, err := e.Extract(zeroPagePDF())
	require.NoError(t, err, "a parsable document with no pages must soft-fail")
	require.NotNil(t, result)
	assert.True(t, result.Empty())
}

func TestExtractDeduplicatesIdenticalImages(t *testing.T) {
	e := newTestExtractor(t)

	// Two byte-identical image objects on the same page must collapse to a
	// single record.
	swatch := jpegSwatch(t)
	result, err := e.Extract(minimalPDF("Spring drop", swatch, swatch))
	require.NoError(t, err)

	hash := ContentHash(swatch)
	matches := 0
	for _, rec := range append(result.GarmentImages, result.OtherImages...) {
		if rec.ContentHash == hash {
			matches++
		}
	}
	assert.Equal(t, 1, matches, "identical embedded copies must yield one record")

	// 12x12 sits below the embedded dimension floor, so the surviving record
	// is classified as a non-garment image.
	require.Len(t, result.OtherImages, 1)
	assert.False(t, result.OtherImages[0].IsGarment)
	assert.Equal(t, SourceEmbedded, result.OtherImages[0].Source)
}

func TestAggregateColors(t *testing.T) {
	red := colorutil.RGB{R: 200, G: 10, B: 10}
	navy := colorutil.RGB{R: 5, G: 5, B: 120}

	result := &ExtractionResult{
		Pages: []PageColorRecord{
			{PageNumber: 1, TextColors: []string{"Teal", "Red"}},
		},
		GarmentImages: []ImageRecord{
			{DominantColor: &red, OCRColorNames: []string{"Red", "White"}},
		},
		OtherImages: []ImageRecord{
			{DominantColor: &navy},
			{DominantColor: &red}, // same dominant as the garment image
		},
	}

	colors := aggregateColors(result)

	byKey := make(map[string]AggregatedColor)
	for _, c := range colors {
		key := string(c.Source) + "/" + c.Name
		if c.RGB != nil {
			key = fmt.Sprintf("%s/%v", key, *c.RGB)
		}
		require.NotContains(t, byKey, key, "aggregate must not repeat entries")
		byKey[key] = c
	}

	// Garment dominant: named Red with RGB, confidence 0.9.
	garmentDominant := byKey[fmt.Sprintf("image/Red/%v", red)]
	assert.Equal(t, 0.9, garmentDominant.Confidence)

	// Other-image dominant: confidence 0.8.
	otherDominant := byKey[fmt.Sprintf("image/Navy/%v", navy)]
	assert.Equal(t, 0.8, otherDominant.Confidence)

	// OCR colors carry 0.7. The OCR "Red" entry survives alongside the
	// dominant "Red" because the dominant entry carries an RGB key.
	assert.Equal(t, 0.7, byKey["image_ocr/White"].Confidence)
	assert.Equal(t, 0.7, byKey["image_ocr/Red"].Confidence)

	// Text colors carry 0.9; "Red" from text dedups against OCR "Red"
	// (same name, no RGB), keeping the first occurrence.
	assert.Equal(t, 0.9, byKey["text/Teal"].Confidence)
	_, textRed := byKey["text/Red"]
	assert.False(t, textRed, "text Red should collapse into the earlier OCR Red entry")

	// Duplicate dominant from the second other-image collapsed.
	count := 0
	for _, c := range colors {
		if c.RGB != nil && *c.RGB == red {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// minimalPDF builds a one-page PDF containing text, with a correct xref
// table, so document parsing does not depend on repair heuristics. Each
// images entry becomes a JPEG XObject in the page's resource dictionary.
func minimalPDF(text string, images ...[]byte) []byte {
	var buf bytes.Buffer

	objCount := 6 + len(images)
	offsets := make([]int, objCount)

	write := func(objNum int, body []byte) {
		offsets[objNum] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", objNum)
		buf.Write(body)
		buf.WriteString("\nendobj\n")
	}

	buf.WriteString("%PDF-1.4\n")

	xobjects := ""
	if len(images) > 0 {
		refs := make([]string, len(images))
		for i := range images {
			refs[i] = fmt.Sprintf("/Im%d %d 0 R", i+1, 6+i)
		}
		xobjects = " /XObject << " + strings.Join(refs, " ") + " >>"
	}

	write(1, []byte("<< /Type /Catalog /Pages 2 0 R >>"))
	write(2, []byte("<< /Type /Pages /Kids [3 0 R] /Count 1 >>"))
	write(3, []byte("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << /Font << /F1 4 0 R >>"+xobjects+" >> /Contents 5 0 R >>"))
	write(4, []byte("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"))

	stream := fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET", text)
	write(5, []byte(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)))

	for i, img := range images {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
		if err != nil {
			cfg = image.Config{Width: 1, Height: 1}
		}

		var body bytes.Buffer
		fmt.Fprintf(&body, "<< /Type /XObject /Subtype /Image /Width %d /Height %d "+
			"/ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode /Length %d >>\nstream\n",
			cfg.Width, cfg.Height, len(img))
		body.Write(img)
		body.WriteString("\nendstream")
		write(6+i, body.Bytes())
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", objCount)
	for i := 1; i < objCount; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", objCount, xrefOffset)

	return buf.Bytes()
}

// zeroPagePDF builds a structurally valid document whose page tree is empty.
func zeroPagePDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 3)

	write := func(objNum int, body string) {
		offsets[objNum] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", objNum, body)
	}

	buf.WriteString("%PDF-1.4\n")
	write(1, "<< /Type /Catalog /Pages 2 0 R >>")
	write(2, "<< /Type /Pages /Kids [] /Count 0 >>")

	xrefOffset := buf.Len()
	buf.WriteString("xref\n0 3\n0000000000 65535 f \n")
	for i := 1; i <= 2; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 3 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes()
}

// jpegSwatch encodes a small uniform JPEG, suitable for embedding as an
// image XObject.
func jpegSwatch(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 180, G: 20, B: 20, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}
