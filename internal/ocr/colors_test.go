package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"testing"

	"linesheet-extractor/internal/colorlex"

	"github.com/rs/zerolog"
)

func TestFilterWords(t *testing.T) {
	words := []Word{
		{Text: "NAVY", Confidence: 92},
		{Text: "smudge", Confidence: 12},   // below confidence floor
		{Text: "XL", Confidence: 95},       // below length floor
		{Text: " teal ", Confidence: 60},   // at the floor, kept and trimmed
		{Text: "ab", Confidence: 99},       // trims to below length floor
		{Text: "crimson", Confidence: 88},  // lowercased input is uppercased
	}

	got := filterWords(words)
	want := []string{"NAVY", "TEAL", "CRIMSON"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterWords = %v, want %v", got, want)
	}
}

func TestFilterWordsEmpty(t *testing.T) {
	if got := filterWords(nil); got != nil {
		t.Errorf("filterWords(nil) = %v, want nil", got)
	}
}

// solidPNG encodes a uniform w x h image.
func solidPNG(t *testing.T, c color.RGBA, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDetectColorNamesFallback(t *testing.T) {
	// No engine: the reader must map the dominant color to the nearest
	// named color instead of failing.
	reader := NewColorReader(nil, colorlex.Default, zerolog.Nop())

	red := solidPNG(t, color.RGBA{R: 200, G: 10, B: 10, A: 255}, 32, 32)
	got := reader.DetectColorNames(red)
	if !reflect.DeepEqual(got, []string{"Red"}) {
		t.Errorf("DetectColorNames(red swatch) = %v, want [Red]", got)
	}

	navy := solidPNG(t, color.RGBA{R: 5, G: 5, B: 120, A: 255}, 32, 32)
	got = reader.DetectColorNames(navy)
	if !reflect.DeepEqual(got, []string{"Navy"}) {
		t.Errorf("DetectColorNames(navy swatch) = %v, want [Navy]", got)
	}
}

func TestDetectColorNamesUndecodable(t *testing.T) {
	reader := NewColorReader(nil, colorlex.Default, zerolog.Nop())
	if got := reader.DetectColorNames([]byte("not an image")); got != nil {
		t.Errorf("DetectColorNames(garbage) = %v, want nil", got)
	}
}
