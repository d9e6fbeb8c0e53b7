// Package extract orchestrates the line-sheet extraction pipeline: embedded
// image recovery, page rasterization and region detection, garment
// classification, color detection, deduplication and aggregation.
package extract

import (
	"math"

	"linesheet-extractor/pkg/colorutil"
)

// Source identifies how an image record was produced.
type Source string

const (
	SourceEmbedded   Source = "embedded"
	SourceRasterized Source = "rasterized"
)

// ImageRecord is one detected visual asset. The record owns Data until it is
// handed to a persistence collaborator.
type ImageRecord struct {
	ID            string         `json:"id"`
	Source        Source         `json:"source"`
	Data          []byte         `json:"-"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	Format        string         `json:"format"`
	IsGarment     bool           `json:"is_garment"`
	AspectRatio   float64        `json:"aspect_ratio"`
	DominantColor *colorutil.RGB `json:"dominant_rgb,omitempty"`
	OCRColorNames []string       `json:"ocr_colours"`
	ContentHash   string         `json:"-"`
}

// PageColorRecord lists the color names found in one page's plain text, in
// first-occurrence order.
type PageColorRecord struct {
	PageNumber int      `json:"page"`
	TextColors []string `json:"text_colours"`
}

// ColorSource tags where an aggregated color came from.
type ColorSource string

const (
	ColorFromText     ColorSource = "text"
	ColorFromImage    ColorSource = "image"
	ColorFromImageOCR ColorSource = "image_ocr"
)

// Confidence weights per provenance.
const (
	confidenceText            = 0.9
	confidenceGarmentDominant = 0.9
	confidenceOtherDominant   = 0.8
	confidenceImageOCR        = 0.7
)

// AggregatedColor is one entry of the flattened color list.
type AggregatedColor struct {
	Name       string         `json:"name"`
	RGB        *colorutil.RGB `json:"rgb,omitempty"`
	Source     ColorSource    `json:"source"`
	Confidence float64        `json:"confidence"`
}

// ExtractionResult is the structured output of one extraction call.
type ExtractionResult struct {
	Pages         []PageColorRecord `json:"pages"`
	GarmentImages []ImageRecord     `json:"garment_images"`
	OtherImages   []ImageRecord     `json:"other_images"`
	Colors        []AggregatedColor `json:"colors"`
}

// Empty reports whether the result carries no pages and no images.
func (r *ExtractionResult) Empty() bool {
	return len(r.Pages) == 0 && len(r.GarmentImages) == 0 && len(r.OtherImages) == 0
}

// aspectRatio returns width/height rounded to two decimals, 0 when height is
// zero.
func aspectRatio(width, height int) float64 {
	if height == 0 {
		return 0
	}
	return math.Round(float64(width)/float64(height)*100) / 100
}
