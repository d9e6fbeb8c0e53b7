// Package garment classifies visual regions as garment-like using dimension
// heuristics and template shape matching.
package garment

import (
	"image"

	"gocv.io/x/gocv"
)

const (
	// MinEmbeddedSize is the dimension floor for embedded raster objects.
	MinEmbeddedSize = 200

	// MinRegionSize is the dimension floor for rasterized page regions.
	// The two floors differ on purpose: embedded objects carry native
	// resolution while page crops are magnified.
	MinRegionSize = 100

	// Garments photograph within this width/height ratio band; anything
	// outside is a banner, a swatch strip or noise.
	minAspect = 0.5
	maxAspect = 2.0

	// minContourArea rejects contours too small for moment matching to be
	// meaningful.
	minContourArea = 500

	// ShapeMatchThreshold is the maximum template distance accepted as
	// garment-like. Lower distance means more similar.
	ShapeMatchThreshold = 0.15
)

// templatePoints is an idealized garment outline: neck and shoulders across
// the top, sleeves down both sides, hem along the bottom.
var templatePoints = []image.Point{
	{X: 100, Y: 0}, {X: 150, Y: 50}, {X: 250, Y: 50}, {X: 300, Y: 0},
	{X: 350, Y: 50}, {X: 350, Y: 200}, {X: 250, Y: 250}, {X: 150, Y: 250},
	{X: 50, Y: 200}, {X: 50, Y: 50}, {X: 100, Y: 50},
}

// Classifier holds the garment contour template. Built once at startup and
// read-only afterwards; safe for concurrent use.
type Classifier struct {
	template gocv.PointVector
}

// NewClassifier builds the classifier with the fixed garment template.
func NewClassifier() *Classifier {
	return &Classifier{template: gocv.NewPointVectorFromPoints(templatePoints)}
}

// Close releases the template contour.
func (c *Classifier) Close() {
	c.template.Close()
}

// TemplatePoints returns a copy of the idealized garment outline.
func TemplatePoints() []image.Point {
	pts := make([]image.Point, len(templatePoints))
	copy(pts, templatePoints)
	return pts
}

// DimensionGate reports whether a bounding box looks garment-sized: both
// dimensions at or above minSize and aspect ratio within the garment band.
func (c *Classifier) DimensionGate(width, height, minSize int) bool {
	if height == 0 {
		return false
	}

	ratio := float64(width) / float64(height)
	return ratio >= minAspect && ratio <= maxAspect && width >= minSize && height >= minSize
}

// TemplateDistance returns the moment-invariant shape distance between a
// contour and the garment template. Lower is more similar.
func (c *Classifier) TemplateDistance(contour gocv.PointVector) float64 {
	return gocv.MatchShapes(c.template, contour, gocv.ContoursMatchI1, 0)
}

// ShapeGate reports whether a contour's shape resembles the garment template.
// Contours below minContourArea are rejected outright.
func (c *Classifier) ShapeGate(contour gocv.PointVector) bool {
	if gocv.ContourArea(contour) < minContourArea {
		return false
	}
	return c.TemplateDistance(contour) < ShapeMatchThreshold
}
