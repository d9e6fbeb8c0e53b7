// Package colorutil provides shared color utilities for the line-sheet extractor.
package colorutil

import (
	"gonum.org/v1/gonum/floats"
)

// RGB is a color triple in the 0-255 range.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// NamedColor pairs a human color name with its reference RGB value.
type NamedColor struct {
	Name  string
	Value RGB
}

// Named is the reference table used to map an arbitrary RGB value to the
// closest human-readable name. Order matters: ties are broken by the first
// entry in the table.
var Named = []NamedColor{
	{"Black", RGB{0, 0, 0}},
	{"White", RGB{255, 255, 255}},
	{"Red", RGB{255, 0, 0}},
	{"Blue", RGB{0, 0, 255}},
	{"Green", RGB{0, 255, 0}},
	{"Yellow", RGB{255, 255, 0}},
	{"Orange", RGB{255, 165, 0}},
	{"Purple", RGB{128, 0, 128}},
	{"Pink", RGB{255, 192, 203}},
	{"Brown", RGB{165, 42, 42}},
	{"Gray", RGB{128, 128, 128}},
	{"Dark Green", RGB{0, 128, 0}},
	{"Navy", RGB{0, 0, 128}},
	{"Maroon", RGB{128, 0, 0}},
	{"Olive", RGB{128, 128, 0}},
}

func (c RGB) vec() []float64 {
	return []float64{float64(c.R), float64(c.G), float64(c.B)}
}

// SquaredDistance returns the squared Euclidean distance between two colors.
func SquaredDistance(a, b RGB) float64 {
	d := floats.Distance(a.vec(), b.vec(), 2)
	return d * d
}

// Nearest returns the name of the table entry closest to c by squared
// Euclidean distance.
func Nearest(c RGB) string {
	best := Named[0].Name
	bestDist := SquaredDistance(c, Named[0].Value)

	for _, nc := range Named[1:] {
		if d := SquaredDistance(c, nc.Value); d < bestDist {
			bestDist = d
			best = nc.Name
		}
	}

	return best
}
