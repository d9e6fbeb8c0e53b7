// Package colorest estimates the dominant color of an encoded image via
// k-means palette reduction.
package colorest

import (
	"errors"
	"fmt"

	"linesheet-extractor/pkg/colorutil"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

// ErrColorEstimation indicates the image bytes could not be decoded.
var ErrColorEstimation = errors.New("colorest: undecodable image")

const (
	// DefaultQuality is the pixel sampling stride. Lower is finer and slower.
	DefaultQuality = 3

	// clusterCount is the palette size the image is reduced to.
	clusterCount = 5

	kmeansAttempts = 3
)

// Dominant returns the most prevalent color of an encoded image using the
// default quality.
func Dominant(imgBytes []byte) (colorutil.RGB, error) {
	return DominantWithQuality(imgBytes, DefaultQuality)
}

// DominantWithQuality reduces the image palette to a small number of clusters
// and returns the center of the most populous one. quality is the sampling
// stride across both axes; values below 1 are treated as 1.
func DominantWithQuality(imgBytes []byte, quality int) (colorutil.RGB, error) {
	if quality < 1 {
		quality = 1
	}

	img, err := gocv.IMDecode(imgBytes, gocv.IMReadColor)
	if err != nil {
		return colorutil.RGB{}, fmt.Errorf("%w: %d bytes", ErrColorEstimation, len(imgBytes))
	}
	defer img.Close()

	if img.Empty() {
		return colorutil.RGB{}, fmt.Errorf("%w: decoded to empty image", ErrColorEstimation)
	}

	h, w := img.Rows(), img.Cols()

	// Subsample pixels into an Nx3 float matrix for clustering.
	sampled := 0
	for y := 0; y < h; y += quality {
		for x := 0; x < w; x += quality {
			sampled++
		}
	}

	pixels := gocv.NewMatWithSize(sampled, 3, gocv.MatTypeCV32F)
	defer pixels.Close()

	idx := 0
	for y := 0; y < h; y += quality {
		for x := 0; x < w; x += quality {
			vec := img.GetVecbAt(y, x) // BGR
			pixels.SetFloatAt(idx, 0, float32(vec[0]))
			pixels.SetFloatAt(idx, 1, float32(vec[1]))
			pixels.SetFloatAt(idx, 2, float32(vec[2]))
			idx++
		}
	}

	k := clusterCount
	if sampled < k {
		k = sampled
	}

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.EPS+gocv.MaxIter, 100, 0.2)
	gocv.KMeans(pixels, k, &labels, criteria, kmeansAttempts, gocv.KMeansRandomCenters, &centers)

	// Pick the most populous cluster.
	counts := make([]float64, k)
	for i := 0; i < sampled; i++ {
		counts[labels.GetIntAt(i, 0)]++
	}
	dominant := floats.MaxIdx(counts)

	b := clampChannel(centers.GetFloatAt(dominant, 0))
	g := clampChannel(centers.GetFloatAt(dominant, 1))
	r := clampChannel(centers.GetFloatAt(dominant, 2))

	return colorutil.RGB{R: r, G: g, B: b}, nil
}

func clampChannel(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
