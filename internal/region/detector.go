// Package region finds closed visual regions in a rasterized page via
// adaptive thresholding and hierarchical contour extraction.
package region

import (
	"image"

	"gocv.io/x/gocv"
)

// Fixed thresholding parameters. Tuned against supplier line-sheets; the
// Gaussian block size and constant follow the usual document-segmentation
// settings.
const (
	blurKernel     = 5
	adaptiveBlock  = 11
	adaptiveOffset = 2
)

// Detection holds the contours found in a raster plus their nesting
// hierarchy, in the order the extraction algorithm reports them.
type Detection struct {
	Contours  gocv.PointsVector
	Hierarchy gocv.Mat
}

// Close releases the native memory backing the detection.
func (d *Detection) Close() {
	d.Contours.Close()
	d.Hierarchy.Close()
}

// Detect runs the contour pipeline on a BGR raster: grayscale, Gaussian blur,
// inverted adaptive threshold, full-tree contour extraction with simplified
// chain approximation.
func Detect(img gocv.Mat) Detection {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(blurred, &thresh, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, adaptiveBlock, adaptiveOffset)

	hierarchy := gocv.NewMat()
	contours := gocv.FindContoursWithParams(thresh, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxSimple)

	return Detection{Contours: contours, Hierarchy: hierarchy}
}

// ImageToMat converts a decoded Go image to a BGR Mat. The caller owns the
// returned Mat.
func ImageToMat(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat
}

// CropPNG encodes the given rectangle of a raster as PNG bytes.
func CropPNG(img gocv.Mat, rect image.Rectangle) ([]byte, error) {
	roi := img.Region(rect)
	defer roi.Close()

	// Region shares storage with img; clone so the encoder sees a
	// contiguous buffer.
	crop := roi.Clone()
	defer crop.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, crop)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
