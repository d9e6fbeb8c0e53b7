package pdf

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"sort"
	"strconv"
	"strings"

	// Embedded objects come in more encodings than the stdlib registers.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"
)

// minEmbeddedBytes is the sanity floor for a recovered raster object; anything
// smaller is treated as corrupt and skipped.
const minEmbeddedBytes = 10

// EmbeddedImage is one raster object recovered from a page's resources.
type EmbeddedImage struct {
	Data         []byte
	Width        int
	Height       int
	Format       string // decoded encoding tag, e.g. "PNG", "JPEG"
	ObjectNumber int
}

// ExtractEmbedded recovers the raster objects embedded on a zero-based page.
// Corrupt or undecodable objects are logged and skipped; the page is never
// aborted for a single bad object. Results are ordered by object number,
// which follows the page's resource list.
func ExtractEmbedded(data []byte, page int, log zerolog.Logger) ([]EmbeddedImage, error) {
	pageSel := []string{strconv.Itoa(page + 1)}

	raw, err := api.ExtractImagesRaw(bytes.NewReader(data), pageSel, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdf: extract embedded images: %w", err)
	}

	var images []EmbeddedImage
	for _, pageImages := range raw {
		for objNr, img := range pageImages {
			rec, err := decodeEmbedded(objNr, img)
			if err != nil {
				log.Warn().Err(err).Int("object", objNr).Msg("skipping embedded raster object")
				continue
			}
			images = append(images, rec)
		}
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].ObjectNumber < images[j].ObjectNumber
	})

	return images, nil
}

func decodeEmbedded(objNr int, img model.Image) (EmbeddedImage, error) {
	data, err := io.ReadAll(img)
	if err != nil {
		return EmbeddedImage{}, fmt.Errorf("read object %d: %w", objNr, err)
	}
	if len(data) < minEmbeddedBytes {
		return EmbeddedImage{}, fmt.Errorf("object %d: %d bytes, below sanity floor", objNr, len(data))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return EmbeddedImage{}, fmt.Errorf("object %d: undecodable %s data: %w", objNr, img.FileType, err)
	}

	return EmbeddedImage{
		Data:         data,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Format:       strings.ToUpper(format),
		ObjectNumber: objNr,
	}, nil
}
