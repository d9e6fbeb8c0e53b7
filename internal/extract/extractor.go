package extract

import (
	"fmt"
	"strings"

	"linesheet-extractor/internal/colorest"
	"linesheet-extractor/internal/colorlex"
	"linesheet-extractor/internal/garment"
	"linesheet-extractor/internal/ocr"
	"linesheet-extractor/internal/pdf"
	"linesheet-extractor/internal/region"
	"linesheet-extractor/pkg/colorutil"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// firstPage is the only page processed. Multi-page documents are opened but
// not walked; this mirrors the current product contract.
const firstPage = 0

// maxRegionSpan rejects contours covering almost the whole raster, which are
// page borders rather than content.
const maxRegionSpan = 0.9

// Extractor runs the extraction pipeline. The lexicon and classifier are
// process-wide and read-only; everything else is scoped to one call.
type Extractor struct {
	lex        *colorlex.Lexicon
	classifier *garment.Classifier
	colors     *ocr.ColorReader
	log        zerolog.Logger
}

// New wires an Extractor from its collaborators.
func New(lex *colorlex.Lexicon, classifier *garment.Classifier, colors *ocr.ColorReader, log zerolog.Logger) *Extractor {
	return &Extractor{lex: lex, classifier: classifier, colors: colors, log: log}
}

// Extract runs the full pipeline over raw PDF bytes. Inputs too short to be
// a PDF and documents with zero pages yield an empty result and no error.
// Unparsable documents and unexpected top-level failures return an error.
// Failures inside a single stage degrade that stage's contribution to empty
// and never abort the call.
func (e *Extractor) Extract(pdfBytes []byte) (result *ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("extract: unexpected failure: %v", r)
		}
	}()

	if err := pdf.CheckInput(pdfBytes); err != nil {
		e.log.Warn().Err(err).Msg("rejecting input before parsing")
		return &ExtractionResult{}, nil
	}

	doc, err := pdf.OpenBytes(pdfBytes)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		e.log.Warn().Msg("document has no pages")
		return &ExtractionResult{}, nil
	}
	e.log.Debug().Int("pages", doc.PageCount()).Int("bytes", len(pdfBytes)).Msg("document opened")

	dedup := NewDeduplicator()

	page := e.extractPageText(doc)
	garments, others := e.extractEmbedded(pdfBytes, dedup)
	garments = append(garments, e.rasterizeAndDetect(doc, dedup)...)

	result = &ExtractionResult{
		Pages:         []PageColorRecord{page},
		GarmentImages: garments,
		OtherImages:   others,
	}
	result.Colors = aggregateColors(result)

	e.log.Info().
		Int("garment_images", len(result.GarmentImages)).
		Int("other_images", len(result.OtherImages)).
		Int("text_colors", len(page.TextColors)).
		Msg("extraction complete")

	return result, nil
}

// containStage converts a panic inside one pipeline stage into a logged,
// empty contribution.
func (e *Extractor) containStage(stage string) {
	if r := recover(); r != nil {
		e.log.Error().Str("stage", stage).Interface("panic", r).Msg("stage failed unexpectedly")
	}
}

// extractPageText matches the color vocabulary against the first page's
// plain text. Failures leave the record's color list empty.
func (e *Extractor) extractPageText(doc *pdf.Document) (rec PageColorRecord) {
	rec = PageColorRecord{PageNumber: firstPage + 1}
	defer e.containStage("page text")

	text, err := doc.PageText(firstPage)
	if err != nil {
		e.log.Warn().Err(err).Msg("page text extraction failed")
		return rec
	}

	rec.TextColors = e.lex.Match(text)
	return rec
}

// extractEmbedded walks the first page's embedded raster objects, dedups
// them and builds classified records.
func (e *Extractor) extractEmbedded(pdfBytes []byte, dedup *Deduplicator) (garments, others []ImageRecord) {
	defer e.containStage("embedded images")

	embedded, err := pdf.ExtractEmbedded(pdfBytes, firstPage, e.log)
	if err != nil {
		e.log.Warn().Err(err).Msg("embedded image extraction failed")
		return garments, others
	}
	e.log.Debug().Int("count", len(embedded)).Msg("embedded raster objects recovered")

	for _, emb := range embedded {
		hash := ContentHash(emb.Data)
		if dedup.Contains(hash) {
			e.log.Debug().Str("hash", hash).Msg("skipping duplicate embedded image")
			continue
		}

		isGarment := e.classifier.DimensionGate(emb.Width, emb.Height, garment.MinEmbeddedSize)
		rec := e.buildRecord(SourceEmbedded, emb.Data, emb.Width, emb.Height, emb.Format, isGarment, hash)

		if rec.IsGarment {
			garments = append(garments, rec)
		} else {
			others = append(others, rec)
		}
		dedup.Mark(hash)
	}

	return garments, others
}

// rasterizeAndDetect renders the first page once, finds contours and builds
// records for regions that pass both classifier gates.
func (e *Extractor) rasterizeAndDetect(doc *pdf.Document, dedup *Deduplicator) (garments []ImageRecord) {
	defer e.containStage("rasterized regions")

	img, err := doc.Rasterize(firstPage)
	if err != nil {
		e.log.Warn().Err(err).Msg("page rasterization failed")
		return garments
	}

	mat := region.ImageToMat(img)
	defer mat.Close()

	det := region.Detect(mat)
	defer det.Close()

	rasterW, rasterH := mat.Cols(), mat.Rows()
	maxW := int(float64(rasterW) * maxRegionSpan)
	maxH := int(float64(rasterH) * maxRegionSpan)
	e.log.Debug().Int("contours", det.Contours.Size()).
		Int("width", rasterW).Int("height", rasterH).Msg("page rasterized")

	for i := 0; i < det.Contours.Size(); i++ {
		contour := det.Contours.At(i)
		rect := gocv.BoundingRect(contour)
		w, h := rect.Dx(), rect.Dy()

		if w < garment.MinRegionSize || h < garment.MinRegionSize || w > maxW || h > maxH {
			continue
		}
		if !e.classifier.DimensionGate(w, h, garment.MinRegionSize) {
			continue
		}
		if !e.classifier.ShapeGate(contour) {
			continue
		}

		crop, err := region.CropPNG(mat, rect)
		if err != nil {
			e.log.Warn().Err(err).Int("contour", i).Msg("crop failed")
			continue
		}

		hash := ContentHash(crop)
		if dedup.Contains(hash) {
			continue
		}

		e.log.Debug().Int("x", rect.Min.X).Int("y", rect.Min.Y).
			Int("width", w).Int("height", h).Msg("garment-like region found")

		garments = append(garments, e.buildRecord(SourceRasterized, crop, w, h, "PNG", true, hash))
		dedup.Mark(hash)
	}

	return garments
}

// buildRecord assembles an ImageRecord and runs best-effort color detection.
func (e *Extractor) buildRecord(src Source, data []byte, width, height int, format string, isGarment bool, hash string) ImageRecord {
	rec := ImageRecord{
		ID:          "img_" + hash[:8],
		Source:      src,
		Data:        data,
		Width:       width,
		Height:      height,
		Format:      strings.ToUpper(format),
		IsGarment:   isGarment,
		AspectRatio: aspectRatio(width, height),
		ContentHash: hash,
	}

	if rgb, err := colorest.Dominant(data); err != nil {
		e.log.Debug().Err(err).Str("id", rec.ID).Msg("dominant color unavailable")
	} else {
		rec.DominantColor = &rgb
	}

	rec.OCRColorNames = e.colors.DetectColorNames(data)
	return rec
}

// aggregateColors flattens image and text colors into one provenance-tagged
// list. Entries are deduplicated by normalized name plus RGB value.
func aggregateColors(result *ExtractionResult) []AggregatedColor {
	var all []AggregatedColor

	appendImage := func(rec ImageRecord, dominantConfidence float64) {
		if rec.DominantColor != nil {
			rgb := *rec.DominantColor
			all = append(all, AggregatedColor{
				Name:       colorutil.Nearest(rgb),
				RGB:        &rgb,
				Source:     ColorFromImage,
				Confidence: dominantConfidence,
			})
		}
		for _, name := range rec.OCRColorNames {
			all = append(all, AggregatedColor{
				Name:       name,
				Source:     ColorFromImageOCR,
				Confidence: confidenceImageOCR,
			})
		}
	}

	for _, rec := range result.GarmentImages {
		appendImage(rec, confidenceGarmentDominant)
	}
	for _, rec := range result.OtherImages {
		appendImage(rec, confidenceOtherDominant)
	}
	for _, page := range result.Pages {
		for _, name := range page.TextColors {
			all = append(all, AggregatedColor{
				Name:       name,
				Source:     ColorFromText,
				Confidence: confidenceText,
			})
		}
	}

	var unique []AggregatedColor
	seen := make(map[string]bool)
	for _, c := range all {
		key := strings.ToLower(c.Name)
		if c.RGB != nil {
			key = fmt.Sprintf("%s_%d_%d_%d", key, c.RGB.R, c.RGB.G, c.RGB.B)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}

	return unique
}
