package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"linesheet-extractor/internal/colorest"
	"linesheet-extractor/internal/extract"
	"linesheet-extractor/internal/version"

	"github.com/go-chi/chi/v5"
)

var pdfMagic = []byte("%PDF")

// imagePayload is the wire form of one extracted image, including its stored
// location and an inline data URL.
type imagePayload struct {
	ID          string   `json:"id"`
	Filename    string   `json:"filename"`
	Path        string   `json:"path"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Format      string   `json:"format"`
	SizeKB      float64  `json:"size_kb"`
	IsGarment   bool     `json:"is_garment"`
	AspectRatio float64  `json:"aspect_ratio"`
	DominantRGB []int    `json:"dominant_rgb,omitempty"`
	OCRColors   []string `json:"ocr_colours"`
	Source      string   `json:"source"`
	Base64      string   `json:"base64"`
}

// processedRow groups one page's images the way downstream consumers expect.
type processedRow struct {
	RowIndex      int            `json:"row_index"`
	GarmentImages []imagePayload `json:"garment_images"`
	OtherImages   []imagePayload `json:"other_images"`
	ImageCount    int            `json:"image_count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "linesheet-extractor",
		"version": version.Version,
	})
}

// handleExtractAssets accepts a line-sheet PDF upload and returns the full
// extraction payload: aggregated colors, text colors, stored images and the
// per-row grouping.
func (s *Server) handleExtractAssets(w http.ResponseWriter, r *http.Request) {
	pdfBytes, filename, ok := s.readUpload(w, r, "pdf")
	if !ok {
		return
	}
	if !bytes.HasPrefix(pdfBytes, pdfMagic) {
		writeError(w, http.StatusBadRequest, "File must be a PDF", "")
		return
	}

	result, err := s.extractor.Extract(pdfBytes)
	if err != nil {
		s.log.Error().Err(err).Str("filename", filename).Msg("extraction failed")
		writeError(w, http.StatusInternalServerError, "Failed to process PDF", err.Error())
		return
	}

	garments := s.persist(result.GarmentImages)
	others := s.persist(result.OtherImages)

	textColors := uniqueTextColors(result.Pages)
	all := append(append([]imagePayload{}, garments...), others...)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"metadata": map[string]any{
			"filename":     filename,
			"file_size_kb": float64(len(pdfBytes)) / 1024,
		},
		"colors":      result.Colors,
		"text_colors": textColors,
		"images":      all,
		"pages":       result.Pages,
		"processed_rows": []processedRow{{
			RowIndex:      0,
			GarmentImages: garments,
			OtherImages:   others,
			ImageCount:    len(all),
		}},
	})
}

// handleExtractPDF is the integration-facing variant: stored image paths
// only, grouped into products (garments) and swatches (everything else).
func (s *Server) handleExtractPDF(w http.ResponseWriter, r *http.Request) {
	pdfBytes, filename, ok := s.readUpload(w, r, "pdf")
	if !ok {
		return
	}
	if !bytes.HasPrefix(pdfBytes, pdfMagic) {
		writeError(w, http.StatusBadRequest, "File must be a PDF", "")
		return
	}

	result, err := s.extractor.Extract(pdfBytes)
	if err != nil {
		s.log.Error().Err(err).Str("filename", filename).Msg("extraction failed")
		writeError(w, http.StatusInternalServerError, "Failed to process PDF", err.Error())
		return
	}

	products := payloadPaths(s.persist(result.GarmentImages))
	swatches := payloadPaths(s.persist(result.OtherImages))
	all := append(append([]string{}, products...), swatches...)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"images":       all,
		"image_groups": [][]string{products, swatches},
		"metadata": map[string]any{
			"filename":     filename,
			"total_images": len(all),
			"products":     len(products),
			"swatches":     len(swatches),
		},
	})
}

// handleExtractImage analyzes a single uploaded image: dominant color plus
// any color names read from the image itself.
func (s *Server) handleExtractImage(w http.ResponseWriter, r *http.Request) {
	imgBytes, _, ok := s.readUpload(w, r, "image")
	if !ok {
		return
	}

	dominant, err := colorest.Dominant(imgBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Uploaded file must be a decodable image", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dominant_rgb": []int{int(dominant.R), int(dominant.G), int(dominant.B)},
		"ocr_colours":  s.colors.DetectColorNames(imgBytes),
	})
}

// handleGetImage serves a previously stored extracted image.
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	path, err := s.store.Resolve(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Image not found", "")
		return
	}

	http.ServeFile(w, r, path)
}

// readUpload pulls one multipart file field out of the request, bounded by
// the configured upload cap. It writes the error response itself on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (data []byte, filename string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large", err.Error())
			return nil, "", false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Missing %q file field", field), err.Error())
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large", err.Error())
			return nil, "", false
		}
		writeError(w, http.StatusBadRequest, "Unreadable upload", err.Error())
		return nil, "", false
	}

	return data, header.Filename, true
}

// persist writes each record's bytes to the asset store and builds wire
// payloads. A record whose save fails is returned without a stored path
// rather than dropped.
func (s *Server) persist(records []extract.ImageRecord) []imagePayload {
	payloads := make([]imagePayload, 0, len(records))

	for i, rec := range records {
		p := imagePayload{
			ID:          rec.ID,
			Width:       rec.Width,
			Height:      rec.Height,
			Format:      rec.Format,
			SizeKB:      float64(len(rec.Data)) / 1024,
			IsGarment:   rec.IsGarment,
			AspectRatio: rec.AspectRatio,
			OCRColors:   rec.OCRColorNames,
			Source:      string(rec.Source),
			Base64:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(rec.Data),
		}
		if rec.DominantColor != nil {
			c := rec.DominantColor
			p.DominantRGB = []int{int(c.R), int(c.G), int(c.B)}
		}

		name, err := s.store.Save(string(rec.Source), i+1, rec.Format, rec.Data)
		if err != nil {
			s.log.Warn().Err(err).Str("id", rec.ID).Msg("asset save failed")
		} else {
			p.Filename = name
			p.Path = "/extracted_images/" + name
		}

		payloads = append(payloads, p)
	}

	return payloads
}

func payloadPaths(payloads []imagePayload) []string {
	paths := make([]string, 0, len(payloads))
	for _, p := range payloads {
		if p.Path != "" {
			paths = append(paths, p.Path)
		}
	}
	return paths
}

func uniqueTextColors(pages []extract.PageColorRecord) []string {
	var out []string
	seen := make(map[string]bool)
	for _, page := range pages {
		for _, name := range page.TextColors {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
