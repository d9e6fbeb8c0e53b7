package ocr

import (
	"strings"

	"linesheet-extractor/internal/colorest"
	"linesheet-extractor/internal/colorlex"
	"linesheet-extractor/pkg/colorutil"

	"github.com/rs/zerolog"
)

const (
	// minWordConfidence discards tokens Tesseract is unsure about.
	minWordConfidence = 60.0

	// minWordLength discards fragments shorter than any vocabulary color.
	minWordLength = 3
)

// ColorReader extracts color names from image bytes, via OCR when available
// and via dominant-color estimation otherwise. Detection is best-effort: it
// never returns an error, only an empty result.
type ColorReader struct {
	engine *Engine // nil when recognition is unavailable
	lex    *colorlex.Lexicon
	log    zerolog.Logger
}

// NewColorReader builds a ColorReader. engine may be nil, which puts the
// reader permanently in fallback mode.
func NewColorReader(engine *Engine, lex *colorlex.Lexicon, log zerolog.Logger) *ColorReader {
	return &ColorReader{engine: engine, lex: lex, log: log}
}

// DetectColorNames returns the color names found in an image. When OCR is
// available and yields vocabulary matches those are returned; otherwise the
// dominant color is mapped to the nearest named color. Returns nil when both
// paths fail.
func (r *ColorReader) DetectColorNames(imgBytes []byte) []string {
	if r.engine.Available() {
		words, err := r.engine.Words(imgBytes)
		if err != nil {
			r.log.Warn().Err(err).Msg("ocr color detection failed")
		} else {
			tokens := filterWords(words)
			if names := r.lex.Match(strings.Join(tokens, " ")); len(names) > 0 {
				r.log.Debug().Strs("colors", names).Msg("colors recognized via ocr")
				return names
			}
			r.log.Debug().Msg("no colors via ocr, falling back to dominant color")
		}
	}

	dominant, err := colorest.Dominant(imgBytes)
	if err != nil {
		r.log.Warn().Err(err).Msg("dominant color fallback failed")
		return nil
	}

	return []string{colorutil.Nearest(dominant)}
}

// filterWords keeps tokens that pass the confidence and length floors,
// uppercased for matching.
func filterWords(words []Word) []string {
	var kept []string
	for _, w := range words {
		if w.Confidence < minWordConfidence {
			continue
		}
		text := strings.ToUpper(strings.TrimSpace(w.Text))
		if len(text) < minWordLength {
			continue
		}
		kept = append(kept, text)
	}
	return kept
}
