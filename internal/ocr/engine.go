// Package ocr provides optical character recognition for color names printed
// inside extracted line-sheet images.
package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// contrastGain is applied to pixel values before recognition. Line-sheet
// swatches are often low-contrast pastels that Tesseract misreads as-is.
const contrastGain = 1.3

// Engine wraps a Tesseract client. A nil *Engine is a valid "recognition
// unavailable" engine; construction fails once at startup when the language
// data cannot be loaded, and callers operate in fallback mode from then on.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewEngine creates an OCR engine for the given language ("eng" if empty).
func NewEngine(language string) (*Engine, error) {
	if language == "" {
		language = "eng"
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("ocr: set language %q: %w", language, err)
	}

	return &Engine{client: client}, nil
}

// Close releases Tesseract resources.
func (e *Engine) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}

// Available reports whether the engine can recognize text.
func (e *Engine) Available() bool {
	return e != nil && e.client != nil
}

// Word is a single recognized token with Tesseract's confidence (0-100).
type Word struct {
	Text       string
	Confidence float64
}

// Words recognizes text tokens in an encoded image. The image is contrast
// boosted before recognition. The Tesseract client is stateful, so calls are
// serialized internally.
func (e *Engine) Words(imgBytes []byte) ([]Word, error) {
	if !e.Available() {
		return nil, fmt.Errorf("ocr: engine unavailable")
	}

	prepared, err := boostContrast(imgBytes)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("ocr: set page seg mode: %w", err)
	}
	if err := e.client.SetImageFromBytes(prepared); err != nil {
		return nil, fmt.Errorf("ocr: set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("ocr: get word boxes: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, Word{Text: text, Confidence: box.Confidence})
	}

	return words, nil
}

// boostContrast decodes an image, multiplies pixel values by contrastGain and
// re-encodes it as PNG for Tesseract.
func boostContrast(imgBytes []byte) ([]byte, error) {
	img, err := gocv.IMDecode(imgBytes, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("ocr: decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("ocr: decode image: empty")
	}

	boosted := img.Clone()
	defer boosted.Close()
	boosted.MultiplyFloat(contrastGain)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, boosted)
	if err != nil {
		return nil, fmt.Errorf("ocr: encode image: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
