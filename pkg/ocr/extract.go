package ocr

import (
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// psmModes are the three layout assumptions tried for every image:
// uniform block of text, fully automatic layout detection, and sparse
// text without layout analysis. Photographed labels interact
// unpredictably with segmentation, so all three run and the longest
// output wins.
var psmModes = []gosseract.PageSegMode{
	gosseract.PSM_SINGLE_BLOCK,
	gosseract.PSM_AUTO,
	gosseract.PSM_SPARSE_TEXT,
}

// ExtractText runs OCR over the (already preprocessed) image under
// each page-segmentation assumption and returns the longest non-empty
// result. Individual passes that error out or come back blank are
// discarded; if every pass fails the result is the empty string, not
// an error.
func ExtractText(img image.Image) (string, error) {
	tmp, err := os.CreateTemp("", "ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(path)
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	var results []string
	for _, mode := range psmModes {
		cl := gosseract.NewClient()
		_ = cl.SetLanguage("eng")
		_ = cl.SetPageSegMode(mode)
		cl.SetImage(path)
		text, err := cl.Text()
		cl.Close()
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		results = append(results, strings.TrimSpace(text))
	}
	best := LongestResult(results)
	log.Printf("OCR passes ok=%d/%d chosen_len=%d snippet=%q", len(results), len(psmModes), len(best), snippet(best, 120))
	return best, nil
}

// ExtractFromFile opens the image at path, preprocesses it for the
// given label mode and extracts its text.
func ExtractFromFile(path string, mode Mode) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	return ExtractText(Preprocess(img, mode))
}

// LongestResult selects the longest candidate as a proxy for the most
// complete recognition. Empty input yields the empty string.
func LongestResult(results []string) string {
	best := ""
	for _, r := range results {
		if len(r) > len(best) {
			best = r
		}
	}
	return best
}
