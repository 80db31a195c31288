package ocr

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// twoToneImage builds a gray image whose left half is dark and right
// half is bright, a clean bimodal histogram for threshold tests.
func twoToneImage(w, h int, dark, bright uint8) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{bright, bright, bright, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.Set(x, y, color.NRGBA{dark, dark, dark, 255})
		}
	}
	return img
}

func TestOtsuSeparatesBimodalHistogram(t *testing.T) {
	img := twoToneImage(100, 40, 10, 240)
	th := otsuThreshold(img)
	if th < 10 || th >= 240 {
		t.Fatalf("otsu threshold %d outside the two modes", th)
	}
	bin := binarize(img, th)
	for _, x := range []int{0, 99} {
		v := bin.NRGBAAt(x, 0).R
		if v != 0 && v != 255 {
			t.Fatalf("binarized pixel at x=%d is %d, want 0 or 255", x, v)
		}
	}
	if bin.NRGBAAt(0, 0).R != 0 {
		t.Fatalf("dark half should binarize to black")
	}
	if bin.NRGBAAt(99, 0).R != 255 {
		t.Fatalf("bright half should binarize to white")
	}
}

func TestPreprocessExpiryProducesBinaryImage(t *testing.T) {
	out := Preprocess(twoToneImage(120, 60, 30, 200), ModeExpiry)
	nrgba, ok := out.(*image.NRGBA)
	if !ok {
		t.Fatalf("expected *image.NRGBA output")
	}
	b := nrgba.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := nrgba.NRGBAAt(x, y).R
			if v != 0 && v != 255 {
				t.Fatalf("pixel (%d,%d)=%d not binary", x, y, v)
			}
		}
	}
}

func TestPreprocessProductUpsamplesSmallImages(t *testing.T) {
	small := imaging.New(400, 120, color.NRGBA{180, 180, 180, 255})
	out := Preprocess(small, ModeProduct)
	if got := out.Bounds().Dy(); got < minProductHeight {
		t.Fatalf("height %d, want >= %d", got, minProductHeight)
	}
	// Aspect ratio preserved within rounding.
	wantW := 400 * out.Bounds().Dy() / 120
	if got := out.Bounds().Dx(); got < wantW-4 || got > wantW+4 {
		t.Fatalf("width %d, want ~%d", got, wantW)
	}

	big := imaging.New(400, 500, color.NRGBA{180, 180, 180, 255})
	if got := Preprocess(big, ModeProduct).Bounds().Dy(); got != 500 {
		t.Fatalf("tall image should keep its height, got %d", got)
	}
}

func TestPreprocessCoercesColorDepths(t *testing.T) {
	// RGBA, grayscale and paletted inputs must all be accepted.
	inputs := []image.Image{
		image.NewRGBA(image.Rect(0, 0, 50, 40)),
		image.NewGray(image.Rect(0, 0, 50, 40)),
		image.NewNRGBA(image.Rect(0, 0, 50, 40)),
	}
	for _, in := range inputs {
		if out := Preprocess(in, ModeExpiry); out == nil {
			t.Fatalf("nil output for %T", in)
		}
	}
}

func TestLongestResultSelection(t *testing.T) {
	short := "aaaaaaaaaa"                                 // 10
	best := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" // 42
	tiny := "ccccccc"                                     // 7
	if got := LongestResult([]string{short, best, tiny}); got != best {
		t.Fatalf("expected the 42-char result, got %q", got)
	}
	if got := LongestResult(nil); got != "" {
		t.Fatalf("expected empty string for no results, got %q", got)
	}
}

func TestNormalizeText(t *testing.T) {
	in := "BASMATI\n\tREIS   1kg\n"
	if got := NormalizeText(in); got != "BASMATI REIS 1kg" {
		t.Fatalf("got %q", got)
	}
}
