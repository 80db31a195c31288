package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Mode selects the preprocessing profile for a label photograph.
type Mode string

const (
	// ModeProduct is tuned for large, multi-font, colorful front labels.
	ModeProduct Mode = "product"
	// ModeExpiry is tuned for small, machine-printed date stamps.
	ModeExpiry Mode = "expiry"
)

// minProductHeight is the minimum pixel height product labels are
// upsampled to before recognition.
const minProductHeight = 300

// Preprocess normalizes an arbitrary input photo for OCR. Any color
// depth is coerced to grayscale first, never rejected. Expiry stamps
// are low-contrast machine print, so they get equalization, denoising
// and Otsu binarization. Product labels carry fine typography that
// binarization would destroy, so they get upsampling, light
// denoising, sharpening and a linear contrast stretch instead.
func Preprocess(img image.Image, mode Mode) image.Image {
	gray := imaging.Grayscale(img)

	if mode == ModeExpiry {
		gray = equalizeHist(gray)
		gray = imaging.Blur(gray, 1.2)
		return binarize(gray, otsuThreshold(gray))
	}

	if gray.Bounds().Dy() < minProductHeight {
		gray = imaging.Resize(gray, 0, minProductHeight, imaging.CatmullRom)
	}
	gray = imaging.Blur(gray, 0.6)
	gray = convolve3x3(gray, sharpenKernel)
	return rescaleIntensity(gray, 1.5, 10)
}

// sharpenKernel is the classic 3x3 unsharp kernel.
var sharpenKernel = [9]int{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}

// binarize performs a global threshold on a grayscale image.
func binarize(img *image.NRGBA, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var v uint8 = 255
			if img.NRGBAAt(x, y).R <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// histogram counts pixel intensities of a grayscale image.
func histogram(img *image.NRGBA) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[img.NRGBAAt(x, y).R]++
		}
	}
	return hist
}

// equalizeHist spreads the intensity histogram over the full range,
// lifting faint stamps out of the background.
func equalizeHist(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return img
	}
	hist := histogram(img)
	var lut [256]uint8
	cum := 0
	for i := 0; i < 256; i++ {
		cum += hist[i]
		lut[i] = uint8(cum * 255 / total)
	}
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := lut[img.NRGBAAt(x, y).R]
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// otsuThreshold picks the global threshold that maximizes
// between-class variance of the intensity histogram.
func otsuThreshold(img *image.NRGBA) uint8 {
	hist := histogram(img)
	total := 0
	sum := 0
	for i, c := range hist {
		total += c
		sum += i * c
	}
	if total == 0 {
		return 128
	}
	var best uint8
	bestVar := -1.0
	wB, sumB := 0, 0
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += t * hist[t]
		mB := float64(sumB) / float64(wB)
		mF := float64(sum-sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best
}

// convolve3x3 applies a 3x3 kernel to a grayscale image, clamping to
// [0,255]. Border pixels use clamped sampling.
func convolve3x3(img *image.NRGBA, k [9]int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(b)
	at := func(x, y int) int {
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
		if x >= w {
			x = w - 1
		}
		if y >= h {
			y = h - 1
		}
		return int(img.NRGBAAt(b.Min.X+x, b.Min.Y+y).R)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0
			ki := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					acc += k[ki] * at(x+dx, y+dy)
					ki++
				}
			}
			v := clampU8(acc)
			out.Set(b.Min.X+x, b.Min.Y+y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// rescaleIntensity applies v' = v*gain + offset with clamping.
func rescaleIntensity(img *image.NRGBA, gain float64, offset int) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := clampU8(int(float64(img.NRGBAAt(x, y).R)*gain) + offset)
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

func clampU8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
