package imageprep

import (
	"image"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"
)

// Histogram counts how many pixels fall on each 8-bit gray level.
type Histogram [256]uint64

// GrayHistogram converts img to 8-bit luma and counts every pixel. Alpha is
// ignored.
func GrayHistogram(img image.Image) Histogram {
	var h Histogram
	src := imaging.Clone(img)
	w, ht := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < ht; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			h[luma(row[x], row[x+1], row[x+2])]++
		}
	}
	return h
}

// luma is ITU-R 601-2 (0.299R + 0.587G + 0.114B) in 16-bit fixed point,
// rounded to nearest.
func luma(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 0x8000) >> 16)
}

func (h Histogram) Total() uint64 {
	var n uint64
	for _, c := range h {
		n += c
	}
	return n
}

// Mean is the count-weighted average gray level. An empty histogram has mean 0.
func (h Histogram) Mean() float64 {
	if h.Total() == 0 {
		return 0
	}
	levels := make([]float64, len(h))
	weights := make([]float64, len(h))
	for i, c := range h {
		levels[i] = float64(i)
		weights[i] = float64(c)
	}
	return stat.Mean(levels, weights)
}

// AverageBrightness is the mean of the grayscale histogram of img, in [0, 255].
func AverageBrightness(img image.Image) float64 {
	return GrayHistogram(img).Mean()
}

// IsDarkMode reports whether an image with the given average brightness should
// be treated as light text on a dark background.
func IsDarkMode(brightness, threshold float64) bool {
	return brightness < threshold
}
