// Package imageprep prepares screenshots for text recognition: dark-mode
// screenshots are inverted to dark-on-light and every image is contrast
// stretched.
package imageprep

import (
	"image"
	"image/color"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

// DefaultThreshold is the midpoint of the 8-bit range. Images whose average
// brightness is strictly below it are treated as dark mode.
const DefaultThreshold = 128.0

type Options struct {
	// Threshold for dark-mode detection. Zero or negative selects DefaultThreshold.
	Threshold float64
}

func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Result describes what Normalize measured and decided.
type Result struct {
	Input             string  `json:"input,omitempty"`
	Output            string  `json:"output,omitempty"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	AverageBrightness float64 `json:"average_brightness"`
	Threshold         float64 `json:"threshold"`
	Inverted          bool    `json:"inverted"`
	PHash             uint64  `json:"phash"`
}

// Invert maps every color channel v to 255-v. Alpha is kept.
func Invert(img image.Image) *image.NRGBA {
	return imaging.Invert(img)
}

// Autocontrast stretches each of R, G and B independently so that the darkest
// observed value becomes 0 and the lightest 255. A channel with a single value
// is left as is.
func Autocontrast(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	lo, hi := channelBounds(src)

	var lut [3][256]uint8
	for ch := 0; ch < 3; ch++ {
		for v := 0; v < 256; v++ {
			lut[ch][v] = stretch(uint8(v), lo[ch], hi[ch])
		}
	}

	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[0][c.R], G: lut[1][c.G], B: lut[2][c.B], A: c.A}
	})
}

func channelBounds(img *image.NRGBA) (lo, hi [3]uint8) {
	lo = [3]uint8{255, 255, 255}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			for ch := 0; ch < 3; ch++ {
				v := row[x+ch]
				if v < lo[ch] {
					lo[ch] = v
				}
				if v > hi[ch] {
					hi[ch] = v
				}
			}
		}
	}
	return lo, hi
}

func stretch(v, lo, hi uint8) uint8 {
	if hi <= lo {
		return v
	}
	switch {
	case v <= lo:
		return 0
	case v >= hi:
		return 255
	}
	return uint8(int(v-lo) * 255 / int(hi-lo))
}

// Normalize runs dark-mode detection, optional inversion and contrast
// stretching on img. img is not modified.
func Normalize(img image.Image, opts Options) (*image.NRGBA, Result) {
	opts = opts.withDefaults()
	b := img.Bounds()
	res := Result{
		Width:             b.Dx(),
		Height:            b.Dy(),
		AverageBrightness: AverageBrightness(img),
		Threshold:         opts.Threshold,
	}

	src := img
	if IsDarkMode(res.AverageBrightness, opts.Threshold) {
		res.Inverted = true
		src = Invert(img)
	}
	out := Autocontrast(src)

	if res.Width > 0 && res.Height > 0 {
		if hash, err := goimagehash.PerceptionHash(out); err == nil {
			res.PHash = hash.GetHash()
		}
	}
	return out, res
}

// HashDistance is the Hamming distance between two Result.PHash values. Small
// distances mean the normalized images look alike.
func HashDistance(a, b uint64) int {
	d, err := goimagehash.NewImageHash(a, goimagehash.PHash).Distance(goimagehash.NewImageHash(b, goimagehash.PHash))
	if err != nil {
		return -1
	}
	return d
}
