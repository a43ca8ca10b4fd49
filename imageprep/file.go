package imageprep

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP input
)

var (
	ErrOpen              = errors.New("cannot open input image")
	ErrDecode            = errors.New("cannot decode input image")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrSave              = errors.New("cannot save output image")
)

// OptimizeFile reads inputPath, normalizes it and writes the result to
// outputPath in the format implied by its extension.
func OptimizeFile(inputPath, outputPath string, opts Options) (Result, error) {
	img, err := load(inputPath)
	if err != nil {
		return Result{}, err
	}

	format, err := imaging.FormatFromFilename(outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, outputPath)
	}

	out, res := Normalize(img, opts)
	res.Input = inputPath
	res.Output = outputPath

	if err := save(out, outputPath, format); err != nil {
		return res, err
	}
	return res, nil
}

func load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return img, nil
}

func save(img image.Image, path string, format imaging.Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrSave, cerr)
		}
	}()

	if err := imaging.Encode(f, img, format); err != nil {
		return fmt.Errorf("%w: encoding %s: %w", ErrSave, path, err)
	}
	return nil
}
