package imageprep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeFile(t *testing.T) {
	dir := t.TempDir()
	dark := filepath.Join(dir, "dark.png")
	require.NoError(t, imaging.Save(halfAndHalf(20, 10, 10, 60), dark))

	t.Run("png round trip", func(t *testing.T) {
		out := filepath.Join(dir, "optimized.png")
		res, err := OptimizeFile(dark, out, DefaultOptions())
		require.NoError(t, err)
		assert.True(t, res.Inverted)
		assert.InDelta(t, 35.0, res.AverageBrightness, 1e-9)
		assert.Equal(t, dark, res.Input)
		assert.Equal(t, out, res.Output)

		img, err := imaging.Open(out)
		require.NoError(t, err)
		got := imaging.Clone(img)
		assert.Equal(t, 20, got.Rect.Dx())
		// 10 -> 245 (lightest), 60 -> 195 (darkest) after inversion
		assert.Equal(t, uint8(255), got.NRGBAAt(0, 0).R)
		assert.Equal(t, uint8(0), got.NRGBAAt(19, 0).R)
	})

	t.Run("bad extension writes nothing", func(t *testing.T) {
		out := filepath.Join(dir, "x.xyz")
		_, err := OptimizeFile(dark, out, DefaultOptions())
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.NoFileExists(t, out)
	})

	t.Run("format follows extension", func(t *testing.T) {
		out := filepath.Join(dir, "optimized.jpg")
		_, err := OptimizeFile(dark, out, DefaultOptions())
		require.NoError(t, err)
		f, err := os.Open(out)
		require.NoError(t, err)
		defer f.Close()
		head := make([]byte, 2)
		_, err = f.Read(head)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFF, 0xD8}, head)
	})

	test := []struct {
		name    string
		input   string
		output  string
		wantErr error
	}{
		{"missing input", filepath.Join(dir, "nope.png"), filepath.Join(dir, "x.png"), ErrOpen},
		{"not an image", writeFile(t, dir, "notes.png", "hello"), filepath.Join(dir, "x.png"), ErrDecode},
		{"unknown output extension", dark, filepath.Join(dir, "x.xyz"), ErrUnsupportedFormat},
		{"unwritable output", dark, filepath.Join(dir, "missing-dir", "x.png"), ErrSave},
		{"missing input wins over bad extension", filepath.Join(dir, "nope.png"), filepath.Join(dir, "x.xyz"), ErrOpen},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OptimizeFile(tt.input, tt.output, DefaultOptions())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
