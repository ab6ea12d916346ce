// Package heightmap loads grayscale heightmap images into normalized
// intensity grids for the toolpath compiler. It accepts PNG, JPEG, TIFF,
// BMP and SVG input and converts everything to luminance samples in [0,1],
// where 0 is black (deepest cut) and 1 is white (untouched surface).
package heightmap

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/tiff" // register TIFF decoding
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Grid is an immutable-by-convention 2D array of normalized intensity
// samples. The toolpath pipeline reads it but never writes to it; Inverted
// and Smoothed return new grids.
type Grid struct {
	samples *mat.Dense
}

// NewGrid wraps an intensity matrix. Values are expected to lie in [0,1].
func NewGrid(samples *mat.Dense) *Grid {
	return &Grid{samples: samples}
}

// Load reads a heightmap image from disk. The format is chosen by file
// extension: .svg is rasterized, everything else is decoded as a raster
// image (PNG, JPEG, TIFF or BMP).
func Load(path string) (*Grid, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return loadSVG(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts a decoded image into an intensity grid using the
// ITU-R 601 luminance weights. 16-bit grayscale sources keep their full
// precision because the conversion works on 16-bit channel values.
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	rows := bounds.Dy()
	cols := bounds.Dx()
	samples := mat.NewDense(rows, cols, nil)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			red, green, blue, _ := img.At(bounds.Min.X+c, bounds.Min.Y+r).RGBA()
			luma := (299*float64(red) + 587*float64(green) + 114*float64(blue)) / 1000
			samples.Set(r, c, luma/65535)
		}
	}
	return &Grid{samples: samples}
}

// Dims returns the grid dimensions as rows, cols.
func (g *Grid) Dims() (rows, cols int) {
	return g.samples.Dims()
}

// At returns the intensity sample at row r, column c.
func (g *Grid) At(r, c int) float64 {
	return g.samples.At(r, c)
}

// Samples exposes the underlying intensity matrix. Callers must treat it
// as read-only.
func (g *Grid) Samples() *mat.Dense {
	return g.samples
}

// Inverted returns a new grid with every sample flipped: v -> 1-v. This
// mirrors the original tool's invert-colors action, swapping which end of
// the intensity range cuts deepest.
func (g *Grid) Inverted() *Grid {
	rows, cols := g.samples.Dims()
	inv := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			inv.Set(r, c, 1-g.samples.At(r, c))
		}
	}
	return &Grid{samples: inv}
}

// Stats returns the mean and standard deviation of the intensity samples.
func (g *Grid) Stats() (mean, stddev float64) {
	rows, cols := g.samples.Dims()
	values := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		values = append(values, g.samples.RawRowView(r)...)
	}
	mean = stat.Mean(values, nil)
	stddev = stat.StdDev(values, nil)
	return mean, stddev
}
