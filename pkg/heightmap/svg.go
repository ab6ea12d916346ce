package heightmap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// loadSVG rasterizes an SVG file at its native view-box size onto a white
// background and converts the result to an intensity grid. White stays
// surface, drawn geometry cuts.
func loadSVG(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap: %w", err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing SVG %s: %w", path, err)
	}

	width := int(icon.ViewBox.W)
	height := int(icon.ViewBox.H)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("SVG %s has an empty view box", path)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	return FromImage(img), nil
}
