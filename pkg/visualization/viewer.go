// Package visualization renders parsed toolpath programs to preview
// images: a top-down view with rapid and cut segments drawn differently
// and cut segments shaded by depth.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"opencarve/pkg/gcode"
)

// Colors used by the preview. Rapids are drawn faint so the cutting
// pattern dominates; cut shading runs from light (surface grazing) to
// dark (full depth).
var (
	backgroundColor = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	rapidColor      = color.RGBA{R: 255, G: 160, B: 60, A: 255}
)

// Renderer draws a parsed G-code model as a top-down raster preview.
type Renderer struct {
	// model is the parsed program being drawn.
	model *gcode.Model

	// pixelsPerMM sets the preview resolution.
	pixelsPerMM float64

	// padding is the blank border around the drawing in pixels.
	padding int
}

// NewRenderer creates a renderer for the parsed model. pixelsPerMM must
// be positive.
func NewRenderer(model *gcode.Model, pixelsPerMM float64) (*Renderer, error) {
	if model == nil {
		return nil, fmt.Errorf("nil model")
	}
	if pixelsPerMM <= 0 {
		return nil, fmt.Errorf("pixels per mm must be positive, got %g", pixelsPerMM)
	}
	return &Renderer{
		model:       model,
		pixelsPerMM: pixelsPerMM,
		padding:     8,
	}, nil
}

// RenderTopDown draws the XY projection of the program. Y grows upward in
// machine coordinates, so the image is flipped vertically to keep the
// machine origin at the bottom left.
func (r *Renderer) RenderTopDown() (image.Image, error) {
	b := r.model.Bounds
	width := int(math.Ceil(b.DX()*r.pixelsPerMM)) + 2*r.padding
	height := int(math.Ceil(b.DY()*r.pixelsPerMM)) + 2*r.padding
	if width <= 2*r.padding || height <= 2*r.padding {
		return nil, fmt.Errorf("program bounding box %gx%g mm is too small to render", b.DX(), b.DY())
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, backgroundColor)
		}
	}

	zMin := b.ZMin

	toPixel := func(x, y float64) (int, int) {
		px := r.padding + int(math.Round((x-b.XMin)*r.pixelsPerMM))
		py := height - 1 - (r.padding + int(math.Round((y-b.YMin)*r.pixelsPerMM)))
		return px, py
	}

	// Walk the segments from the machine origin, drawing each move from
	// its start to its end position.
	prevX, prevY := 0.0, 0.0
	for _, seg := range r.model.Segments {
		x0, y0 := toPixel(prevX, prevY)
		x1, y1 := toPixel(seg.X, seg.Y)

		switch seg.Style {
		case gcode.StyleRapid:
			drawLine(img, x0, y0, x1, y1, rapidColor)
		case gcode.StyleRetract:
			// A vertical move has no top-down extent.
		default:
			drawLine(img, x0, y0, x1, y1, depthColor(seg.Z, zMin))
		}
		prevX, prevY = seg.X, seg.Y
	}

	return img, nil
}

// depthColor shades a cut by how deep it is relative to the deepest point
// of the program: light gray at the surface, near black at full depth.
func depthColor(z, zMin float64) color.RGBA {
	t := 0.0
	if zMin < 0 {
		t = math.Min(1, math.Max(0, z/zMin))
	}
	v := uint8(200 - t*180)
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

// drawLine rasterizes a line segment with the integer Bresenham walk.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// SavePNG writes a rendered preview image to disk.
func SavePNG(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
