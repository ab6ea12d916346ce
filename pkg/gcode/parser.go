package gcode

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// SegmentStyle classifies a parsed motion segment for rendering and
// statistics.
type SegmentStyle int

const (
	// StyleRapid is a G0 positioning move.
	StyleRapid SegmentStyle = iota
	// StylePlunge is a purely vertical downward feed move.
	StylePlunge
	// StyleRetract is a purely vertical upward feed move.
	StyleRetract
	// StyleCut is any other feed move.
	StyleCut
)

// Segment is one motion command resolved to absolute machine coordinates.
type Segment struct {
	// X, Y, Z is the absolute end position of the move in mm.
	X, Y, Z float64

	// Feed is the modal feed rate in effect for the move, mm/min. Zero
	// for rapids and for moves before any F word.
	Feed float64

	// Style classifies the move.
	Style SegmentStyle

	// Line is the 1-based program line the segment came from.
	Line int

	// Length is the distance travelled by the move in mm.
	Length float64
}

// BBox is the axis-aligned bounding box of a parsed program.
type BBox struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// DX returns the bounding box extent along X.
func (b BBox) DX() float64 { return b.XMax - b.XMin }

// DY returns the bounding box extent along Y.
func (b BBox) DY() float64 { return b.YMax - b.YMin }

// DZ returns the bounding box extent along Z.
func (b BBox) DZ() float64 { return b.ZMax - b.ZMin }

func (b *BBox) extend(x, y, z float64) {
	b.XMin = math.Min(b.XMin, x)
	b.XMax = math.Max(b.XMax, x)
	b.YMin = math.Min(b.YMin, y)
	b.YMax = math.Max(b.YMax, y)
	b.ZMin = math.Min(b.ZMin, z)
	b.ZMax = math.Max(b.ZMax, z)
}

// Model is the result of parsing a program: the resolved motion segments
// plus aggregate geometry.
type Model struct {
	// Segments are the motion segments in program order.
	Segments []Segment

	// Bounds is the bounding box over all visited positions, including
	// the origin the program starts from.
	Bounds BBox

	// Distance is the total path length in mm over all segments.
	Distance float64

	// CutDistance is the path length of cutting segments only.
	CutDistance float64

	// Warnings collects non-fatal parse diagnostics such as unknown
	// codes, one entry per affected line.
	Warnings []string
}

// parser holds the modal state of a single parse run.
type parser struct {
	model    *Model
	x, y, z  float64
	feed     float64
	offX     float64
	offY     float64
	offZ     float64
	relative bool
	lineNb   int
}

// Parse reads a G-code program and resolves it into absolute motion
// segments. The supported vocabulary is the one this package emits plus
// the modal codes the original tool tolerated: G0/G1, G21, G28, G54,
// G90/G91, G92, G4 and M words. G20 (inch units) is a hard error. Unknown
// codes produce warnings, not errors.
func Parse(r io.Reader) (*Model, error) {
	p := &parser{model: &Model{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lineNb++
		if err := p.parseLine(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return p.model, nil
}

// ParseString parses a program held in memory.
func ParseString(program string) (*Model, error) {
	return Parse(strings.NewReader(program))
}

func (p *parser) parseLine(line string) error {
	code, args := splitCommand(line)
	if code == "" {
		return nil
	}

	switch code {
	case "G0", "G00":
		return p.doMove(args, true)
	case "G1", "G01":
		return p.doMove(args, false)
	case "G20":
		return fmt.Errorf("line %d: unsupported units: G20 (inches)", p.lineNb)
	case "G21", "G54", "G4", "G04":
		// mm units, work offset and dwell are accepted and ignored.
	case "G28":
		p.warn("G28 unimplemented")
	case "G90":
		p.relative = false
	case "G91":
		p.relative = true
	case "G92":
		p.doSetPosition(args)
	default:
		if strings.HasPrefix(code, "M") {
			// Spindle and program-control words carry no geometry.
			return nil
		}
		p.warn(fmt.Sprintf("unknown code %q", code))
	}
	return nil
}

func (p *parser) doMove(args map[byte]float64, rapid bool) error {
	nx, ny, nz := p.x, p.y, p.z
	for axis, v := range args {
		switch axis {
		case 'X':
			nx = p.applyAxis(p.x, v)
		case 'Y':
			ny = p.applyAxis(p.y, v)
		case 'Z':
			nz = p.applyAxis(p.z, v)
		case 'F':
			p.feed = v
		default:
			p.warn(fmt.Sprintf("unknown axis %q", string(axis)))
		}
	}

	dx := nx - p.x
	dy := ny - p.y
	dz := nz - p.z
	length := math.Sqrt(dx*dx + dy*dy + dz*dz)

	style := StyleCut
	switch {
	case rapid:
		style = StyleRapid
	case dx == 0 && dy == 0 && dz < 0:
		style = StylePlunge
	case dx == 0 && dy == 0 && dz > 0:
		style = StyleRetract
	}

	feed := p.feed
	if rapid {
		feed = 0
	}
	seg := Segment{
		X:      nx + p.offX,
		Y:      ny + p.offY,
		Z:      nz + p.offZ,
		Feed:   feed,
		Style:  style,
		Line:   p.lineNb,
		Length: length,
	}
	p.model.Segments = append(p.model.Segments, seg)
	p.model.Bounds.extend(seg.X, seg.Y, seg.Z)
	p.model.Distance += length
	if style == StyleCut || style == StylePlunge {
		p.model.CutDistance += length
	}

	p.x, p.y, p.z = nx, ny, nz
	return nil
}

func (p *parser) applyAxis(current, v float64) float64 {
	if p.relative {
		return current + v
	}
	return v
}

// doSetPosition implements G92: shift the work offset so the current
// physical position reads as the given coordinates. G92 without arguments
// zeroes all axes.
func (p *parser) doSetPosition(args map[byte]float64) {
	if len(args) == 0 {
		args = map[byte]float64{'X': 0, 'Y': 0, 'Z': 0}
	}
	for axis, v := range args {
		switch axis {
		case 'X':
			p.offX += p.x - v
			p.x = v
		case 'Y':
			p.offY += p.y - v
			p.y = v
		case 'Z':
			p.offZ += p.z - v
			p.z = v
		default:
			p.warn(fmt.Sprintf("unknown axis %q", string(axis)))
		}
	}
}

func (p *parser) warn(msg string) {
	p.model.Warnings = append(p.model.Warnings, fmt.Sprintf("line %d: %s", p.lineNb, msg))
}

// splitCommand strips comments from a program line and splits it into the
// leading code and its argument words. Both semicolon and round-bracket
// comment styles are removed.
func splitCommand(line string) (string, map[byte]float64) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	for {
		open := strings.IndexByte(line, '(')
		if open < 0 {
			break
		}
		end := strings.IndexByte(line[open:], ')')
		if end < 0 {
			line = line[:open]
			break
		}
		line = line[:open] + line[open+end+1:]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	args := make(map[byte]float64, len(fields)-1)
	for _, f := range fields[1:] {
		letter := f[0]
		v, err := strconv.ParseFloat(f[1:], 64)
		if err != nil {
			v = 1
		}
		args[letter] = v
	}
	return strings.ToUpper(fields[0]), args
}
