package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"imposterartist/internal/domain"
)

// DataURLPrefix starts every drawing the Scribbler returns
const DataURLPrefix = "data:image/png;base64,"

const (
	canvasSize  = 256
	penRadius   = 3
	minStrokes  = 2
	maxStrokes  = 5
	strokeSteps = 4
)

// Scribbler draws a few random strokes in the player's color, whatever the
// player's role.
type Scribbler struct {
	rng domain.Randomizer
}

// NewScribbler creates a Scribbler. A nil rng uses domain.DefaultRandomizer.
func NewScribbler(rng domain.Randomizer) *Scribbler {
	if rng == nil {
		rng = domain.DefaultRandomizer
	}
	return &Scribbler{rng: rng}
}

// GenerateDrawing renders the strokes onto a transparent canvas and returns
// the PNG as a data URL.
func (s *Scribbler) GenerateDrawing(ctx context.Context, req DrawingRequest) (string, error) {
	ink, err := parseHexColor(req.Color)
	if err != nil {
		return "", err
	}

	img := image.NewNRGBA(image.Rect(0, 0, canvasSize, canvasSize))

	strokes := minStrokes + s.rng.Intn(maxStrokes-minStrokes+1)
	for i := 0; i < strokes; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		s.stroke(img, ink)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode drawing: %w", err)
	}

	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// stroke draws a polyline through a handful of random points
func (s *Scribbler) stroke(img *image.NRGBA, ink color.NRGBA) {
	x, y := s.rng.Intn(canvasSize), s.rng.Intn(canvasSize)
	for i := 0; i < strokeSteps; i++ {
		nx, ny := s.rng.Intn(canvasSize), s.rng.Intn(canvasSize)
		drawLine(img, x, y, nx, ny, ink)
		x, y = nx, ny
	}
}

// drawLine stamps a round pen along the segment (Bresenham)
func drawLine(img *image.NRGBA, x0, y0, x1, y1 int, ink color.NRGBA) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		stamp(img, x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func stamp(img *image.NRGBA, cx, cy int, ink color.NRGBA) {
	for y := -penRadius; y <= penRadius; y++ {
		for x := -penRadius; x <= penRadius; x++ {
			if x*x+y*y > penRadius*penRadius {
				continue
			}
			if p := image.Pt(cx+x, cy+y); p.In(img.Rect) {
				img.SetNRGBA(p.X, p.Y, ink)
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// parseHexColor parses "#rrggbb"; an empty string is black
func parseHexColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{A: 0xff}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
