// Package chart renders radar (spider) charts as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Scale is the value at the outer ring. Values are clamped to [0, Scale].
const Scale = 100.0

// Palette holds the default series colors in order.
var Palette = []color.Color{
	color.RGBA{0x3B, 0x82, 0xF6, 0xFF}, // blue
	color.RGBA{0xEF, 0x44, 0x44, 0xFF}, // red
	color.RGBA{0x10, 0xB9, 0x81, 0xFF}, // green
	color.RGBA{0xF5, 0x9E, 0x0B, 0xFF}, // amber
	color.RGBA{0x8B, 0x5C, 0xF6, 0xFF}, // violet
	color.RGBA{0x6B, 0x72, 0x80, 0xFF}, // gray
}

// Series is one polygon on the chart. Values line up with Radar.Labels.
type Series struct {
	Name   string
	Values []float64
	Color  color.Color // nil picks from Palette
}

// Radar describes a chart with one axis per label. Axis k points at angle
// 2πk/N measured clockwise from twelve o'clock.
type Radar struct {
	Labels []string
	Series []Series

	// Size is the edge length of the square image in pixels.
	Size int

	// Font renders labels and the legend. Nil uses Go Regular.
	Font *truetype.Font
}

var errNoAxes = errors.New("radar chart needs at least one axis")

// PNG renders the chart.
func (r Radar) PNG() ([]byte, error) {
	n := len(r.Labels)
	if n == 0 {
		return nil, errNoAxes
	}
	for _, s := range r.Series {
		if len(s.Values) != n {
			return nil, fmt.Errorf("series %q has %d values for %d axes", s.Name, len(s.Values), n)
		}
	}

	size := r.Size
	if size <= 0 {
		size = 800
	}
	f := r.Font
	if f == nil {
		var err error
		if f, err = truetype.Parse(goregular.TTF); err != nil {
			return nil, fmt.Errorf("parse fallback font: %w", err)
		}
	}

	s := float64(size)
	dc := gg.NewContext(size, size)
	dc.SetColor(color.White)
	dc.Clear()

	cx, cy := s/2, s/2+s*0.04
	radius := s * 0.32

	point := func(k int, v float64) (float64, float64) {
		v = math.Max(0, math.Min(Scale, v))
		theta := 2*math.Pi*float64(k)/float64(n) - math.Pi/2
		return cx + radius*v/Scale*math.Cos(theta), cy + radius*v/Scale*math.Sin(theta)
	}

	// Grid rings and tick labels.
	dc.SetFontFace(face(f, s*0.018))
	for ring := 20.0; ring <= Scale; ring += 20 {
		for k := 0; k < n; k++ {
			dc.LineTo(point(k, ring))
		}
		dc.ClosePath()
		dc.SetColor(color.Gray{0xD0})
		dc.SetLineWidth(1)
		dc.Stroke()

		x, y := point(0, ring)
		dc.SetColor(color.Gray{0x80})
		dc.DrawStringAnchored(strconv.Itoa(int(ring)), x+4, y, 0, 0.5)
	}

	// Axes and axis labels.
	dc.SetFontFace(face(f, s*0.024))
	for k, label := range r.Labels {
		x, y := point(k, Scale)
		dc.SetColor(color.Gray{0xB0})
		dc.DrawLine(cx, cy, x, y)
		dc.Stroke()

		theta := 2*math.Pi*float64(k)/float64(n) - math.Pi/2
		lx := cx + (radius+s*0.03)*math.Cos(theta)
		ly := cy + (radius+s*0.03)*math.Sin(theta)
		dc.SetColor(color.Gray{0x20})
		dc.DrawStringAnchored(label, lx, ly, 0.5-0.5*math.Cos(theta), 0.5-0.5*math.Sin(theta))
	}

	// Series polygons, first series on top.
	for i := len(r.Series) - 1; i >= 0; i-- {
		ser := r.Series[i]
		c := seriesColor(ser, i)
		red, green, blue, _ := c.RGBA()

		for k, v := range ser.Values {
			dc.LineTo(point(k, v))
		}
		dc.ClosePath()
		dc.SetRGBA255(int(red>>8), int(green>>8), int(blue>>8), 0x40)
		dc.FillPreserve()
		dc.SetColor(c)
		dc.SetLineWidth(3)
		dc.Stroke()

		for k, v := range ser.Values {
			x, y := point(k, v)
			dc.DrawCircle(x, y, 5)
			dc.Fill()
		}
	}

	// Legend, top left.
	dc.SetFontFace(face(f, s*0.022))
	for i, ser := range r.Series {
		y := s*0.04 + float64(i)*s*0.035
		dc.SetColor(seriesColor(ser, i))
		dc.DrawRectangle(s*0.03, y-s*0.01, s*0.02, s*0.02)
		dc.Fill()
		dc.SetColor(color.Gray{0x20})
		dc.DrawStringAnchored(ser.Name, s*0.06, y, 0, 0.35)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func seriesColor(s Series, i int) color.Color {
	if s.Color != nil {
		return s.Color
	}
	return Palette[i%len(Palette)]
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
