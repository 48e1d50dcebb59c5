package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ChicagoDave/realmmap/pkg/geo"
)

// Viewport is the target surface of a draw: its pixel size, the transform
// from map to screen coordinates and the background colour.
type Viewport struct {
	Width      int
	Height     int
	Transform  Affine
	Background Color
}

// FitViewport returns a viewport of the given size showing the whole
// width x height map area.
func FitViewport(width, height float64, w, h int) Viewport {
	return Viewport{
		Width:      w,
		Height:     h,
		Transform:  Fit(width, height, float64(w), float64(h), 16),
		Background: Color{R: 0xf4, G: 0xec, B: 0xd8, A: 0xff},
	}
}

const labelFontSize = 11

// WriteSVG draws cmds as an SVG document. Coordinates are transformed by
// vp.Transform; stroke widths and marker sizes stay in screen units.
func WriteSVG(w io.Writer, cmds []Command, vp Viewport) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		vp.Width, vp.Height, vp.Width, vp.Height)
	fmt.Fprintf(bw, `<rect width="%d" height="%d" fill="%s"/>`+"\n", vp.Width, vp.Height, vp.Background.Hex())

	t := vp.Transform
	for _, c := range cmds {
		switch c.Kind {
		case PolygonFill:
			fmt.Fprintf(bw, `<polygon id="%s" points="%s" fill="%s" fill-opacity="%.3g" stroke="%s" stroke-width="%.3g"/>`+"\n",
				escape(c.EntityID), svgPoints(t.ApplyAll(c.Points)), c.Fill.Hex(), c.Fill.Opacity(), c.Stroke.Hex(), c.Width)
		case PointCluster:
			fmt.Fprintf(bw, `<g id="%s" fill="%s" fill-opacity="%.3g">`+"\n", escape(c.EntityID), c.Fill.Hex(), c.Fill.Opacity())
			for _, p := range t.ApplyAll(c.Points) {
				fmt.Fprintf(bw, `<circle cx="%.2f" cy="%.2f" r="%.3g"/>`+"\n", p.X, p.Y, c.Width)
			}
			fmt.Fprintln(bw, `</g>`)
		case Polyline:
			dash := ""
			if c.Dashed {
				dash = ` stroke-dasharray="6 4"`
			}
			fmt.Fprintf(bw, `<polyline id="%s" points="%s" fill="none" stroke="%s" stroke-width="%.3g" stroke-linecap="round"%s/>`+"\n",
				escape(c.EntityID), svgPoints(t.ApplyAll(c.Points)), c.Stroke.Hex(), c.Width, dash)
		case Marker:
			if len(c.Points) == 0 {
				continue
			}
			p := t.Apply(c.Points[0])
			fmt.Fprintf(bw, `<polygon id="%s" class="%s" points="%s" fill="%s" stroke="%s" stroke-width="%.3g"/>`+"\n",
				escape(c.EntityID), escape(c.Icon), svgPoints(MarkerOutline(c.Icon, p, c.Size)), c.Fill.Hex(), c.Stroke.Hex(), c.Width)
			if c.Label != "" {
				fmt.Fprintf(bw, `<text x="%.2f" y="%.2f" font-family="serif" font-size="%d" fill="%s">%s</text>`+"\n",
					p.X+c.Size/2+2, p.Y+labelFontSize/3, labelFontSize, c.Stroke.Hex(), escape(c.Label))
			}
		}
	}
	fmt.Fprintln(bw, `</svg>`)
	return bw.Flush()
}

func svgPoints(pts []geo.Point2D) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.2f,%.2f", p.X, p.Y)
	}
	return sb.String()
}

func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
