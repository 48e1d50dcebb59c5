package render

import (
	"image"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ChicagoDave/realmmap/pkg/geo"
)

const (
	dashOn  = 6.0
	dashOff = 4.0
)

// Rasterize draws cmds onto a new RGBA image of the viewport size.
func Rasterize(cmds []Command, vp Viewport) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(vp.Background), image.Point{}, draw.Src)

	r := &raster{img: img, ras: vector.NewRasterizer(vp.Width, vp.Height)}
	t := vp.Transform
	for _, c := range cmds {
		switch c.Kind {
		case PolygonFill:
			pts := t.ApplyAll(c.Points)
			r.fill(pts, c.Fill)
			r.outline(pts, c.Stroke, c.Width)
		case PointCluster:
			for _, p := range t.ApplyAll(c.Points) {
				r.fill(CircleOutline(p, c.Width, 8), c.Fill)
			}
		case Polyline:
			pts := t.ApplyAll(c.Points)
			for i := 0; i+1 < len(pts); i++ {
				if c.Dashed {
					r.dashed(pts[i], pts[i+1], c.Stroke, c.Width)
				} else {
					r.fill(StrokeOutline(pts[i], pts[i+1], c.Width), c.Stroke)
				}
			}
		case Marker:
			if len(c.Points) == 0 {
				continue
			}
			p := t.Apply(c.Points[0])
			outline := MarkerOutline(c.Icon, p, c.Size)
			r.fill(outline, c.Fill)
			r.outline(outline, c.Stroke, c.Width)
			if c.Label != "" {
				d := &font.Drawer{
					Dst:  img,
					Src:  image.NewUniform(c.Stroke),
					Face: basicfont.Face7x13,
					Dot:  fixed.P(int(p.X+c.Size/2+2), int(p.Y+4)),
				}
				d.DrawString(c.Label)
			}
		}
	}
	return img
}

// WritePNG rasterizes cmds and encodes the result as PNG.
func WritePNG(w io.Writer, cmds []Command, vp Viewport) error {
	return png.Encode(w, Rasterize(cmds, vp))
}

type raster struct {
	img *image.RGBA
	ras *vector.Rasterizer
}

func (r *raster) fill(pts []geo.Point2D, c Color) {
	if len(pts) < 3 || c.A == 0 {
		return
	}
	b := r.img.Bounds()
	r.ras.Reset(b.Dx(), b.Dy())
	r.ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.ras.LineTo(float32(p.X), float32(p.Y))
	}
	r.ras.ClosePath()
	r.ras.Draw(r.img, b, image.NewUniform(c), image.Point{})
}

func (r *raster) outline(pts []geo.Point2D, c Color, width float64) {
	if width <= 0 {
		return
	}
	for i := range pts {
		r.fill(StrokeOutline(pts[i], pts[(i+1)%len(pts)], width), c)
	}
}

func (r *raster) dashed(a, b geo.Point2D, c Color, width float64) {
	l := a.Distance(b)
	for s := 0.0; s < l; s += dashOn + dashOff {
		e := s + dashOn
		if e > l {
			e = l
		}
		r.fill(StrokeOutline(a.Lerp(b, s/l), a.Lerp(b, e/l), width), c)
	}
}
