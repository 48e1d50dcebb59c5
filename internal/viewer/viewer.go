// Package viewer is the interactive ebiten window over a published map.
// It draws render commands through a pan and zoom camera, and a key press
// regenerates the map.
package viewer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ChicagoDave/realmmap/pkg/generate"
	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/render"
)

const (
	panStep   = 12.0
	zoomStep  = 1.1
	hoverSize = 10.0
)

// Options configure a viewer. Save is called on S and may be nil. Finish,
// when set, is applied to every regenerated map before it is shown.
type Options struct {
	Width, Height int
	Params        realm.Params
	Publisher     *generate.Publisher
	Finish        generate.Finisher
	Save          func(ctx context.Context, m *realm.Map) error
	Logger        *slog.Logger
}

// Game implements ebiten.Game.
type Game struct {
	opts Options
	log  *slog.Logger

	m      *realm.Map
	cmds   []render.Command
	camera render.Camera
	screen image.Point

	dragging bool
	dragFrom geo.Point2D
	hover    string
	status   string

	white *ebiten.Image
}

// New builds a viewer showing the publisher's current map.
func New(opts Options) *Game {
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 768
	}
	if opts.Publisher == nil {
		opts.Publisher = generate.NewPublisher(nil)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	g := &Game{opts: opts, log: log, screen: image.Pt(opts.Width, opts.Height)}
	g.camera = render.NewCamera(opts.Params.Width, opts.Params.Height, opts.Width, opts.Height)
	g.show(opts.Publisher.Current())
	return g
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	g := New(opts)
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowTitle("Realm Map")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

// show swaps in a new map and refits the camera to its area.
func (g *Game) show(m *realm.Map) {
	g.m = m
	g.cmds = render.Render(m)
	g.hover = ""
	if m != nil {
		g.camera.Refit(m.Area.Width, m.Area.Height, g.screen.X, g.screen.Y)
		g.status = fmt.Sprintf("seed %d: %d provinces, %d locations, %d roads",
			m.Seed, len(m.Provinces), len(m.Locations), len(m.Roads))
	} else {
		g.status = "no map: press R to generate"
	}
}

// regenerate builds the next map. A failure keeps the current one.
func (g *Game) regenerate() {
	params := g.opts.Params
	if g.m != nil {
		params.Seed = g.m.Seed + 1
	}
	res, err := g.opts.Publisher.Regenerate(context.Background(), params, g.opts.Finish)
	if err != nil {
		g.log.Warn("regeneration failed", "seed", params.Seed, "error", err)
		g.status = "regeneration failed: " + err.Error()
		return
	}
	g.show(res.Map)
}

func (g *Game) save() {
	if g.m == nil {
		return
	}
	if g.opts.Save == nil {
		g.status = "read-only: saving is disabled"
		return
	}
	if err := g.opts.Save(context.Background(), g.m); err != nil {
		g.log.Warn("saving map", "error", err)
		g.status = "save failed: " + err.Error()
		return
	}
	g.status = "saved " + g.m.ID
}

// Update handles input.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.regenerate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.save()
	}
	if inpututil.IsKeyJustPressed(ebiten.Key0) || inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.camera.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camera.Pan(0, panStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camera.Pan(0, -panStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camera.Pan(panStep, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camera.Pan(-panStep, 0)
	}

	cx, cy := ebiten.CursorPosition()
	cursor := geo.Pt(float64(cx), float64(cy))
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camera.ZoomAt(cursor, math.Pow(zoomStep, wy))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.camera.ZoomAt(geo.Pt(float64(g.screen.X)/2, float64(g.screen.Y)/2), zoomStep*zoomStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.camera.ZoomAt(geo.Pt(float64(g.screen.X)/2, float64(g.screen.Y)/2), 1/(zoomStep*zoomStep))
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.dragging = true
		g.dragFrom = cursor
	case g.dragging && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		d := cursor.Sub(g.dragFrom)
		g.camera.Pan(d.X, d.Y)
		g.dragFrom = cursor
	default:
		g.dragging = false
	}

	g.hover = hoverLabel(g.m, g.camera, cursor)
	return nil
}

// hoverLabel describes the location under the cursor, if any.
func hoverLabel(m *realm.Map, cam render.Camera, cursor geo.Point2D) string {
	l, ok := render.PickLocation(m, cam.Transform(), cursor, hoverSize)
	if !ok {
		return ""
	}
	label := fmt.Sprintf("%s (%s) in %s", l.DisplayName(), l.Kind.Label(), l.ProvinceID)
	if l.Owner != "" {
		label += ", held by " + l.Owner
	}
	return label
}

// Draw paints the map and the status line.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0xf4, 0xec, 0xd8, 0xff})
	if g.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		g.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}

	t := g.camera.Transform()
	for _, c := range g.cmds {
		switch c.Kind {
		case render.PolygonFill:
			pts := t.ApplyAll(c.Points)
			g.fill(screen, pts, c.Fill)
			strokeRing(screen, pts, c.Width, c.Stroke)
		case render.PointCluster:
			for _, p := range t.ApplyAll(c.Points) {
				vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(c.Width), c.Fill, true)
			}
		case render.Polyline:
			pts := t.ApplyAll(c.Points)
			for i := 0; i+1 < len(pts); i++ {
				if c.Dashed {
					dashedLine(screen, pts[i], pts[i+1], c.Width, c.Stroke)
				} else {
					vector.StrokeLine(screen, float32(pts[i].X), float32(pts[i].Y), float32(pts[i+1].X), float32(pts[i+1].Y), float32(c.Width), c.Stroke, true)
				}
			}
		case render.Marker:
			if len(c.Points) == 0 {
				continue
			}
			p := t.Apply(c.Points[0])
			outline := render.MarkerOutline(c.Icon, p, c.Size)
			g.fill(screen, outline, c.Fill)
			strokeRing(screen, outline, c.Width, c.Stroke)
			if c.Label != "" && g.camera.Zoom() >= 1.5 {
				ebitenutil.DebugPrintAt(screen, c.Label, int(p.X+c.Size/2+2), int(p.Y-8))
			}
		}
	}

	ebitenutil.DebugPrintAt(screen, g.status, 8, 4)
	if g.hover != "" {
		ebitenutil.DebugPrintAt(screen, g.hover, 8, 20)
	}
	ebitenutil.DebugPrintAt(screen, "R regenerate  S save  drag/arrows pan  wheel zoom  0 reset  Esc quit", 8, g.screen.Y-18)
}

// Layout follows the window size and refits the camera on resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.screen.X || outsideHeight != g.screen.Y {
		g.screen = image.Pt(outsideWidth, outsideHeight)
		if g.m != nil {
			g.camera.Refit(g.m.Area.Width, g.m.Area.Height, outsideWidth, outsideHeight)
		}
	}
	return outsideWidth, outsideHeight
}

// fill draws a polygon with the even-odd rule. Vertex colors are straight
// alpha.
func (g *Game) fill(dst *ebiten.Image, pts []geo.Point2D, c render.Color) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, gr, b, a := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, gr, b, a
	}
	dst.DrawTriangles(vs, is, g.white, &ebiten.DrawTrianglesOptions{FillRule: ebiten.EvenOdd, AntiAlias: true})
}

func strokeRing(dst *ebiten.Image, pts []geo.Point2D, width float64, c render.Color) {
	if width <= 0 || len(pts) < 2 {
		return
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), c, true)
	}
}

func dashedLine(dst *ebiten.Image, a, b geo.Point2D, width float64, c render.Color) {
	const dash, gap = 6.0, 4.0
	length := a.Distance(b)
	for s := 0.0; s < length; s += dash + gap {
		e := math.Min(s+dash, length)
		p, q := a.Lerp(b, s/length), a.Lerp(b, e/length)
		vector.StrokeLine(dst, float32(p.X), float32(p.Y), float32(q.X), float32(q.Y), float32(width), c, true)
	}
}
