package render

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/pixil98/go-testutil"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func testMap() *realm.Map {
	return &realm.Map{
		ID:   "render-test",
		Area: realm.Area{Width: 100, Height: 100},
		Provinces: []realm.Province{
			{ID: "prov_000", Boundary: geo.Rect(0, 0, 50, 100)},
			{ID: "prov_001", Boundary: geo.Rect(50, 0, 50, 100), Owner: "lord_1"},
		},
		Locations: []realm.Location{
			{ID: "loc_0000", Name: "Ash & Elm", Position: geo.Pt(25, 50), Kind: realm.KindCastle, ProvinceID: "prov_000"},
			{ID: "loc_0001", Position: geo.Pt(75, 50), Kind: realm.KindTown, ProvinceID: "prov_001"},
			{ID: "loc_0002", Position: geo.Pt(75, 90), Kind: realm.KindVillage, ProvinceID: "prov_001"},
		},
		Roads: []realm.Road{
			{ID: "road_0000", From: "loc_0000", To: "loc_0001", Waypoints: []geo.Point2D{geo.Pt(25, 50), geo.Pt(75, 50)}, Class: realm.RoadTradeRoute},
			{ID: "road_0001", From: "loc_0001", To: "loc_0002", Waypoints: []geo.Point2D{geo.Pt(75, 50), geo.Pt(75, 90)}, Class: realm.RoadPath},
		},
		Forests: []realm.ForestRegion{
			{ID: "forest_0000", ProvinceID: "prov_000", Points: []geo.Point2D{geo.Pt(10, 10), geo.Pt(20, 10)}, Density: 0.6},
		},
	}
}

func TestRenderOrderAndCounts(t *testing.T) {
	cmds := Render(testMap())
	testutil.AssertEqual(t, "commands", len(cmds), 2+1+2+3)

	last := LayerProvinces
	for i, c := range cmds {
		if c.Layer < last {
			t.Fatalf("command %d (%s) on layer %d after layer %d", i, c.EntityID, c.Layer, last)
		}
		last = c.Layer
	}

	want := []CommandKind{PolygonFill, PolygonFill, PointCluster, Polyline, Polyline, Marker, Marker, Marker}
	for i, k := range want {
		testutil.AssertEqual(t, "kind", cmds[i].Kind, k)
	}
}

func TestRenderStyles(t *testing.T) {
	cmds := Render(testMap())
	byID := make(map[string]Command)
	for _, c := range cmds {
		byID[c.EntityID] = c
	}

	trade, path := byID["road_0000"], byID["road_0001"]
	if trade.Width <= path.Width || trade.Dashed || !path.Dashed {
		t.Errorf("trade route should be wider and solid: trade=%+v path=%+v", trade, path)
	}

	castle := byID["loc_0000"]
	testutil.AssertEqual(t, "castle icon", castle.Icon, realm.IconKeep)
	testutil.AssertEqual(t, "castle label", castle.Label, "Ash & Elm")
	if castle.Size <= byID["loc_0002"].Size {
		t.Error("seat kinds should get larger markers than villages")
	}
	testutil.AssertEqual(t, "village label falls back to kind", byID["loc_0002"].Label, "Village")

	if byID["prov_001"].Fill == byID["prov_000"].Fill {
		t.Error("owned province should be tinted differently")
	}
}

func TestRenderNilMap(t *testing.T) {
	if Render(nil) != nil {
		t.Error("expected no commands for a nil map")
	}
}

func TestRenderDoesNotTransform(t *testing.T) {
	m := testMap()
	cmds := Render(m)
	testutil.AssertEqual(t, "marker position", cmds[5].Points[0], m.Locations[0].Position)
}

// --- Affine tests ---

func TestAffineCompose(t *testing.T) {
	tr := Scale(2).Then(Translate(10, -5))
	p := tr.Apply(geo.Pt(3, 4))
	if !approxEqual(p.X, 16, tolerance) || !approxEqual(p.Y, 3, tolerance) {
		t.Errorf("expected (16,3), got (%f,%f)", p.X, p.Y)
	}

	q := Translate(10, -5).Then(Scale(2)).Apply(geo.Pt(3, 4))
	if !approxEqual(q.X, 26, tolerance) || !approxEqual(q.Y, -2, tolerance) {
		t.Errorf("expected (26,-2), got (%f,%f)", q.X, q.Y)
	}

	id := Identity().Apply(geo.Pt(7, 8))
	testutil.AssertEqual(t, "identity", id, geo.Pt(7, 8))
}

func TestAffineInvert(t *testing.T) {
	tr := Scale(3).Then(Translate(12, 7))
	inv, ok := tr.Invert()
	if !ok {
		t.Fatal("expected invertible transform")
	}
	p := inv.Apply(tr.Apply(geo.Pt(-4, 9)))
	if !approxEqual(p.X, -4, tolerance) || !approxEqual(p.Y, 9, tolerance) {
		t.Errorf("round trip gave (%f,%f)", p.X, p.Y)
	}
	if _, ok := Scale(0).Invert(); ok {
		t.Error("zero scale should not invert")
	}
}

func TestAffineZoomAtKeepsPivot(t *testing.T) {
	tr := Scale(2).Then(Translate(5, 5))
	pivot := geo.Pt(100, 60)
	before, _ := tr.Invert()
	mapPt := before.Apply(pivot)

	zoomed := tr.ZoomAt(pivot, 1.5)
	got := zoomed.Apply(mapPt)
	if !approxEqual(got.X, pivot.X, tolerance) || !approxEqual(got.Y, pivot.Y, tolerance) {
		t.Errorf("pivot moved to (%f,%f)", got.X, got.Y)
	}
	if !approxEqual(zoomed.ScaleFactor(), 3, tolerance) {
		t.Errorf("expected scale 3, got %f", zoomed.ScaleFactor())
	}
}

func TestFitCentresArea(t *testing.T) {
	tr := Fit(1000, 500, 800, 800, 0)
	a := tr.Apply(geo.Pt(0, 0))
	b := tr.Apply(geo.Pt(1000, 500))
	if !approxEqual(a.X, 0, tolerance) || !approxEqual(b.X, 800, tolerance) {
		t.Errorf("width should span the viewport: %v %v", a, b)
	}
	if !approxEqual(a.Y, 200, tolerance) || !approxEqual(b.Y, 600, tolerance) {
		t.Errorf("height should be centred: %v %v", a, b)
	}
}

// --- Draw surface tests ---

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, Render(testMap()), FitViewport(100, 100, 400, 400)); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Fatal("output is not an svg document")
	}
	testutil.AssertEqual(t, "polygons", strings.Count(out, "<polygon"), 2+3)
	testutil.AssertEqual(t, "polylines", strings.Count(out, "<polyline"), 2)
	testutil.AssertEqual(t, "circles", strings.Count(out, "<circle"), 2)
	testutil.AssertEqual(t, "dashed", strings.Count(out, "stroke-dasharray"), 1)
	if !strings.Contains(out, "Ash &amp; Elm") {
		t.Error("labels should be escaped")
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	vp := FitViewport(100, 100, 120, 80)
	if err := WritePNG(&buf, Render(testMap()), vp); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	testutil.AssertEqual(t, "width", img.Bounds().Dx(), 120)
	testutil.AssertEqual(t, "height", img.Bounds().Dy(), 80)

	// The map is narrower than the viewport, so the left edge is background.
	r, g, b, _ := img.At(0, 40).RGBA()
	br, bg, bb, _ := vp.Background.RGBA()
	if r != br || g != bg || b != bb {
		t.Errorf("expected background at the left edge, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestMarkerOutlines(t *testing.T) {
	c := geo.Pt(10, 10)
	for _, k := range realm.Kinds() {
		pts := MarkerOutline(k.Traits().Icon, c, 10)
		if len(pts) < 3 {
			t.Errorf("%s marker has %d vertices", k, len(pts))
		}
		for _, p := range pts {
			if math.Abs(p.X-c.X) > 5+1e-9 || math.Abs(p.Y-c.Y) > 5+1e-9 {
				t.Errorf("%s marker vertex %v outside its box", k, p)
			}
		}
	}
	if StrokeOutline(c, c, 2) != nil {
		t.Error("zero-length stroke should have no outline")
	}
}
