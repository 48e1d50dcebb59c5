package geo

import "math"

// ClipToConvex clips the subject polygon to a convex clip polygon using
// the Sutherland-Hodgman algorithm. The clipper must be counterclockwise.
// Returns the intersection polygon.
func ClipToConvex(subject, clipper Polygon) Polygon {
	if subject.IsEmpty() || clipper.IsEmpty() {
		return Polygon{}
	}
	output := make([]Point2D, len(subject.Vertices))
	copy(output, subject.Vertices)

	clipN := len(clipper.Vertices)
	for i := 0; i < clipN; i++ {
		if len(output) == 0 {
			return Polygon{}
		}
		edgeStart := clipper.Vertices[i]
		edgeEnd := clipper.Vertices[(i+1)%clipN]
		output = clipEdge(output, edgeStart, edgeEnd)
	}
	if len(output) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: output}
}

// clipToHalfPlane clips a polygon to the left side of the directed line from a to b.
func clipToHalfPlane(poly Polygon, a, b Point2D) Polygon {
	if poly.IsEmpty() {
		return Polygon{}
	}
	output := dedupe(clipEdge(poly.Vertices, a, b))
	if len(output) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: output}
}

// clipEdge runs one Sutherland-Hodgman pass of input against the directed
// edge from edgeStart to edgeEnd.
func clipEdge(input []Point2D, edgeStart, edgeEnd Point2D) []Point2D {
	output := make([]Point2D, 0, len(input)+1)
	for j := 0; j < len(input); j++ {
		current := input[j]
		next := input[(j+1)%len(input)]
		curInside := isInsideEdge(current, edgeStart, edgeEnd)
		nextInside := isInsideEdge(next, edgeStart, edgeEnd)

		if curInside && nextInside {
			output = append(output, next)
		} else if curInside && !nextInside {
			if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
				output = append(output, ix)
			}
		} else if !curInside && nextInside {
			if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
				output = append(output, ix)
			}
			output = append(output, next)
		}
	}
	return output
}

// dedupe drops consecutive vertices closer than boundaryEpsilon, including
// the wrap-around pair.
func dedupe(pts []Point2D) []Point2D {
	out := make([]Point2D, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Distance(p) <= boundaryEpsilon {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0].Distance(out[len(out)-1]) <= boundaryEpsilon {
		out = out[:len(out)-1]
	}
	return out
}

// isInsideEdge returns true if the point is on the inside (left) of the
// directed edge from edgeStart to edgeEnd.
func isInsideEdge(p, edgeStart, edgeEnd Point2D) bool {
	return (edgeEnd.X-edgeStart.X)*(p.Y-edgeStart.Y)-
		(edgeEnd.Y-edgeStart.Y)*(p.X-edgeStart.X) >= 0
}

// lineIntersection returns the intersection point of lines (p1→p2) and (p3→p4).
func lineIntersection(p1, p2, p3, p4 Point2D) (Point2D, bool) {
	d := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(d) < 1e-12 {
		return Point2D{}, false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / d
	return Point2D{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}
