package geo

import (
	"math"
	"sort"
)

// Grid is a uniform spatial hash over points. Cell size should be close to
// the query radius so a query only visits the 3x3 block around a point.
type Grid struct {
	cell  float64
	cells map[[2]int][]int
	pts   []Point2D
}

// NewGrid creates an empty grid with the given cell size.
func NewGrid(cell float64) *Grid {
	if cell <= 0 {
		cell = 1
	}
	return &Grid{cell: cell, cells: make(map[[2]int][]int)}
}

func (g *Grid) key(p Point2D) [2]int {
	return [2]int{int(math.Floor(p.X / g.cell)), int(math.Floor(p.Y / g.cell))}
}

// Insert adds p and returns its index.
func (g *Grid) Insert(p Point2D) int {
	idx := len(g.pts)
	g.pts = append(g.pts, p)
	k := g.key(p)
	g.cells[k] = append(g.cells[k], idx)
	return idx
}

// Len returns the number of inserted points.
func (g *Grid) Len() int {
	return len(g.pts)
}

// Point returns the i-th inserted point.
func (g *Grid) Point(i int) Point2D {
	return g.pts[i]
}

// Within returns the indices of all points strictly closer than r to p,
// in insertion order.
func (g *Grid) Within(p Point2D, r float64) []int {
	var out []int
	g.visit(p, r, func(i int) bool {
		out = append(out, i)
		return true
	})
	sort.Ints(out)
	return out
}

// AnyWithin reports whether any point lies strictly closer than r to p.
func (g *Grid) AnyWithin(p Point2D, r float64) bool {
	found := false
	g.visit(p, r, func(int) bool {
		found = true
		return false
	})
	return found
}

func (g *Grid) visit(p Point2D, r float64, fn func(int) bool) {
	span := int(math.Ceil(r / g.cell))
	k := g.key(p)
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for _, i := range g.cells[[2]int{k[0] + dx, k[1] + dy}] {
				if g.pts[i].Distance(p) < r {
					if !fn(i) {
						return
					}
				}
			}
		}
	}
}
