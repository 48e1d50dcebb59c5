// Package roads connects locations with a minimum spanning road network.
package roads

import (
	"fmt"
	"sort"

	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

// Options control edge weighting.
type Options struct {
	// CrossingPenalty multiplies the length of edges whose endpoints lie in
	// different provinces.
	CrossingPenalty float64
}

// OptionsFromParams extracts the road options from map parameters.
func OptionsFromParams(p realm.Params) Options {
	return Options{CrossingPenalty: p.CrossingPenalty}
}

type edge struct {
	a, b   int // indices into locations, a has the lower ID
	weight float64
}

// Build connects the locations with a minimum spanning tree over the
// complete graph (Kruskal). Edge weight is the Euclidean distance, scaled
// by opts.CrossingPenalty when the endpoints are in different provinces.
// Edges are ordered by weight, then by the (lower ID, higher ID) pair, so
// equal inputs always give the same network. n locations yield n-1 roads.
func Build(locations []realm.Location, opts Options) ([]realm.Road, *validation.Report) {
	report := validation.NewReport()
	n := len(locations)
	if n <= 1 {
		report.AddInfo(validation.Result{
			Level:   validation.LevelNetwork,
			Code:    validation.CodeEmptyNetwork,
			Message: fmt.Sprintf("%d locations; no roads to build", n),
		})
		return nil, report
	}

	penalty := opts.CrossingPenalty
	if penalty <= 0 {
		penalty = 1
	}

	edges := make([]edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := i, j
			if locations[b].ID < locations[a].ID {
				a, b = b, a
			}
			w := locations[a].Position.Distance(locations[b].Position)
			if locations[a].ProvinceID != locations[b].ProvinceID {
				w *= penalty
			}
			edges = append(edges, edge{a: a, b: b, weight: w})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		ei, ej := edges[i], edges[j]
		if ei.weight != ej.weight {
			return ei.weight < ej.weight
		}
		if locations[ei.a].ID != locations[ej.a].ID {
			return locations[ei.a].ID < locations[ej.a].ID
		}
		return locations[ei.b].ID < locations[ej.b].ID
	})

	uf := newUnionFind(n)
	roads := make([]realm.Road, 0, n-1)
	trade := 0
	for _, e := range edges {
		if !uf.union(e.a, e.b) {
			continue
		}
		road := newRoad(len(roads), locations[e.a], locations[e.b])
		if road.Class == realm.RoadTradeRoute {
			trade++
		}
		roads = append(roads, road)
		if len(roads) == n-1 {
			break
		}
	}

	report.AddInfo(validation.Result{
		Level:   validation.LevelNetwork,
		Message: fmt.Sprintf("built %d roads (%d trade routes) connecting %d locations", len(roads), trade, n),
	})
	return roads, report
}

func newRoad(idx int, from, to realm.Location) realm.Road {
	class := realm.RoadPath
	if from.Kind.Traits().TradeHub && to.Kind.Traits().TradeHub {
		class = realm.RoadTradeRoute
	}
	return realm.Road{
		ID:        fmt.Sprintf("road_%04d", idx),
		From:      from.ID,
		To:        to.ID,
		Waypoints: []geo.Point2D{from.Position, to.Position},
		Class:     class,
		Length:    from.Position.Distance(to.Position),
	}
}

// unionFind is a disjoint-set forest with path compression and union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union merges the sets of a and b and reports whether they were distinct.
func (u *unionFind) union(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
	return true
}
