package roads

import (
	"sort"

	"github.com/ChicagoDave/realmmap/pkg/realm"
)

// Connectivity returns, for each location touched by a road, the sorted IDs
// of the locations one road away. The relation is symmetric.
func Connectivity(roads []realm.Road) map[string][]string {
	conn := make(map[string]map[string]bool)
	link := func(a, b string) {
		if conn[a] == nil {
			conn[a] = make(map[string]bool)
		}
		conn[a][b] = true
	}
	for _, r := range roads {
		link(r.From, r.To)
		link(r.To, r.From)
	}

	// Convert sets to sorted slices for deterministic output.
	result := make(map[string][]string, len(conn))
	for id, neighbors := range conn {
		ids := make([]string, 0, len(neighbors))
		for nid := range neighbors {
			ids = append(ids, nid)
		}
		sort.Strings(ids)
		result[id] = ids
	}
	return result
}

// Components counts the connected groups of locations under the road
// network. Isolated locations count as their own group.
func Components(locations []realm.Location, roads []realm.Road) int {
	index := make(map[string]int, len(locations))
	for i, l := range locations {
		index[l.ID] = i
	}
	uf := newUnionFind(len(locations))
	groups := len(locations)
	for _, r := range roads {
		a, okA := index[r.From]
		b, okB := index[r.To]
		if okA && okB && uf.union(a, b) {
			groups--
		}
	}
	return groups
}
