package placement

import (
	"fmt"
	"math/rand/v2"

	"github.com/ChicagoDave/realmmap/pkg/realm"
)

var (
	namePrefixes = []string{
		"Ash", "Oak", "Wolf", "Raven", "Stone", "Black", "White", "Green",
		"Elm", "Thorn", "Iron", "Gold", "Red", "Hart", "Mill", "Brack",
		"Cold", "Fair", "Hollow", "King", "Marsh", "North", "South", "Wyn",
	}
	nameSuffixes = []string{
		"ford", "bury", "wick", "ham", "stead", "dale", "mere", "holm",
		"ton", "field", "gate", "moor", "crag", "wood", "by", "cliff",
	}
)

// namer hands out place names that are unique within one map.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	return &namer{used: make(map[string]bool)}
}

// next returns a fresh name. Landmarks and other unnamed kinds keep an
// empty name and display their kind label.
func (n *namer) next(rng *rand.Rand, kind realm.Kind) string {
	if kind == realm.KindLandmark {
		return ""
	}
	base := namePrefixes[rng.IntN(len(namePrefixes))] + nameSuffixes[rng.IntN(len(nameSuffixes))]
	name := base
	if n.used[name] {
		name = base + " " + kind.Label()
	}
	for i := 2; n.used[name]; i++ {
		name = fmt.Sprintf("%s %d", base, i)
	}
	n.used[name] = true
	return name
}
