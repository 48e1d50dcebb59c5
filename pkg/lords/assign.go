package lords

import (
	"log/slog"
	"strings"

	"github.com/ChicagoDave/realmmap/pkg/realm"
)

// Assign returns a copy of m with owners set from the roster. Fiefs and
// provinces the map does not contain are returned in missing instead of
// failing, since a roster usually outlives any single map.
func Assign(m *realm.Map, r *Roster) (*realm.Map, []string, error) {
	out := m
	var missing []string
	for _, l := range r.Lords() {
		for _, fief := range l.Fiefs {
			if _, ok := out.Location(fief); !ok {
				missing = append(missing, fief)
				continue
			}
			next, err := out.WithLocationOwner(fief, l.ID)
			if err != nil {
				return nil, nil, err
			}
			out = next
		}
		for _, prov := range l.Provinces {
			if _, ok := out.Province(prov); !ok {
				missing = append(missing, prov)
				continue
			}
			next, err := out.WithProvinceOwner(prov, l.ID)
			if err != nil {
				return nil, nil, err
			}
			out = next
		}
	}
	return out, missing, nil
}

// Owners returns a map finisher that applies r to each new map. A nil
// roster leaves maps as they are. Holdings the map lacks are logged.
func Owners(r *Roster, log *slog.Logger) func(*realm.Map) (*realm.Map, error) {
	if log == nil {
		log = slog.Default()
	}
	return func(m *realm.Map) (*realm.Map, error) {
		if r == nil || m == nil {
			return m, nil
		}
		out, missing, err := Assign(m, r)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			log.Warn("roster holdings not on this map", "ids", strings.Join(missing, ","))
		}
		return out, nil
	}
}
