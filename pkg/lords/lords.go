// Package lords is the directory of noblemen who may own provinces and
// locations. Maps only carry lord IDs; this package resolves them.
package lords

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	goerrors "github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownLord is returned for an ID that is not in the directory.
var ErrUnknownLord = errors.New("unknown lord")

// Lord is one nobleman. Fiefs are location IDs held directly; Provinces
// are province IDs the lord rules.
type Lord struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Title     Title    `yaml:"title" json:"title"`
	Faction   Faction  `yaml:"faction" json:"faction"`
	Liege     string   `yaml:"liege,omitempty" json:"liege,omitempty"`
	Fiefs     []string `yaml:"fiefs,omitempty" json:"fiefs,omitempty"`
	Provinces []string `yaml:"provinces,omitempty" json:"provinces,omitempty"`
}

// TitleAndName returns e.g. "Count Giovanni di Firenze".
func (l Lord) TitleAndName() string {
	if l.Title == "" {
		return l.Name
	}
	return l.Title.Label() + " " + l.Name
}

// Directory resolves lords and their holdings.
type Directory interface {
	Lord(id string) (Lord, error)
	LocationsOwnedBy(lordID string) []string
}

// Roster is a Directory loaded from YAML.
type Roster struct {
	lords   map[string]Lord
	vassals map[string][]string
	order   []string
}

var _ Directory = (*Roster)(nil)

type rosterFile struct {
	Lords []Lord `yaml:"lords"`
}

// LoadRoster reads a roster YAML file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}
	return ParseRoster(data)
}

// ParseRoster parses roster YAML.
func ParseRoster(data []byte) (*Roster, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roster YAML: %w", err)
	}
	return NewRoster(f.Lords)
}

// NewRoster builds a roster and checks it: unique IDs, known titles and
// factions, existing lieges that outrank their vassals, no liege cycles,
// fief counts within the title limit and no fief held twice.
func NewRoster(list []Lord) (*Roster, error) {
	r := &Roster{
		lords:   make(map[string]Lord, len(list)),
		vassals: map[string][]string{},
	}
	el := goerrors.NewErrorList()

	for _, l := range list {
		if l.ID == "" {
			el.Add(fmt.Errorf("lord %q: id is required", l.Name))
			continue
		}
		if _, dup := r.lords[l.ID]; dup {
			el.Add(fmt.Errorf("lord %s: duplicate id", l.ID))
			continue
		}
		if _, err := parseTitle(string(l.Title)); err != nil {
			el.Add(fmt.Errorf("lord %s: %w", l.ID, err))
		}
		if l.Faction == "" {
			l.Faction = FactionNeutral
		}
		if !l.Faction.Valid() {
			el.Add(fmt.Errorf("lord %s: unknown faction %q", l.ID, l.Faction))
		}
		if limit := l.Title.FiefLimit(); l.Title.Valid() && len(l.Fiefs) > limit.Max {
			el.Add(fmt.Errorf("lord %s: a %s may hold at most %d fiefs, has %d", l.ID, l.Title, limit.Max, len(l.Fiefs)))
		}
		r.lords[l.ID] = l
		r.order = append(r.order, l.ID)
	}

	holders := map[string]string{}
	for _, id := range r.order {
		l := r.lords[id]
		for _, fief := range l.Fiefs {
			if prev, taken := holders[fief]; taken {
				el.Add(fmt.Errorf("lord %s: fief %s already held by %s", id, fief, prev))
				continue
			}
			holders[fief] = id
		}
		if l.Liege == "" {
			continue
		}
		liege, ok := r.lords[l.Liege]
		if !ok {
			el.Add(fmt.Errorf("lord %s: liege %s: %w", id, l.Liege, ErrUnknownLord))
			continue
		}
		if !liege.Title.Outranks(l.Title) {
			el.Add(fmt.Errorf("lord %s: liege %s (%s) does not outrank %s", id, liege.ID, liege.Title, l.Title))
		}
		r.vassals[l.Liege] = append(r.vassals[l.Liege], id)
	}

	for _, id := range r.order {
		if r.hasCycle(id) {
			el.Add(fmt.Errorf("lord %s: liege chain loops", id))
		}
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Roster) hasCycle(id string) bool {
	seen := map[string]bool{id: true}
	for cur := r.lords[id].Liege; cur != ""; cur = r.lords[cur].Liege {
		if seen[cur] {
			return true
		}
		seen[cur] = true
	}
	return false
}

// Lord returns the lord with the given ID.
func (r *Roster) Lord(id string) (Lord, error) {
	l, ok := r.lords[id]
	if !ok {
		return Lord{}, fmt.Errorf("lord %s: %w", id, ErrUnknownLord)
	}
	return l, nil
}

// Lords returns every lord in file order.
func (r *Roster) Lords() []Lord {
	out := make([]Lord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.lords[id])
	}
	return out
}

// LocationsOwnedBy returns the fiefs held directly by lordID, sorted.
func (r *Roster) LocationsOwnedBy(lordID string) []string {
	l, ok := r.lords[lordID]
	if !ok || len(l.Fiefs) == 0 {
		return nil
	}
	out := slices.Clone(l.Fiefs)
	sort.Strings(out)
	return out
}

// Vassals returns the direct vassals of lordID in file order.
func (r *Roster) Vassals(lordID string) []Lord {
	ids := r.vassals[lordID]
	if len(ids) == 0 {
		return nil
	}
	out := make([]Lord, len(ids))
	for i, id := range ids {
		out[i] = r.lords[id]
	}
	return out
}

// FullDomain returns the fiefs of lordID and, recursively, of all vassals.
func (r *Roster) FullDomain(lordID string) []string {
	set := map[string]struct{}{}
	var walk func(id string)
	walk = func(id string) {
		for _, fief := range r.lords[id].Fiefs {
			set[fief] = struct{}{}
		}
		for _, v := range r.vassals[id] {
			walk(v)
		}
	}
	walk(lordID)
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for fief := range set {
		out = append(out, fief)
	}
	sort.Strings(out)
	return out
}

// ByFaction groups lord IDs by faction.
func (r *Roster) ByFaction() map[Faction][]string {
	out := map[Faction][]string{}
	for _, id := range r.order {
		f := r.lords[id].Faction
		out[f] = append(out[f], id)
	}
	return out
}

// Owner returns the lord holding locationID directly.
func (r *Roster) Owner(locationID string) (Lord, bool) {
	for _, id := range r.order {
		if slices.Contains(r.lords[id].Fiefs, locationID) {
			return r.lords[id], true
		}
	}
	return Lord{}, false
}
