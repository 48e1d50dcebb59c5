package lords

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title is a noble rank.
type Title string

const (
	TitleClient    Title = "client"
	TitleChevalier Title = "chevalier"
	TitleBaronet   Title = "baronet"
	TitleBaron     Title = "baron"
	TitleVicecount Title = "vicecount"
	TitleCount     Title = "count"
	TitleDuke      Title = "duke"
	TitlePrince    Title = "prince"
	TitleKing      Title = "king"
)

// titleOrder lists titles from lowest to highest.
var titleOrder = []Title{
	TitleClient, TitleChevalier, TitleBaronet, TitleBaron, TitleVicecount,
	TitleCount, TitleDuke, TitlePrince, TitleKing,
}

// FiefLimit is the allowed number of fiefs for a title.
type FiefLimit struct {
	Min int
	Max int
}

var fiefLimits = map[Title]FiefLimit{
	TitleClient:    {0, 0},
	TitleChevalier: {1, 5},
	TitleBaronet:   {2, 8},
	TitleBaron:     {3, 10},
	TitleVicecount: {4, 12},
	TitleCount:     {5, 15},
	TitleDuke:      {6, 18},
	TitlePrince:    {8, 24},
	TitleKing:      {10, 30},
}

// Titles returns every title from lowest to highest.
func Titles() []Title {
	out := make([]Title, len(titleOrder))
	copy(out, titleOrder)
	return out
}

// Rank returns the position of t in the hierarchy, or -1 if unknown.
func (t Title) Rank() int {
	for i, o := range titleOrder {
		if o == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t is a known title.
func (t Title) Valid() bool {
	return t.Rank() >= 0
}

// Outranks reports whether t is strictly higher than other.
func (t Title) Outranks(other Title) bool {
	return t.Rank() > other.Rank()
}

// FiefLimit returns the fief range allowed for t.
func (t Title) FiefLimit() FiefLimit {
	return fiefLimits[t]
}

// Label is the capitalized title.
func (t Title) Label() string {
	return cases.Title(language.English).String(string(t))
}

// Faction is a political allegiance.
type Faction string

const (
	FactionRoyalists    Faction = "royalists"
	FactionNationalists Faction = "nationalists"
	FactionNeutral      Faction = "neutral"
)

// Valid reports whether f is a known faction.
func (f Faction) Valid() bool {
	switch f {
	case FactionRoyalists, FactionNationalists, FactionNeutral:
		return true
	}
	return false
}

func parseTitle(s string) (Title, error) {
	t := Title(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown title %q", s)
	}
	return t, nil
}
