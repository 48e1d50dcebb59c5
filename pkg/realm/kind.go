package realm

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies what a location is. Behaviour differences between kinds
// come from their Traits, never from separate types.
type Kind string

const (
	KindVillage        Kind = "village"
	KindTown           Kind = "town"
	KindCity           Kind = "city"
	KindCastle         Kind = "castle"
	KindPalace         Kind = "palace"
	KindFortress       Kind = "fortress"
	KindCastellum      Kind = "castellum"
	KindFortifiedTower Kind = "fortified tower"
	KindManorHouse     Kind = "manor house"
	KindGrange         Kind = "grange"
	KindMonastery      Kind = "monastery"
	KindChurch         Kind = "church"
	KindChapel         Kind = "chapel"
	KindInn            Kind = "inn"
	KindWindmill       Kind = "windmill"
	KindWatermill      Kind = "watermill"
	KindSawmill        Kind = "sawmill"
	KindMine           Kind = "mine"
	KindQuarry         Kind = "quarry"
	KindWinery         Kind = "winery"
	KindBrewery        Kind = "brewery"
	KindHideout        Kind = "hideout"
	KindMilitaryPost   Kind = "military post"
	KindHuntingManor   Kind = "hunting manor"
	KindLandmark       Kind = "landmark"
)

// Marker shapes used by renderers.
const (
	IconDot     = "dot"
	IconHouse   = "house"
	IconTower   = "tower"
	IconKeep    = "keep"
	IconCross   = "cross"
	IconWheel   = "wheel"
	IconPick    = "pick"
	IconBarrel  = "barrel"
	IconCamp    = "camp"
	IconFlag    = "flag"
	IconStar    = "star"
	IconSquare  = "square"
	IconDiamond = "diamond"
)

// KindTraits is the data attached to a location kind.
type KindTraits struct {
	Plural   string
	Icon     string
	Weight   int  // relative frequency for random draws
	Seat     bool // may be the seat of a province
	TradeHub bool // roads between two hubs are trade routes

	MinPopulation, MaxPopulation int
	MinSoldiers, MaxSoldiers     int
}

// kindOrder fixes the iteration order for weighted draws.
var kindOrder = []Kind{
	KindVillage, KindTown, KindCity, KindCastle, KindPalace, KindFortress,
	KindCastellum, KindFortifiedTower, KindManorHouse, KindGrange,
	KindMonastery, KindChurch, KindChapel, KindInn, KindWindmill,
	KindWatermill, KindSawmill, KindMine, KindQuarry, KindWinery,
	KindBrewery, KindHideout, KindMilitaryPost, KindHuntingManor,
	KindLandmark,
}

var kindTraits = map[Kind]KindTraits{
	KindVillage:        {Plural: "villages", Icon: IconDot, Weight: 30, MinPopulation: 50, MaxPopulation: 400, MaxSoldiers: 10},
	KindTown:           {Plural: "towns", Icon: IconHouse, Weight: 8, Seat: true, TradeHub: true, MinPopulation: 500, MaxPopulation: 3000, MinSoldiers: 10, MaxSoldiers: 100},
	KindCity:           {Plural: "cities", Icon: IconStar, Weight: 2, Seat: true, TradeHub: true, MinPopulation: 3000, MaxPopulation: 20000, MinSoldiers: 50, MaxSoldiers: 500},
	KindCastle:         {Plural: "castles", Icon: IconKeep, Weight: 6, Seat: true, TradeHub: true, MinPopulation: 20, MaxPopulation: 150, MinSoldiers: 30, MaxSoldiers: 300},
	KindPalace:         {Plural: "palaces", Icon: IconKeep, Weight: 1, Seat: true, TradeHub: true, MinPopulation: 50, MaxPopulation: 300, MinSoldiers: 20, MaxSoldiers: 200},
	KindFortress:       {Plural: "fortresses", Icon: IconKeep, Weight: 2, Seat: true, TradeHub: true, MinPopulation: 50, MaxPopulation: 300, MinSoldiers: 100, MaxSoldiers: 1000},
	KindCastellum:      {Plural: "castella", Icon: IconTower, Weight: 3, Seat: true, MinPopulation: 10, MaxPopulation: 80, MinSoldiers: 10, MaxSoldiers: 80},
	KindFortifiedTower: {Plural: "fortified towers", Icon: IconTower, Weight: 3, MinPopulation: 2, MaxPopulation: 20, MinSoldiers: 5, MaxSoldiers: 30},
	KindManorHouse:     {Plural: "manor houses", Icon: IconHouse, Weight: 6, Seat: true, MinPopulation: 10, MaxPopulation: 60, MaxSoldiers: 10},
	KindGrange:         {Plural: "granges", Icon: IconSquare, Weight: 5, MinPopulation: 10, MaxPopulation: 50},
	KindMonastery:      {Plural: "monasteries", Icon: IconCross, Weight: 3, Seat: true, TradeHub: true, MinPopulation: 20, MaxPopulation: 200},
	KindChurch:         {Plural: "churches", Icon: IconCross, Weight: 5, MinPopulation: 1, MaxPopulation: 10},
	KindChapel:         {Plural: "chapels", Icon: IconCross, Weight: 4, MaxPopulation: 3},
	KindInn:            {Plural: "inns", Icon: IconHouse, Weight: 6, TradeHub: true, MinPopulation: 3, MaxPopulation: 15},
	KindWindmill:       {Plural: "windmills", Icon: IconWheel, Weight: 4, MinPopulation: 1, MaxPopulation: 5},
	KindWatermill:      {Plural: "watermills", Icon: IconWheel, Weight: 3, MinPopulation: 1, MaxPopulation: 5},
	KindSawmill:        {Plural: "sawmills", Icon: IconWheel, Weight: 3, MinPopulation: 3, MaxPopulation: 20},
	KindMine:           {Plural: "mines", Icon: IconPick, Weight: 3, TradeHub: true, MinPopulation: 20, MaxPopulation: 200, MaxSoldiers: 10},
	KindQuarry:         {Plural: "quarries", Icon: IconPick, Weight: 2, MinPopulation: 10, MaxPopulation: 80},
	KindWinery:         {Plural: "wineries", Icon: IconBarrel, Weight: 2, TradeHub: true, MinPopulation: 5, MaxPopulation: 40},
	KindBrewery:        {Plural: "breweries", Icon: IconBarrel, Weight: 2, TradeHub: true, MinPopulation: 5, MaxPopulation: 30},
	KindHideout:        {Plural: "hideouts", Icon: IconCamp, Weight: 2, MinPopulation: 5, MaxPopulation: 40, MinSoldiers: 5, MaxSoldiers: 40},
	KindMilitaryPost:   {Plural: "military posts", Icon: IconFlag, Weight: 3, MaxPopulation: 10, MinSoldiers: 10, MaxSoldiers: 60},
	KindHuntingManor:   {Plural: "hunting manors", Icon: IconHouse, Weight: 2, MinPopulation: 5, MaxPopulation: 30, MaxSoldiers: 10},
	KindLandmark:       {Plural: "landmarks", Icon: IconDiamond, Weight: 2},
}

// Kinds returns every known kind in catalogue order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// SeatKinds returns the kinds that may serve as a province seat.
func SeatKinds() []Kind {
	var out []Kind
	for _, k := range kindOrder {
		if kindTraits[k].Seat {
			out = append(out, k)
		}
	}
	return out
}

// Valid reports whether k is in the catalogue.
func (k Kind) Valid() bool {
	_, ok := kindTraits[k]
	return ok
}

// Traits returns the catalogue entry for k. Unknown kinds get a plain dot
// marker and no special roles.
func (k Kind) Traits() KindTraits {
	if t, ok := kindTraits[k]; ok {
		return t
	}
	return KindTraits{Plural: string(k) + "s", Icon: IconDot}
}

// Label returns the display name of the kind, e.g. "Manor House".
func (k Kind) Label() string {
	return titleCase(string(k))
}

// PluralLabel returns the display name for a count of n locations.
func (k Kind) PluralLabel(n int) string {
	if n == 1 {
		return k.Label()
	}
	return titleCase(k.Traits().Plural)
}

// titleCase builds a fresh Caser per call since Casers keep state.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
