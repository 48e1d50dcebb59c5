package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ChicagoDave/realmmap/pkg/lords"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

const wrapWidth = 76

func printValidationReport(w io.Writer, r *validation.Report) {
	printResults(w, "ERRORS", r.Errors)
	printResults(w, "WARNINGS", r.Warnings)

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResults(w io.Writer, heading string, results []validation.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d):\n", heading, len(results))
	for _, res := range results {
		tag := string(res.Level)
		if res.Code != "" {
			tag += "/" + res.Code
		}
		fmt.Fprintf(w, "  [%s] %s\n", tag, res.Message)
		if res.Path != "" {
			if res.ActualValue != nil {
				fmt.Fprintf(w, "    -> %s = %v\n", res.Path, res.ActualValue)
			} else {
				fmt.Fprintf(w, "    -> %s\n", res.Path)
			}
		}
		if res.Expected != "" {
			fmt.Fprintf(w, "    expected: %s\n", res.Expected)
		}
		if res.ConflictWith != "" {
			fmt.Fprintf(w, "    conflicts with: %s\n", res.ConflictWith)
		}
		for _, s := range res.Suggestions {
			fmt.Fprintf(w, "    * %s\n", s)
		}
	}
	fmt.Fprintln(w)
}

func printSummary(w io.Writer, s realm.Summary) {
	fmt.Fprintf(w, "Map %s (seed %d, %.0f x %.0f)\n", s.ID, s.Seed, s.Width, s.Height)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "  %-16s %8d\n", "Provinces", s.Provinces)
	fmt.Fprintf(w, "  %-16s %8d\n", "Locations", s.Locations)
	fmt.Fprintf(w, "  %-16s %8d (%d trade routes, %.0f units)\n", "Roads", s.Roads, s.TradeRoutes, s.RoadLength)
	fmt.Fprintf(w, "  %-16s %8d (%d trees)\n", "Forests", s.Forests, s.ForestPoints)
	fmt.Fprintf(w, "  %-16s %8d\n", "Population", s.Population)
	fmt.Fprintf(w, "  %-16s %8d\n", "Soldiers", s.Soldiers)

	if len(s.Kinds) == 0 {
		return
	}
	parts := make([]string, 0, len(s.Kinds))
	for _, k := range s.Kinds {
		parts = append(parts, fmt.Sprintf("%d %s", k.Count, k.Label))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, indent.String(wordwrap.String(strings.Join(parts, ", "), wrapWidth-2), 2))
}

// printLords lists the roster. With a map, fiefs show their location
// names and whether they exist on it.
func printLords(w io.Writer, r *lords.Roster, m *realm.Map) {
	for _, l := range r.Lords() {
		fmt.Fprintf(w, "%s [%s]\n", l.TitleAndName(), l.Faction)
		if l.Liege != "" {
			if liege, err := r.Lord(l.Liege); err == nil {
				fmt.Fprintf(w, "  vassal of %s\n", liege.TitleAndName())
			}
		}

		if fiefs := r.LocationsOwnedBy(l.ID); len(fiefs) > 0 {
			names := make([]string, 0, len(fiefs))
			for _, id := range fiefs {
				names = append(names, fiefName(m, id))
			}
			fmt.Fprintln(w, indent.String(wordwrap.String("fiefs: "+strings.Join(names, ", "), wrapWidth-2), 2))
		}

		if vassals := r.Vassals(l.ID); len(vassals) > 0 {
			names := make([]string, 0, len(vassals))
			for _, v := range vassals {
				names = append(names, v.TitleAndName())
			}
			fmt.Fprintln(w, indent.String(wordwrap.String("vassals: "+strings.Join(names, ", "), wrapWidth-2), 2))
		}
	}
}

func fiefName(m *realm.Map, id string) string {
	if m == nil {
		return id
	}
	loc, ok := m.Location(id)
	if !ok {
		return id + " (not on map)"
	}
	return loc.DisplayName()
}
