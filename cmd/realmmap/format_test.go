package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

func TestPrintValidationReport(t *testing.T) {
	r := validation.NewReport()
	r.AddError(validation.Result{
		Level:       validation.LevelSchema,
		Severity:    validation.SeverityError,
		Message:     "width must be positive",
		Path:        "map.width",
		ActualValue: -1,
		Suggestions: []string{"use 1024"},
	})
	r.AddInfo(validation.Result{
		Level:    validation.LevelNetwork,
		Severity: validation.SeverityInfo,
		Code:     validation.CodeEmptyNetwork,
		Message:  "no roads",
	})

	var buf bytes.Buffer
	printValidationReport(&buf, r)
	out := buf.String()

	for _, want := range []string{
		"ERRORS (1):",
		"[schema] width must be positive",
		"-> map.width = -1",
		"* use 1024",
		"INFO (1):",
		"Result: INVALID",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummaryWrapsKinds(t *testing.T) {
	s := realm.Summary{ID: "abc", Seed: 7, Width: 100, Height: 50}
	for i := 0; i < 12; i++ {
		s.Kinds = append(s.Kinds, realm.KindCount{Kind: "village", Label: "villages", Count: i + 1})
	}

	var buf bytes.Buffer
	printSummary(&buf, s)

	for _, line := range strings.Split(buf.String(), "\n") {
		if len(line) > wrapWidth {
			t.Errorf("line exceeds %d columns: %q", wrapWidth, line)
		}
	}
	if !strings.Contains(buf.String(), "Map abc (seed 7, 100 x 50)") {
		t.Errorf("missing header:\n%s", buf.String())
	}
}
