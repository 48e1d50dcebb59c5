package validation

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

// stageReport builds the report one generation stage would return.
func stageReport(level Level, findings ...Result) *Report {
	r := NewReport()
	for _, f := range findings {
		f.Level = level
		switch f.Severity {
		case SeverityError:
			r.AddError(f)
		case SeverityWarning:
			r.AddWarning(f)
		default:
			r.AddInfo(f)
		}
	}
	return r
}

func TestStageFindingsSetSeverity(t *testing.T) {
	r := NewReport()
	r.AddWarning(Result{Level: LevelPlacement, Code: CodePlacementExhausted, Message: "prov_002 placed 1 of 4", Path: "prov_002", Severity: SeverityError})
	r.AddInfo(Result{Level: LevelNetwork, Code: CodeEmptyNetwork, Message: "no roads for 0 locations"})

	testutil.AssertEqual(t, "valid", r.Valid, true)
	testutil.AssertEqual(t, "warning severity overrides caller", r.Warnings[0].Severity, SeverityWarning)
	testutil.AssertEqual(t, "info severity", r.Info[0].Severity, SeverityInfo)
	testutil.AssertEqual(t, "summary", r.Summary, "0 errors, 1 warnings, 1 info")

	r.AddError(Result{Level: LevelIntegrity, Message: "road road_0003 references loc_0099"})
	testutil.AssertEqual(t, "an integrity error invalidates", r.Valid, false)
	testutil.AssertEqual(t, "summary", r.Summary, "1 errors, 1 warnings, 1 info")
}

func TestMergeStageReports(t *testing.T) {
	tests := map[string]struct {
		stages    []*Report
		valid     bool
		summary   string
		exhausted int
	}{
		"clean run": {
			stages: []*Report{
				stageReport(LevelGeometry),
				stageReport(LevelPlacement),
				stageReport(LevelNetwork),
			},
			valid:   true,
			summary: "0 errors, 0 warnings, 0 info",
		},
		"exhausted placement stays valid": {
			stages: []*Report{
				stageReport(LevelGeometry, Result{Code: CodeGeometryRetry, Message: "retried with jitter"}),
				stageReport(LevelPlacement,
					Result{Severity: SeverityWarning, Code: CodePlacementExhausted, Path: "prov_000"},
					Result{Severity: SeverityWarning, Code: CodePlacementExhausted, Path: "prov_003"},
				),
				nil,
			},
			valid:     true,
			summary:   "0 errors, 2 warnings, 1 info",
			exhausted: 2,
		},
		"bad params invalidate the run": {
			stages: []*Report{
				stageReport(LevelSchema, Result{Severity: SeverityError, Path: "map.provinces", Message: "must be at least 1"}),
				stageReport(LevelPlacement, Result{Severity: SeverityWarning, Code: CodePlacementExhausted}),
			},
			valid:     false,
			summary:   "1 errors, 1 warnings, 0 info",
			exhausted: 1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			run := NewReport()
			for _, st := range tc.stages {
				run.Merge(st)
			}
			testutil.AssertEqual(t, "valid", run.Valid, tc.valid)
			testutil.AssertEqual(t, "summary", run.Summary, tc.summary)
			testutil.AssertEqual(t, "exhausted provinces", len(run.WithCode(CodePlacementExhausted)), tc.exhausted)
		})
	}
}

func TestMergeKeepsStageOrder(t *testing.T) {
	run := stageReport(LevelGeometry, Result{Code: CodeGeometryRetry, Message: "first"})
	run.Merge(stageReport(LevelForest, Result{Message: "second"}))

	testutil.AssertEqual(t, "findings", len(run.Info), 2)
	testutil.AssertEqual(t, "first level", run.Info[0].Level, LevelGeometry)
	testutil.AssertEqual(t, "second level", run.Info[1].Level, LevelForest)
}

func TestWithCode(t *testing.T) {
	r := NewReport()
	r.AddWarning(Result{Level: LevelPlacement, Code: CodePlacementExhausted, Message: "a"})
	r.AddInfo(Result{Level: LevelPlacement, Message: "b"})
	r.AddWarning(Result{Level: LevelPlacement, Code: CodePlacementExhausted, Message: "c"})

	got := r.WithCode(CodePlacementExhausted)
	if len(got) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(got))
	}
	if got[0].Message != "a" || got[1].Message != "c" {
		t.Errorf("unexpected findings order: %v", got)
	}
	if len(r.WithCode(CodeGeometryRetry)) != 0 {
		t.Error("expected no geometry retry findings")
	}
}
