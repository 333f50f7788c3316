package coverage

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/NicoJuicy/coyote/driver"
)

func sampleReport() Report {
	return Report{
		Snapshot: Snapshot{
			CoverageMap: map[string][]string{"Test": {"root:write"}, "root:write": {"child:read"}},
			Frequencies: map[uint64]map[string]uint64{
				1: {"Test": 1, "root:write": 1},
				2: {"child:read": 1},
			},
		},
		Results: []driver.IterationResult{
			{Iteration: 0, Outcome: driver.OutcomeSuccess, Steps: 4, Duration: 2 * time.Millisecond},
		},
	}
}

func TestReportWriteYAMLGolden(t *testing.T) {
	g := goldie.New(t)
	var buf bytes.Buffer
	if err := sampleReport().WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	g.Assert(t, "report_yaml", buf.Bytes())
}

func TestReportWriteTableProducesOutput(t *testing.T) {
	var buf bytes.Buffer
	sampleReport().WriteTable(&buf)
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty table output")
	}
}

func TestReportVisitsForSumsAcrossOperations(t *testing.T) {
	r := sampleReport()
	if got := r.visitsFor("Test"); got != 1 {
		t.Fatalf("expected 1 visit for Test, got %d", got)
	}
}
