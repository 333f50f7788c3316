package coverage

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/NicoJuicy/coyote/driver"
)

// Report renders a Snapshot alongside a run's iteration results for humans.
type Report struct {
	Snapshot Snapshot
	Results  []driver.IterationResult
}

// WriteTable renders a console summary table to w: one row per call site
// with its coverage fan-out and total visits across every operation, and a
// footer row of totals. When Results is non-empty it then renders a second
// table with one row per iteration: outcome, steps, duration, and RSS.
func (r Report) WriteTable(w io.Writer) {
	sites := r.Snapshot.DistinctCallSites()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Call Site", "Successors", "Total Visits"})
	for _, site := range sites {
		t.AppendRow(table.Row{site, len(r.Snapshot.CoverageMap[site]), r.visitsFor(site)})
	}
	t.AppendFooter(table.Row{"Total", r.Snapshot.EdgeCount(), r.Snapshot.TotalVisits()})
	t.Render()

	if len(r.Results) == 0 {
		return
	}

	it := table.NewWriter()
	it.SetOutputMirror(w)
	it.AppendHeader(table.Row{"Iteration", "Outcome", "Steps", "Duration", "RSS (bytes)"})
	for _, res := range r.Results {
		it.AppendRow(table.Row{res.Iteration, res.Outcome.String(), res.Steps, res.Duration, res.ResourceUsage.RSSBytes})
	}
	it.Render()
}

// visitsFor sums every operation's frequency counter for callSite.
func (r Report) visitsFor(callSite string) uint64 {
	var total uint64
	for _, freqs := range r.Snapshot.Frequencies {
		total += freqs[callSite]
	}
	return total
}

// yamlReport is the shape written by WriteYAML, kept separate from Report so
// driver.IterationResult's Err field (an interface) never has to implement
// yaml marshaling.
type yamlReport struct {
	CoverageMap map[string][]string `yaml:"coverage_map"`
	CallSites   []yamlCallSite      `yaml:"call_sites"`
	Iterations  []yamlIteration     `yaml:"iterations"`
}

type yamlCallSite struct {
	Site        string `yaml:"site"`
	Successors  int    `yaml:"successors"`
	TotalVisits uint64 `yaml:"total_visits"`
}

type yamlIteration struct {
	Iteration uint64 `yaml:"iteration"`
	Outcome   string `yaml:"outcome"`
	Steps     uint32 `yaml:"steps"`
	Error     string `yaml:"error,omitempty"`
}

// WriteYAML dumps the same information as WriteTable in a diffable form
// suitable for committing as a CI artifact.
func (r Report) WriteYAML(w io.Writer) error {
	sites := r.Snapshot.DistinctCallSites()
	sort.Strings(sites)

	out := yamlReport{CoverageMap: r.Snapshot.CoverageMap}
	for _, site := range sites {
		out.CallSites = append(out.CallSites, yamlCallSite{
			Site:        site,
			Successors:  len(r.Snapshot.CoverageMap[site]),
			TotalVisits: r.visitsFor(site),
		})
	}
	for _, res := range r.Results {
		entry := yamlIteration{Iteration: res.Iteration, Outcome: res.Outcome.String(), Steps: res.Steps}
		if res.Err != nil {
			entry.Error = fmt.Sprintf("%v", res.Err)
		}
		out.Iterations = append(out.Iterations, entry)
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}
