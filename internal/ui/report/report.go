// # internal/ui/report/report.go
package report

import (
	"time"

	"ranger/internal/core/workspace"
	"ranger/internal/engine/conflicts"
	"ranger/internal/engine/ranges"
)

// Data is one analysis pass shaped for rendering. Every generator in this
// package reads from it and never mutates it.
type Data struct {
	PassID      string
	GeneratedAt time.Time

	Projects      []workspace.Project
	GapsByProject map[string][]ranges.Gap
	NextByProject map[string]int // no entry means no identifier is free

	// Shared identifier space mode: the merged ranges of every project and
	// the gaps over the union. Nil when the mode is off.
	SharedRanges []ranges.Range
	SharedGaps   []ranges.Gap

	ObjectConflicts []conflicts.Conflict
	FieldConflicts  []conflicts.ChildConflict
	ValueConflicts  []conflicts.ChildConflict
}

// TotalFree sums the free identifiers over every project's gap list.
func (d Data) TotalFree() int {
	total := 0
	for _, gaps := range d.GapsByProject {
		for _, g := range gaps {
			total += g.Count()
		}
	}
	return total
}

// TotalGaps counts gaps across all projects.
func (d Data) TotalGaps() int {
	total := 0
	for _, gaps := range d.GapsByProject {
		total += len(gaps)
	}
	return total
}
