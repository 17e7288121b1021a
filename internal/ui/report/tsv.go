// # internal/ui/report/tsv.go
package report

import (
	"fmt"
	"strings"

	"ranger/internal/shared/util"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

// Generate emits one row per gap, in project order, so the output can be
// pasted straight into a spreadsheet or consumed by one-liner scripts.
func (t *TSVGenerator) Generate(data Data) (string, error) {
	var buf strings.Builder

	buf.WriteString("Project\tStart\tEnd\tCount\n")
	for _, project := range data.Projects {
		for _, g := range data.GapsByProject[project.Name] {
			buf.WriteString(fmt.Sprintf("%s\t%d\t%d\t%d\n", project.Name, g.Start, g.End, g.Count()))
		}
	}
	if data.SharedGaps != nil {
		for _, g := range data.SharedGaps {
			buf.WriteString(fmt.Sprintf("(shared)\t%d\t%d\t%d\n", g.Start, g.End, g.Count()))
		}
	}

	return buf.String(), nil
}

// WriteFile renders the TSV gap list to path.
func (t *TSVGenerator) WriteFile(path string, data Data) error {
	content, err := t.Generate(data)
	if err != nil {
		return err
	}
	return util.WriteStringWithDirs(path, content, 0o644)
}
