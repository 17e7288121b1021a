// # internal/ui/report/markdown.go
package report

import (
	"fmt"
	"strings"
	"time"

	"ranger/internal/engine/conflicts"
	"ranger/internal/shared/util"
)

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data Data) (string, error) {
	generatedAt := data.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Identifier Range Report\n")
	b.WriteString("generated_at: " + generatedAt.UTC().Format(time.RFC3339) + "\n")
	if data.PassID != "" {
		b.WriteString("pass: " + data.PassID + "\n")
	}
	b.WriteString("---\n\n")

	b.WriteString("# Identifier Range Report\n\n")

	b.WriteString("## Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Projects | %d |\n", len(data.Projects)))
	b.WriteString(fmt.Sprintf("| Declarations | %d |\n", totalDeclarations(data)))
	b.WriteString(fmt.Sprintf("| Free Identifiers | %d |\n", data.TotalFree()))
	b.WriteString(fmt.Sprintf("| Object Conflicts | %d |\n", len(data.ObjectConflicts)))
	b.WriteString(fmt.Sprintf("| Field Conflicts | %d |\n", len(data.FieldConflicts)))
	b.WriteString(fmt.Sprintf("| Value Conflicts | %d |\n\n", len(data.ValueConflicts)))

	b.WriteString("## Free Ranges\n")
	for _, project := range data.Projects {
		gaps := data.GapsByProject[project.Name]
		b.WriteString(fmt.Sprintf("### %s\n", project.Name))
		if len(project.Ranges) == 0 {
			b.WriteString("No identifier ranges configured.\n\n")
			continue
		}
		if len(gaps) == 0 {
			b.WriteString("All identifiers in the configured ranges are taken.\n\n")
			continue
		}
		if next, ok := data.NextByProject[project.Name]; ok {
			b.WriteString(fmt.Sprintf("Next available: **%d**\n\n", next))
		}
		b.WriteString("| From | To | Free |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, g := range gaps {
			b.WriteString(fmt.Sprintf("| %d | %d | %d |\n", g.Start, g.End, g.Count()))
		}
		b.WriteString("\n")
	}

	if data.SharedRanges != nil {
		b.WriteString("## Shared Identifier Space\n")
		b.WriteString("Merged ranges: ")
		parts := make([]string, 0, len(data.SharedRanges))
		for _, r := range data.SharedRanges {
			parts = append(parts, fmt.Sprintf("%d..%d", r.From, r.To))
		}
		b.WriteString(strings.Join(parts, ", ") + "\n\n")
		if len(data.SharedGaps) > 0 {
			b.WriteString("| From | To | Free |\n")
			b.WriteString("| --- | --- | --- |\n")
			for _, g := range data.SharedGaps {
				b.WriteString(fmt.Sprintf("| %d | %d | %d |\n", g.Start, g.End, g.Count()))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Object Conflicts\n")
	if len(data.ObjectConflicts) == 0 {
		b.WriteString("None.\n\n")
	} else {
		b.WriteString("| Kind | ID | Declared By |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, c := range data.ObjectConflicts {
			owners := make([]string, 0, len(c.Declarations))
			for _, o := range c.Declarations {
				owners = append(owners, fmt.Sprintf("%s (%s, %s:%d)",
					o.Project, o.Declaration.Name, o.Declaration.Location.Unit, o.Declaration.Location.Line))
			}
			b.WriteString(fmt.Sprintf("| %s | %d | %s |\n", c.Kind, c.ID, strings.Join(owners, "; ")))
		}
		b.WriteString("\n")
	}

	writeChildSection(&b, "Field Conflicts", data.FieldConflicts)
	writeChildSection(&b, "Value Conflicts", data.ValueConflicts)

	return b.String(), nil
}

// WriteFile renders the markdown report to path.
func (m *MarkdownGenerator) WriteFile(path string, data Data) error {
	content, err := m.Generate(data)
	if err != nil {
		return err
	}
	return util.WriteStringWithDirs(path, content, 0o644)
}

func writeChildSection(b *strings.Builder, title string, items []conflicts.ChildConflict) {
	b.WriteString("## " + title + "\n")
	if len(items) == 0 {
		b.WriteString("None.\n\n")
		return
	}
	b.WriteString("| Base Object | ID | Used By |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, c := range items {
		owners := make([]string, 0, len(c.Occurrences))
		for _, o := range c.Occurrences {
			owners = append(owners, fmt.Sprintf("%s (%s %d, %s:%d)",
				o.Project, o.ExtensionName, o.ExtensionID, o.Location.Unit, o.Location.Line))
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %s |\n", c.Base, c.ChildID, strings.Join(owners, "; ")))
	}
	b.WriteString("\n")
}

func totalDeclarations(data Data) int {
	total := 0
	for _, p := range data.Projects {
		total += len(p.Declarations)
	}
	return total
}
