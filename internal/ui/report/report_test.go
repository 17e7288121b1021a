// # internal/ui/report/report_test.go
package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ranger/internal/core/workspace"
	"ranger/internal/engine/alscan"
	"ranger/internal/engine/conflicts"
	"ranger/internal/engine/ranges"
)

func testData() Data {
	return Data{
		PassID:      "pass-1",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Projects: []workspace.Project{
			{
				Name:   "sales",
				Root:   "apps/sales",
				Ranges: []ranges.Range{{From: 50000, To: 50010}},
				Declarations: []alscan.Declaration{
					{Kind: alscan.KindTable, ID: 50000, Name: "Customers", Location: alscan.Location{Unit: "src/Customers.al", Line: 1}},
				},
				Units: 1,
			},
			{
				Name:   "inventory",
				Root:   "apps/inventory",
				Ranges: []ranges.Range{{From: 50000, To: 50010}},
				Declarations: []alscan.Declaration{
					{Kind: alscan.KindTable, ID: 50000, Name: "Items", Location: alscan.Location{Unit: "src/Items.al", Line: 1}},
				},
				Units: 1,
			},
		},
		GapsByProject: map[string][]ranges.Gap{
			"sales":     {{Start: 50001, End: 50010}},
			"inventory": {{Start: 50001, End: 50010}},
		},
		NextByProject: map[string]int{"sales": 50001, "inventory": 50001},
		ObjectConflicts: []conflicts.Conflict{{
			Kind: alscan.KindTable,
			ID:   50000,
			Declarations: []conflicts.Owned{
				{Project: "sales", Declaration: alscan.Declaration{Kind: alscan.KindTable, ID: 50000, Name: "Customers", Location: alscan.Location{Unit: "src/Customers.al", Line: 1}}},
				{Project: "inventory", Declaration: alscan.Declaration{Kind: alscan.KindTable, ID: 50000, Name: "Items", Location: alscan.Location{Unit: "src/Items.al", Line: 1}}},
			},
		}},
		FieldConflicts: []conflicts.ChildConflict{{
			Base:    "Customer",
			ChildID: 50100,
			Occurrences: []conflicts.Occurrence{
				{Project: "sales", ExtensionID: 50100, ExtensionName: "ExtA", ChildName: "LoyaltyCode", Location: alscan.Location{Unit: "src/Ext.al", Line: 5}},
				{Project: "inventory", ExtensionID: 50200, ExtensionName: "ExtB", ChildName: "RegionCode", Location: alscan.Location{Unit: "src/Ext.al", Line: 5}},
			},
		}},
	}
}

func TestDataTotals(t *testing.T) {
	data := testData()
	if got := data.TotalFree(); got != 20 {
		t.Errorf("TotalFree = %d, want 20", got)
	}
	if got := data.TotalGaps(); got != 2 {
		t.Errorf("TotalGaps = %d, want 2", got)
	}
}

func TestMarkdownGenerate(t *testing.T) {
	out, err := NewMarkdownGenerator().Generate(testData())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []string{
		"# Identifier Range Report",
		"pass: pass-1",
		"| Projects | 2 |",
		"| Free Identifiers | 20 |",
		"### sales",
		"Next available: **50001**",
		"| 50001 | 50010 | 10 |",
		"## Object Conflicts",
		"| table | 50000 |",
		"## Field Conflicts",
		"| Customer | 50100 |",
		"## Value Conflicts",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown output missing %q", want)
		}
	}
}

func TestMarkdownNoRangesConfigured(t *testing.T) {
	data := Data{
		Projects: []workspace.Project{{Name: "bare"}},
	}
	out, err := NewMarkdownGenerator().Generate(data)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(out, "No identifier ranges configured.") {
		t.Error("Expected the unconfigured-ranges note")
	}
}

func TestMarkdownAllTaken(t *testing.T) {
	data := Data{
		Projects: []workspace.Project{{
			Name:   "full",
			Ranges: []ranges.Range{{From: 1, To: 1}},
		}},
		GapsByProject: map[string][]ranges.Gap{"full": {}},
	}
	out, err := NewMarkdownGenerator().Generate(data)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(out, "All identifiers in the configured ranges are taken.") {
		t.Error("Expected the exhausted-ranges note")
	}
}

func TestMarkdownSharedSection(t *testing.T) {
	data := testData()
	data.SharedRanges = []ranges.Range{{From: 50000, To: 50010}}
	data.SharedGaps = []ranges.Gap{{Start: 50001, End: 50010}}

	out, err := NewMarkdownGenerator().Generate(data)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(out, "## Shared Identifier Space") {
		t.Error("Expected the shared section")
	}
	if !strings.Contains(out, "50000..50010") {
		t.Error("Expected merged range notation")
	}
}

func TestTSVGenerate(t *testing.T) {
	out, err := NewTSVGenerator().Generate(testData())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Project\tStart\tEnd\tCount" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if lines[1] != "sales\t50001\t50010\t10" {
		t.Errorf("Unexpected row: %q", lines[1])
	}
}

func TestTSVSharedRows(t *testing.T) {
	data := testData()
	data.SharedGaps = []ranges.Gap{{Start: 50001, End: 50010}}

	out, err := NewTSVGenerator().Generate(data)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(out, "(shared)\t50001\t50010\t10") {
		t.Errorf("Expected a shared row, got:\n%s", out)
	}
}

func TestGenerateSARIF(t *testing.T) {
	doc, err := GenerateSARIF("1.0.0", testData())
	if err != nil {
		t.Fatalf("GenerateSARIF failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(doc, &parsed); err != nil {
		t.Fatalf("SARIF output is not valid JSON: %v", err)
	}
	if parsed["version"] != "2.1.0" {
		t.Errorf("Expected SARIF version 2.1.0, got %v", parsed["version"])
	}

	runs := parsed["runs"].([]any)
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	run := runs[0].(map[string]any)

	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	if driver["name"] != "ranger" || driver["version"] != "1.0.0" {
		t.Errorf("Unexpected driver: %v", driver)
	}
	if rules := driver["rules"].([]any); len(rules) != 3 {
		t.Errorf("Expected 3 rules, got %d", len(rules))
	}

	results := run["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	first := results[0].(map[string]any)
	if first["ruleId"] != "RNG001" || first["level"] != "error" {
		t.Errorf("Unexpected object conflict result: %v", first)
	}
	locations := first["locations"].([]any)
	if len(locations) != 2 {
		t.Fatalf("Expected 2 locations, got %d", len(locations))
	}
	artifact := locations[0].(map[string]any)["physicalLocation"].(map[string]any)["artifactLocation"].(map[string]any)
	if artifact["uri"] != "apps/sales/src/Customers.al" {
		t.Errorf("Unexpected artifact uri: %v", artifact["uri"])
	}
	if artifact["uriBaseId"] != "%SRCROOT%" {
		t.Errorf("Unexpected uriBaseId: %v", artifact["uriBaseId"])
	}

	second := results[1].(map[string]any)
	if second["ruleId"] != "RNG002" || second["level"] != "warning" {
		t.Errorf("Unexpected field conflict result: %v", second)
	}
}
