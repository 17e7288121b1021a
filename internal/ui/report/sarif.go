// # internal/ui/report/sarif.go
package report

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"ranger/internal/engine/conflicts"
	"ranger/internal/shared/util"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDObjectConflict = "RNG001"
	ruleIDFieldConflict  = "RNG002"
	ruleIDValueConflict  = "RNG003"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from the pass's conflicts.
// Unit paths are kept relative to each project root, so reports never leak
// absolute paths.
func GenerateSARIF(toolVersion string, data Data) ([]byte, error) {
	roots := make(map[string]string, len(data.Projects))
	for _, p := range data.Projects {
		roots[p.Name] = p.Root
	}

	results := make([]sarifResult, 0)

	for _, c := range data.ObjectConflicts {
		owners := make([]string, 0, len(c.Declarations))
		locations := make([]sarifLocation, 0, len(c.Declarations))
		for _, o := range c.Declarations {
			owners = append(owners, fmt.Sprintf("%s (%s)", o.Project, o.Declaration.Name))
			locations = append(locations, unitLocation(roots[o.Project], o.Declaration.Location.Unit, o.Declaration.Location.Line))
		}
		results = append(results, sarifResult{
			RuleID:    ruleIDObjectConflict,
			Level:     "error",
			Message:   sarifMessage{Text: fmt.Sprintf("%s %d is declared by multiple projects: %s", c.Kind, c.ID, strings.Join(owners, ", "))},
			Locations: locations,
		})
	}

	results = append(results, childResults(ruleIDFieldConflict, "field", data.FieldConflicts, roots)...)
	results = append(results, childResults(ruleIDValueConflict, "value", data.ValueConflicts, roots)...)

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "ranger",
				Version: toolVersion,
				Rules:   sarifRules(),
			}},
			Results: results,
		}},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteSARIF renders the SARIF document to a file.
func WriteSARIF(filePath, toolVersion string, data Data) error {
	doc, err := GenerateSARIF(toolVersion, data)
	if err != nil {
		return err
	}
	return util.WriteFileWithDirs(filePath, doc, 0o644)
}

func childResults(ruleID, what string, items []conflicts.ChildConflict, roots map[string]string) []sarifResult {
	results := make([]sarifResult, 0, len(items))
	for _, c := range items {
		owners := make([]string, 0, len(c.Occurrences))
		locations := make([]sarifLocation, 0, len(c.Occurrences))
		for _, o := range c.Occurrences {
			owners = append(owners, fmt.Sprintf("%s (%s %d)", o.Project, o.ExtensionName, o.ExtensionID))
			locations = append(locations, unitLocation(roots[o.Project], o.Location.Unit, o.Location.Line))
		}
		results = append(results, sarifResult{
			RuleID:    ruleID,
			Level:     "warning",
			Message:   sarifMessage{Text: fmt.Sprintf("%s id %d on %q is used by extensions from multiple projects: %s", what, c.ChildID, c.Base, strings.Join(owners, ", "))},
			Locations: locations,
		})
	}
	return results
}

func unitLocation(root, unit string, line int) sarifLocation {
	uri := util.NormalizePatternPath(path.Join(root, unit))
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       uri,
				URIBaseID: "%SRCROOT%",
			},
		},
	}
	if line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: line}
	}
	return loc
}

func sarifRules() []sarifRule {
	return []sarifRule{
		{
			ID:               ruleIDObjectConflict,
			Name:             "ObjectIdentifierConflict",
			ShortDescription: sarifMessage{Text: "Same object kind and id declared by multiple projects"},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		},
		{
			ID:               ruleIDFieldConflict,
			Name:             "FieldIdentifierConflict",
			ShortDescription: sarifMessage{Text: "Same field id used by table extensions of one base object across projects"},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		},
		{
			ID:               ruleIDValueConflict,
			Name:             "ValueIdentifierConflict",
			ShortDescription: sarifMessage{Text: "Same enum value ordinal used by enum extensions of one base object across projects"},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		},
	}
}
