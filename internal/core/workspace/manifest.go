package workspace

import (
	"encoding/json"
	"strings"

	"ranger/internal/core/errors"
	"ranger/internal/engine/ranges"
)

// Manifest is the normalized form of a project manifest (app.json). Ranges is
// always a list, regardless of which form the document used; an empty list
// means the project has no configured identifier ranges.
type Manifest struct {
	Name   string
	Ranges []ranges.Range
}

// manifestDoc mirrors the on-disk document. Manifests may carry either a
// single idRange object or an idRanges array.
type manifestDoc struct {
	Name     string         `json:"name"`
	IDRange  *ranges.Range  `json:"idRange"`
	IDRanges []ranges.Range `json:"idRanges"`
}

// ParseManifest normalizes manifest bytes. Unparseable JSON or a missing
// name yields an INVALID_MANIFEST error so callers can skip the project and
// continue with the rest of the workspace.
func ParseManifest(data []byte) (Manifest, error) {
	var doc manifestDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Manifest{}, errors.Wrap(err, errors.CodeInvalidManifest, "manifest is not valid JSON")
	}
	if strings.TrimSpace(doc.Name) == "" {
		return Manifest{}, errors.New(errors.CodeInvalidManifest, "manifest has no name")
	}

	m := Manifest{Name: doc.Name, Ranges: make([]ranges.Range, 0, len(doc.IDRanges)+1)}
	m.Ranges = append(m.Ranges, doc.IDRanges...)
	if doc.IDRange != nil {
		m.Ranges = append(m.Ranges, *doc.IDRange)
	}
	return m, nil
}
