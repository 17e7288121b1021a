// # internal/engine/conflicts/conflicts.go
package conflicts

import (
	"sort"

	"ranger/internal/engine/alscan"
	"ranger/internal/shared/util"
)

// Owned pairs a declaration with the name of the project that produced it.
type Owned struct {
	Project     string
	Declaration alscan.Declaration
}

// Conflict is one (kind, id) pair declared by two or more distinct projects.
type Conflict struct {
	Kind         alscan.Kind
	ID           int
	Declarations []Owned
}

// Occurrence is one child id use inside an extension, with enough context to
// point back at the owning extension and project.
type Occurrence struct {
	Project       string
	ExtensionID   int
	ExtensionName string
	ChildName     string
	Location      alscan.Location
}

// ChildConflict is one field or value id reused by extensions of the same
// base object from two or more distinct projects.
type ChildConflict struct {
	Base        string
	ChildID     int
	Occurrences []Occurrence
}

// Objects finds whole-object conflicts: the same (kind, id) declared by at
// least two distinct projects. Duplicates inside one project are not reported.
// Output is sorted by (kind, id) ascending.
func Objects(projects map[string][]alscan.Declaration) []Conflict {
	type key struct {
		kind alscan.Kind
		id   int
	}
	groups := make(map[key][]Owned)
	for _, project := range util.SortedStringKeys(projects) {
		for _, d := range projects[project] {
			k := key{kind: d.Kind, id: d.ID}
			groups[k] = append(groups[k], Owned{Project: project, Declaration: d})
		}
	}

	out := make([]Conflict, 0)
	for k, members := range groups {
		if countProjects(members) < 2 {
			continue
		}
		out = append(out, Conflict{Kind: k.kind, ID: k.id, Declarations: members})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Fields finds field id collisions between table extensions of the same base
// object, contributed by at least two distinct projects.
func Fields(projects map[string][]alscan.Declaration) []ChildConflict {
	return childConflicts(projects, alscan.KindTableExtension, func(d alscan.Declaration) []child {
		out := make([]child, 0, len(d.Fields))
		for _, f := range d.Fields {
			out = append(out, child{id: f.ID, name: f.Name, loc: f.Location})
		}
		return out
	})
}

// Values finds enum value ordinal collisions between enum extensions of the
// same base object, contributed by at least two distinct projects.
func Values(projects map[string][]alscan.Declaration) []ChildConflict {
	return childConflicts(projects, alscan.KindEnumExtension, func(d alscan.Declaration) []child {
		out := make([]child, 0, len(d.Values))
		for _, v := range d.Values {
			out = append(out, child{id: v.ID, name: v.Name, loc: v.Location})
		}
		return out
	})
}

type child struct {
	id   int
	name string
	loc  alscan.Location
}

func childConflicts(projects map[string][]alscan.Declaration, kind alscan.Kind, children func(alscan.Declaration) []child) []ChildConflict {
	type key struct {
		base string
		id   int
	}
	groups := make(map[key][]Occurrence)
	for _, project := range util.SortedStringKeys(projects) {
		for _, d := range projects[project] {
			if d.Kind != kind || d.Extends == "" {
				continue
			}
			for _, c := range children(d) {
				k := key{base: d.Extends, id: c.id}
				groups[k] = append(groups[k], Occurrence{
					Project:       project,
					ExtensionID:   d.ID,
					ExtensionName: d.Name,
					ChildName:     c.name,
					Location:      c.loc,
				})
			}
		}
	}

	out := make([]ChildConflict, 0)
	for k, occ := range groups {
		if countOccurrenceProjects(occ) < 2 {
			continue
		}
		out = append(out, ChildConflict{Base: k.base, ChildID: k.id, Occurrences: occ})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Base != out[j].Base {
			return out[i].Base < out[j].Base
		}
		return out[i].ChildID < out[j].ChildID
	})
	return out
}

func countProjects(members []Owned) int {
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		seen[m.Project] = true
	}
	return len(seen)
}

func countOccurrenceProjects(occ []Occurrence) int {
	seen := make(map[string]bool, len(occ))
	for _, o := range occ {
		seen[o.Project] = true
	}
	return len(seen)
}
