// # internal/engine/conflicts/conflicts_test.go
package conflicts

import (
	"testing"

	"ranger/internal/engine/alscan"
)

func decl(kind alscan.Kind, id int, name string) alscan.Declaration {
	return alscan.Declaration{Kind: kind, ID: id, Name: name}
}

func TestObjects_SameKindSameID(t *testing.T) {
	projects := map[string][]alscan.Declaration{
		"AppA": {decl(alscan.KindTable, 50000, "Customers A")},
		"AppB": {decl(alscan.KindTable, 50000, "Customers B")},
	}

	got := Objects(projects)
	if len(got) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(got))
	}
	c := got[0]
	if c.Kind != alscan.KindTable || c.ID != 50000 {
		t.Errorf("unexpected conflict key: %s %d", c.Kind, c.ID)
	}
	if len(c.Declarations) != 2 {
		t.Errorf("expected both declarations listed, got %d", len(c.Declarations))
	}
}

func TestObjects_DifferentKindsDoNotConflict(t *testing.T) {
	projects := map[string][]alscan.Declaration{
		"AppA": {decl(alscan.KindTable, 50000, "T")},
		"AppB": {decl(alscan.KindPage, 50000, "P")},
	}

	if got := Objects(projects); len(got) != 0 {
		t.Errorf("kinds are independent namespaces, got %v", got)
	}
}

func TestObjects_SingleProjectDuplicateNotReported(t *testing.T) {
	projects := map[string][]alscan.Declaration{
		"AppA": {
			decl(alscan.KindTable, 50000, "T1"),
			decl(alscan.KindTable, 50000, "T2"),
		},
	}

	if got := Objects(projects); len(got) != 0 {
		t.Errorf("duplicates inside one project are not cross-project conflicts, got %v", got)
	}
}

func TestObjects_SortedOutput(t *testing.T) {
	projects := map[string][]alscan.Declaration{
		"AppA": {
			decl(alscan.KindTable, 50010, "T"),
			decl(alscan.KindTable, 50000, "T"),
			decl(alscan.KindEnum, 50000, "E"),
		},
		"AppB": {
			decl(alscan.KindTable, 50010, "T"),
			decl(alscan.KindTable, 50000, "T"),
			decl(alscan.KindEnum, 50000, "E"),
		},
	}

	got := Objects(projects)
	if len(got) != 3 {
		t.Fatalf("expected 3 conflicts, got %d", len(got))
	}
	want := []struct {
		kind alscan.Kind
		id   int
	}{
		{alscan.KindEnum, 50000},
		{alscan.KindTable, 50000},
		{alscan.KindTable, 50010},
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].ID != w.id {
			t.Errorf("position %d: got (%s, %d), want (%s, %d)", i, got[i].Kind, got[i].ID, w.kind, w.id)
		}
	}
}

func tableExt(id int, name, base string, fields ...alscan.Field) alscan.Declaration {
	return alscan.Declaration{
		Kind:    alscan.KindTableExtension,
		ID:      id,
		Name:    name,
		Extends: base,
		Fields:  fields,
	}
}

func TestFields_CrossProjectCollision(t *testing.T) {
	projects := map[string][]alscan.Declaration{
		"AppA": {tableExt(50100, "ExtA", "Customer", alscan.Field{ID: 50100, Name: "LoyaltyCode"})},
		"AppB": {tableExt(50200, "ExtB", "Customer", alscan.Field{ID: 50100, Name: "RegionCode"})},
	}

	got := Fields(projects)
	if len(got) != 1 {
		t.Fatalf("expected 1 field conflict, got %d", len(got))
	}
	c := got[0]
	if c.Base != "Customer" || c.ChildID != 50100 {
		t.Errorf("unexpected conflict key: %q %d", c.Base, c.ChildID)
	}
	if len(c.Occurrences) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(c.Occurrences))
	}
	if c.Occurrences[0].Project != "AppA" || c.Occurrences[1].Project != "AppB" {
		t.Errorf("occurrences out of project order: %+v", c.Occurrences)
	}
	if c.Occurrences[0].ExtensionName != "ExtA" || c.Occurrences[0].ChildName != "LoyaltyCode" {
		t.Errorf("occurrence context missing: %+v", c.Occurrences[0])
	}
}

func TestFields_DifferentBasesDoNotConflict(t *testing.T) {
	projects := map[string][]alscan.Declaration{
		"AppA": {tableExt(50100, "ExtA", "Customer", alscan.Field{ID: 50100, Name: "F"})},
		"AppB": {tableExt(50200, "ExtB", "Vendor", alscan.Field{ID: 50100, Name: "F"})},
	}

	if got := Fields(projects); len(got) != 0 {
		t.Errorf("field ids are scoped per base object, got %v", got)
	}
}

func TestFields_SameProjectOnlyNotReported(t *testing.T) {
	projects := map[string][]alscan.Declaration{
		"AppA": {
			tableExt(50100, "ExtA1", "Customer", alscan.Field{ID: 50100, Name: "F1"}),
			tableExt(50101, "ExtA2", "Customer", alscan.Field{ID: 50100, Name: "F2"}),
		},
	}

	if got := Fields(projects); len(got) != 0 {
		t.Errorf("collisions need two distinct projects, got %v", got)
	}
}

func TestFields_MissingExtendsSkipped(t *testing.T) {
	projects := map[string][]alscan.Declaration{
		"AppA": {tableExt(50100, "ExtA", "", alscan.Field{ID: 50100, Name: "F"})},
		"AppB": {tableExt(50200, "ExtB", "", alscan.Field{ID: 50100, Name: "F"})},
	}

	if got := Fields(projects); len(got) != 0 {
		t.Errorf("extensions without a base cannot collide, got %v", got)
	}
}

func TestValues_CrossProjectCollision(t *testing.T) {
	enumExt := func(project string, id int, name string, valueID int) alscan.Declaration {
		return alscan.Declaration{
			Kind:    alscan.KindEnumExtension,
			ID:      id,
			Name:    name,
			Extends: "Payment Method",
			Values:  []alscan.Value{{ID: valueID, Name: project + "-value"}},
		}
	}
	projects := map[string][]alscan.Declaration{
		"AppA": {enumExt("AppA", 50120, "PayExtA", 10)},
		"AppB": {enumExt("AppB", 50130, "PayExtB", 10)},
	}

	got := Values(projects)
	if len(got) != 1 {
		t.Fatalf("expected 1 value conflict, got %d", len(got))
	}
	if got[0].Base != "Payment Method" || got[0].ChildID != 10 {
		t.Errorf("unexpected conflict key: %q %d", got[0].Base, got[0].ChildID)
	}
}

func TestChildConflicts_SortedByBaseThenID(t *testing.T) {
	projects := map[string][]alscan.Declaration{
		"AppA": {
			tableExt(1, "A1", "Vendor", alscan.Field{ID: 5, Name: "F"}),
			tableExt(2, "A2", "Customer", alscan.Field{ID: 9, Name: "F"}, alscan.Field{ID: 3, Name: "G"}),
		},
		"AppB": {
			tableExt(3, "B1", "Vendor", alscan.Field{ID: 5, Name: "F"}),
			tableExt(4, "B2", "Customer", alscan.Field{ID: 9, Name: "F"}, alscan.Field{ID: 3, Name: "G"}),
		},
	}

	got := Fields(projects)
	if len(got) != 3 {
		t.Fatalf("expected 3 conflicts, got %d", len(got))
	}
	want := []struct {
		base string
		id   int
	}{
		{"Customer", 3},
		{"Customer", 9},
		{"Vendor", 5},
	}
	for i, w := range want {
		if got[i].Base != w.base || got[i].ChildID != w.id {
			t.Errorf("position %d: got (%q, %d), want (%q, %d)", i, got[i].Base, got[i].ChildID, w.base, w.id)
		}
	}
}
