// # internal/engine/alscan/types.go
package alscan

import "strings"

// Kind identifies one of the closed set of object declaration kinds that
// carry a numeric identifier. Values are always stored lower case.
type Kind string

const (
	KindTable                  Kind = "table"
	KindTableExtension         Kind = "tableextension"
	KindPage                   Kind = "page"
	KindPageExtension          Kind = "pageextension"
	KindReport                 Kind = "report"
	KindReportExtension        Kind = "reportextension"
	KindCodeunit               Kind = "codeunit"
	KindXMLPort                Kind = "xmlport"
	KindQuery                  Kind = "query"
	KindEnum                   Kind = "enum"
	KindEnumExtension          Kind = "enumextension"
	KindPermissionSet          Kind = "permissionset"
	KindPermissionSetExtension Kind = "permissionsetextension"
)

// kindSpec records which optional sub-structure a kind supports.
type kindSpec struct {
	hasFields bool
	hasValues bool
	extension bool
}

// kindSpecs is the exhaustive capability table for all 13 kinds. The scanner
// dispatches on this table instead of comparing kind strings at call sites.
var kindSpecs = map[Kind]kindSpec{
	KindTable:                  {hasFields: true},
	KindTableExtension:         {hasFields: true, extension: true},
	KindPage:                   {},
	KindPageExtension:          {extension: true},
	KindReport:                 {},
	KindReportExtension:        {extension: true},
	KindCodeunit:               {},
	KindXMLPort:                {},
	KindQuery:                  {},
	KindEnum:                   {hasValues: true},
	KindEnumExtension:          {hasValues: true, extension: true},
	KindPermissionSet:          {},
	KindPermissionSetExtension: {extension: true},
}

// ParseKind matches a raw token (any case) against the closed kind set.
func ParseKind(token string) (Kind, bool) {
	k := Kind(strings.ToLower(token))
	_, ok := kindSpecs[k]
	return k, ok
}

// Kinds returns every recognized kind. The slice is freshly allocated.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindSpecs))
	for k := range kindSpecs {
		out = append(out, k)
	}
	return out
}

// HasFields reports whether declarations of this kind carry a fields block.
func (k Kind) HasFields() bool { return kindSpecs[k].hasFields }

// HasValues reports whether declarations of this kind carry enum values.
func (k Kind) HasValues() bool { return kindSpecs[k].hasValues }

// IsExtension reports whether this kind targets a named base declaration.
func (k Kind) IsExtension() bool { return kindSpecs[k].extension }

// Location is a navigation anchor: the opaque unit identifier handed to Scan
// plus a 1-based line number. It carries no semantic meaning.
type Location struct {
	Unit string
	Line int
}

// Field is one field(<id>; <name>; <type>) entry inside a fields block.
// DataType is stored verbatim (trimmed), it is not parsed further.
type Field struct {
	ID       int
	Name     string
	DataType string
	Location Location
}

// Value is one value(<id>; <name>) entry inside an enum-like declaration.
// An ordinal of 0 is legal.
type Value struct {
	ID       int
	Name     string
	Location Location
}

// Declaration is one recognized object-level statement. Fields is populated
// only for kinds with HasFields, Values only for kinds with HasValues, and
// Extends only for extension kinds; for every other kind they stay nil.
type Declaration struct {
	Kind     Kind
	ID       int
	Name     string
	Extends  string
	Location Location
	Fields   []Field
	Values   []Value
}
