package models

// ReferenceTable names a find-or-create lookup table.
type ReferenceTable string

const (
	ReferencePositions   ReferenceTable = "positions"
	ReferenceDistricts   ReferenceTable = "districts"
	ReferenceDepartments ReferenceTable = "departments"
	ReferenceImpactAreas ReferenceTable = "impact_areas"
)

// Reference is a row of a simple lookup table.
type Reference struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
