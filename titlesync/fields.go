// Package titlesync reconciles spreadsheet rows against stored title records.
//
// Rows are first mapped into candidates with MapRowsToTitles, reviewed by an
// operator, then handed to Engine.SyncTitles, which upserts each candidate by
// serial number.
package titlesync

import "sort"

// Canonical field names a header mapping may target.
const (
	FieldSerialNumber     = "serialNumber"
	FieldBeneficiaryName  = "beneficiaryName"
	FieldMunicipalityName = "municipalityName"
	FieldTitleType        = "titleType"
	FieldSubtype          = "subtype"
	FieldStatus           = "status"
	FieldLotNumber        = "lotNumber"
	FieldArea             = "area"
	FieldDateIssued       = "dateIssued"
	FieldNotes            = "notes"
)

var knownFields = map[string]bool{
	FieldSerialNumber:     true,
	FieldBeneficiaryName:  true,
	FieldMunicipalityName: true,
	FieldTitleType:        true,
	FieldSubtype:          true,
	FieldStatus:           true,
	FieldLotNumber:        true,
	FieldArea:             true,
	FieldDateIssued:       true,
	FieldNotes:            true,
}

// IsKnownField reports whether name is a field the engine consumes.
func IsKnownField(name string) bool {
	return knownFields[name]
}

// HeaderMapping maps a sheet column name to a canonical field name.
type HeaderMapping map[string]string

// UnknownTargets returns the sorted, de-duplicated mapping targets the engine
// will ignore. The mapper still copies them.
func (m HeaderMapping) UnknownTargets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, field := range m {
		if IsKnownField(field) || seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}
