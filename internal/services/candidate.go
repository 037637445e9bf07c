package services

import (
	"strings"

	"infinite-experiment/quartermaster/internal/constants"
)

// Canonical candidate field names. FormatParser maps every input shape (CSV
// columns, JSON object keys) onto this one set so nothing downstream branches
// on document format.
const (
	FieldRegistration = "registration"
	FieldRawType      = "rawType"
	FieldOperator     = "operator"
	FieldName         = "name"
	FieldDisplayName  = "displayName"
	FieldColor        = "color"
)

// CandidateRecord is one normalized row of an uploaded document. Errors is
// filled by the FieldValidator; a record with errors is carried through the
// batch for reporting but never written.
type CandidateRecord struct {
	Entity constants.EntityKind
	Row    int
	Fields map[string]string
	Errors []string
}

// Key returns the record's natural key as supplied
func (c CandidateRecord) Key() string {
	if c.Entity == constants.EntityCustomers {
		return c.Fields[FieldName]
	}
	return c.Fields[FieldRegistration]
}

// NormalizedKey returns the natural key folded for comparison
func (c CandidateRecord) NormalizedKey() string {
	return NormalizeKey(c.Key())
}

func (c CandidateRecord) IsValid() bool {
	return len(c.Errors) == 0
}

// NormalizeKey trims, collapses internal whitespace, and case-folds a natural
// key. Comparisons throughout reconciliation use this form, never the raw
// value, and the fold is locale-independent.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// RequiredFields lists the fields a record of the given kind must carry
func RequiredFields(entity constants.EntityKind) []string {
	if entity == constants.EntityCustomers {
		return []string{FieldName}
	}
	return []string{FieldRegistration, FieldRawType}
}

// KnownFields lists every recognized field of the given kind
func KnownFields(entity constants.EntityKind) []string {
	if entity == constants.EntityCustomers {
		return []string{FieldName, FieldDisplayName, FieldColor}
	}
	return []string{FieldRegistration, FieldRawType, FieldOperator}
}

// canonicalFieldName maps an input column or key onto the canonical field
// set, case-insensitively. "type" is accepted as an alias for rawType.
func canonicalFieldName(entity constants.EntityKind, header string) (string, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, "_", "")
	h = strings.ReplaceAll(h, " ", "")

	if entity == constants.EntityCustomers {
		switch h {
		case "name", "customer", "customername":
			return FieldName, true
		case "displayname":
			return FieldDisplayName, true
		case "color", "colour":
			return FieldColor, true
		}
		return "", false
	}

	switch h {
	case "registration", "reg", "tailnumber":
		return FieldRegistration, true
	case "rawtype", "type", "aircrafttype":
		return FieldRawType, true
	case "operator", "operatorname":
		return FieldOperator, true
	}
	return "", false
}
