package constants

import (
	"database/sql/driver"
	"fmt"
)

type (
	APIStatus   string
	CachePrefix string

	// DocumentFormat identifies how an uploaded document is encoded
	DocumentFormat string

	// EntityKind selects which master-data table an import targets
	EntityKind string

	// ConflictPolicy controls how near-duplicate matches are handled
	ConflictPolicy string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixTypeNorm CachePrefix = "TYPE_NORM_"

	FormatDelimitedText  DocumentFormat = "delimited-text"
	FormatStructuredList DocumentFormat = "structured-object-list"

	EntityAircraft  EntityKind = "aircraft"
	EntityCustomers EntityKind = "customers"

	// ConflictPolicyWarn reports conflicts and blocks commit until the
	// caller resubmits with overrideConflicts=true
	ConflictPolicyWarn     ConflictPolicy = "warn"
	ConflictPolicyOverride ConflictPolicy = "overrideConflicts"
)

func (f DocumentFormat) Valid() bool {
	return f == FormatDelimitedText || f == FormatStructuredList
}

func (e EntityKind) Valid() bool {
	return e == EntityAircraft || e == EntityCustomers
}

// RecordSource mirrors the Postgres ENUM 'record_source'
type RecordSource string

const (
	SourceSeed      RecordSource = "seed"
	SourceConfirmed RecordSource = "confirmed"
	SourceImported  RecordSource = "imported"
	SourceInferred  RecordSource = "inferred"
)

func (s RecordSource) String() string { return string(s) }

// Scan implements the sql.Scanner interface
func (s *RecordSource) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = RecordSource(v)
	case []byte:
		*s = RecordSource(v)
	default:
		return fmt.Errorf("RecordSource: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s RecordSource) Value() (driver.Value, error) { return string(s), nil }

// ImportSource mirrors the Postgres ENUM 'import_source'
type ImportSource string

const (
	ImportSourceFile  ImportSource = "file"
	ImportSourcePaste ImportSource = "paste"
	ImportSourceAPI   ImportSource = "api"
)

func (s ImportSource) Valid() bool {
	switch s {
	case ImportSourceFile, ImportSourcePaste, ImportSourceAPI:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface
func (s *ImportSource) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = ImportSource(v)
	case []byte:
		*s = ImportSource(v)
	default:
		return fmt.Errorf("ImportSource: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s ImportSource) Value() (driver.Value, error) { return string(s), nil }

// ImportStatus mirrors the Postgres ENUM 'import_status'
type ImportStatus string

const (
	ImportStatusSuccess ImportStatus = "success"
	ImportStatusPartial ImportStatus = "partial"
	ImportStatusFailed  ImportStatus = "failed"
)

// Scan implements the sql.Scanner interface
func (s *ImportStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = ImportStatus(v)
	case []byte:
		*s = ImportStatus(v)
	default:
		return fmt.Errorf("ImportStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s ImportStatus) Value() (driver.Value, error) { return string(s), nil }
