package dtos

import (
	"time"

	"infinite-experiment/quartermaster/internal/constants"
)

type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
	Data      *T        `json:"data,omitempty"`
}

// ImportSummary aggregates the classification counts of one batch.
type ImportSummary struct {
	Total            int `json:"total"`
	ToAdd            int `json:"toAdd"`
	ToUpdate         int `json:"toUpdate"`
	NoOps            int `json:"noOps"`
	Conflicts        int `json:"conflicts"`
	InvalidRows      int `json:"invalidRows"`
	InvalidOperators int `json:"invalidOperators"`
}

// ImportRecord is one classified candidate row as returned to the operator.
type ImportRecord struct {
	Row           int               `json:"row"`
	Key           string            `json:"key"`
	Fields        map[string]string `json:"fields"`
	ChangedFields []string          `json:"changedFields,omitempty"`
	Errors        []string          `json:"errors,omitempty"`
}

// FuzzyMatch reports one near-duplicate pairing awaiting an operator decision.
type FuzzyMatch struct {
	Record      ImportRecord `json:"record"`
	ExistingKey string       `json:"existingKey"`
	ExistingID  string       `json:"existingId"`
	Score       float64      `json:"score"`
}

// ImportRecords groups classified rows for the validate response.
type ImportRecords struct {
	Add          []ImportRecord `json:"add"`
	Update       []ImportRecord `json:"update"`
	FuzzyMatches []FuzzyMatch   `json:"fuzzyMatches"`
}

// ValidateImportResponse is the read-only preview of an import.
type ValidateImportResponse struct {
	Valid    bool          `json:"valid"`
	Summary  ImportSummary `json:"summary"`
	Records  ImportRecords `json:"records"`
	Warnings []string      `json:"warnings"`
	Errors   []string      `json:"errors"`
}

// CommitImportResponse reports the outcome of one commit attempt.
type CommitImportResponse struct {
	Success     bool     `json:"success"`
	Added       int      `json:"added,omitempty"`
	Updated     int      `json:"updated,omitempty"`
	Skipped     int      `json:"skipped,omitempty"`
	ImportLogID string   `json:"importLogId,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// ImportLogRow is one audit entry joined with the actor's display name.
type ImportLogRow struct {
	ID             string                 `json:"id" db:"id"`
	ImportedAt     time.Time              `json:"importedAt" db:"imported_at"`
	RecordCount    int                    `json:"recordCount" db:"record_count"`
	Source         constants.ImportSource `json:"source" db:"source"`
	FileName       *string                `json:"fileName,omitempty" db:"file_name"`
	ImportedBy     string                 `json:"importedBy" db:"imported_by"`
	ImportedByName string                 `json:"importedByName" db:"imported_by_name"`
	Status         constants.ImportStatus `json:"status" db:"status"`
	Errors         string                 `json:"errors,omitempty" db:"errors"`
}

// Pagination carries page math for list endpoints.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ImportLogPage is one page of the audit trail.
type ImportLogPage struct {
	Data       []ImportLogRow `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// TypeMappingResponse is one pattern rule as returned by the admin API.
type TypeMappingResponse struct {
	ID            string    `json:"id"`
	Pattern       string    `json:"pattern"`
	CanonicalType string    `json:"canonicalType"`
	Priority      int       `json:"priority"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
