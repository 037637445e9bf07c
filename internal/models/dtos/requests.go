package dtos

import "infinite-experiment/quartermaster/internal/constants"

// ValidateImportRequest previews an import without writing anything.
type ValidateImportRequest struct {
	Content string                   `json:"content"`
	Format  constants.DocumentFormat `json:"format"`
}

// CommitImportRequest applies an import as one atomic batch. The actor comes
// from the request's auth claims, not the body.
type CommitImportRequest struct {
	Content           string                   `json:"content"`
	Format            constants.DocumentFormat `json:"format"`
	Source            constants.ImportSource   `json:"source"`
	FileName          *string                  `json:"fileName,omitempty"`
	OverrideConflicts bool                     `json:"overrideConflicts,omitempty"`
}

// TypeMappingRequest creates or edits one normalizer pattern rule.
type TypeMappingRequest struct {
	Pattern       string `json:"pattern"`
	CanonicalType string `json:"canonicalType"`
	Priority      int    `json:"priority"`
	IsActive      *bool  `json:"isActive,omitempty"`
}
