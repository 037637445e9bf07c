package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/models/dtos"
)

type RecordClass string

const (
	ClassAdd      RecordClass = "add"
	ClassUpdate   RecordClass = "update"
	ClassNoOp     RecordClass = "no-op"
	ClassConflict RecordClass = "conflict"
	ClassInvalid  RecordClass = "invalid"
)

// ClassifiedRecord is one candidate with its reconciliation outcome.
type ClassifiedRecord struct {
	Candidate        CandidateRecord
	Class            RecordClass
	Existing         *IndexedRecord
	Score            float64
	ChangedFields    []string
	NormalizedFields map[string]string
	OperatorMissing  bool
	Normalized       NormalizeResult
}

// ReconciledBatch is the full classification of one document.
type ReconciledBatch struct {
	Records  []ClassifiedRecord
	Summary  dtos.ImportSummary
	Warnings []string
}

// Reconciler combines validation results, the master-data snapshot, and
// fuzzy matching into a per-record classification. It is pure: it never
// writes, never mutates an index, and is safe to call repeatedly and
// concurrently.
type Reconciler struct {
	indexes    *MasterDataIndexBuilder
	normalizer *TypeNormalizer
	matcher    *FuzzyMatcher
}

func NewReconciler(indexes *MasterDataIndexBuilder, normalizer *TypeNormalizer, matcher *FuzzyMatcher) *Reconciler {
	return &Reconciler{
		indexes:    indexes,
		normalizer: normalizer,
		matcher:    matcher,
	}
}

// Reconcile classifies every candidate against a fresh snapshot of the
// stored records. Under ConflictPolicyWarn a near-duplicate classifies as
// conflict; under ConflictPolicyOverride the operator has confirmed the
// candidates are distinct entities and they proceed as adds.
func (r *Reconciler) Reconcile(ctx context.Context, entity constants.EntityKind, candidates []CandidateRecord, policy constants.ConflictPolicy) (*ReconciledBatch, error) {
	idx, err := r.indexes.Build(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to build master data index: %w", err)
	}

	var customerIdx *MasterDataIndex
	if entity == constants.EntityAircraft {
		customerIdx, err = r.indexes.Build(ctx, constants.EntityCustomers)
		if err != nil {
			return nil, fmt.Errorf("failed to build customer index: %w", err)
		}
	}

	batch := &ReconciledBatch{}
	batch.Summary.Total = len(candidates)

	seenKeys := map[string]int{}

	for _, candidate := range candidates {
		rec := ClassifiedRecord{Candidate: candidate}

		if !candidate.IsValid() {
			rec.Class = ClassInvalid
			batch.Summary.InvalidRows++
			batch.Records = append(batch.Records, rec)
			continue
		}

		key := candidate.NormalizedKey()
		if prevRow, dup := seenKeys[key]; dup {
			rec.Class = ClassInvalid
			rec.Candidate.Errors = append(rec.Candidate.Errors,
				fmt.Sprintf("row %d: duplicate of row %d within this document", candidate.Row, prevRow))
			batch.Summary.InvalidRows++
			batch.Records = append(batch.Records, rec)
			continue
		}
		seenKeys[key] = candidate.Row

		fields, norm, operatorMissing, err := r.comparableFields(ctx, candidate, customerIdx)
		if err != nil {
			return nil, err
		}
		rec.NormalizedFields = fields
		rec.Normalized = norm
		rec.OperatorMissing = operatorMissing
		if operatorMissing {
			batch.Summary.InvalidOperators++
		}

		match := r.matcher.BestMatch(candidate.Key(), idx)
		rec.Existing = match.Record
		rec.Score = match.Score

		switch match.Class {
		case MatchExact:
			rec.ChangedFields = changedFields(fields, match.Record.Fields)
			if len(rec.ChangedFields) == 0 {
				rec.Class = ClassNoOp
				batch.Summary.NoOps++
			} else {
				rec.Class = ClassUpdate
				batch.Summary.ToUpdate++
			}
		case MatchNearDuplicate:
			if policy == constants.ConflictPolicyOverride {
				rec.Class = ClassAdd
				batch.Summary.ToAdd++
				batch.Warnings = append(batch.Warnings,
					fmt.Sprintf("row %d: near-duplicate of %q (score %.2f) added under override", candidate.Row, match.Record.RawKey, match.Score))
			} else {
				rec.Class = ClassConflict
				batch.Summary.Conflicts++
			}
		default:
			rec.Class = ClassAdd
			batch.Summary.ToAdd++
		}

		batch.Records = append(batch.Records, rec)
	}

	return batch, nil
}

// comparableFields builds the normalized field set an exact match is diffed
// on. For aircraft the raw type runs through the normalizer here, so a
// candidate whose raw string maps to the stored canonical type is a no-op,
// not an update.
func (r *Reconciler) comparableFields(ctx context.Context, c CandidateRecord, customerIdx *MasterDataIndex) (map[string]string, NormalizeResult, bool, error) {
	if c.Entity == constants.EntityCustomers {
		display := strings.TrimSpace(c.Fields[FieldDisplayName])
		if display == "" {
			display = strings.TrimSpace(c.Fields[FieldName])
		}
		return map[string]string{
			FieldDisplayName: display,
			FieldColor:       strings.ToLower(strings.TrimSpace(c.Fields[FieldColor])),
		}, NormalizeResult{}, false, nil
	}

	norm, err := r.normalizer.Normalize(ctx, c.Fields[FieldRawType])
	if err != nil {
		return nil, NormalizeResult{}, false, err
	}

	operator := NormalizeKey(c.Fields[FieldOperator])
	operatorMissing := false
	if operator != "" && customerIdx != nil && customerIdx.Lookup(operator) == nil {
		operatorMissing = true
	}

	return map[string]string{
		FieldRawType:    strings.TrimSpace(c.Fields[FieldRawType]),
		"canonicalType": norm.Canonical,
		FieldOperator:   operator,
	}, norm, operatorMissing, nil
}

func changedFields(candidate, existing map[string]string) []string {
	var changed []string
	for field, val := range candidate {
		if existing[field] != val {
			changed = append(changed, field)
		}
	}
	sort.Strings(changed)
	return changed
}
