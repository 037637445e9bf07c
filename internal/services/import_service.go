package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/logging"
	"infinite-experiment/quartermaster/internal/metrics"
	"infinite-experiment/quartermaster/internal/models/dtos"
	gormModels "infinite-experiment/quartermaster/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportService owns the two entry points of the reconciliation engine:
// Validate (read-only preview, repeatable, never audited) and Commit (the
// single mutating path, serialized, always audited).
type ImportService struct {
	db         *gorm.DB
	parser     *FormatParser
	validator  *FieldValidator
	reconciler *Reconciler
	logRepo    ImportLogAppender
	metrics    *metrics.MetricsRegistry

	// commitMu serializes the reconcile-then-write critical section so two
	// concurrent commits can never both classify the same key as novel.
	// Validate never takes it.
	commitMu sync.Mutex
}

// ImportLogAppender is the narrow write side of the audit log.
type ImportLogAppender interface {
	Append(ctx context.Context, entry *gormModels.ImportLog) (string, error)
}

func NewImportService(db *gorm.DB, parser *FormatParser, validator *FieldValidator, reconciler *Reconciler, logRepo ImportLogAppender, metricsReg *metrics.MetricsRegistry) *ImportService {
	return &ImportService{
		db:         db,
		parser:     parser,
		validator:  validator,
		reconciler: reconciler,
		logRepo:    logRepo,
		metrics:    metricsReg,
	}
}

// Validate previews the effect of a document without writing anything. Safe
// to call repeatedly and concurrently with other validations.
func (s *ImportService) Validate(ctx context.Context, entity constants.EntityKind, req dtos.ValidateImportRequest) (*dtos.ValidateImportResponse, error) {
	parsed := s.parser.ParseDocument(req.Content, req.Format, entity)
	if !parsed.Valid {
		return &dtos.ValidateImportResponse{
			Valid:    false,
			Warnings: parsed.Warnings,
			Errors:   parsed.Errors,
			Records:  emptyRecords(),
		}, nil
	}

	candidates := s.validator.ValidateBatch(parsed.Data)
	batch, err := s.reconciler.Reconcile(ctx, entity, candidates, constants.ConflictPolicyWarn)
	if err != nil {
		return nil, err
	}
	s.countClasses(entity, batch)

	resp := &dtos.ValidateImportResponse{
		Valid:    true,
		Summary:  batch.Summary,
		Records:  emptyRecords(),
		Warnings: append(parsed.Warnings, batch.Warnings...),
		Errors:   parsed.Errors,
	}

	for _, rec := range batch.Records {
		switch rec.Class {
		case ClassAdd:
			resp.Records.Add = append(resp.Records.Add, toImportRecord(rec))
		case ClassUpdate:
			resp.Records.Update = append(resp.Records.Update, toImportRecord(rec))
		case ClassConflict:
			resp.Records.FuzzyMatches = append(resp.Records.FuzzyMatches, dtos.FuzzyMatch{
				Record:      toImportRecord(rec),
				ExistingKey: rec.Existing.RawKey,
				ExistingID:  rec.Existing.ID,
				Score:       rec.Score,
			})
		case ClassInvalid:
			resp.Errors = append(resp.Errors, rec.Candidate.Errors...)
		}
	}

	return resp, nil
}

// Commit applies a document as one atomic batch. The document is re-parsed
// and re-reconciled inside the critical section; a prior Validate is never
// trusted, since master data may have changed in between. Every attempt,
// successful or not, appends exactly one audit entry.
func (s *ImportService) Commit(ctx context.Context, entity constants.EntityKind, req dtos.CommitImportRequest, actorID string) (*dtos.CommitImportResponse, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.CommitDuration.Observe(time.Since(start).Seconds())
		}
	}()

	log := logging.WithImport(uuid.NewString(), actorID, string(entity), string(req.Source))

	parsed := s.parser.ParseDocument(req.Content, req.Format, entity)
	if !parsed.Valid {
		logID := s.appendLog(ctx, req, actorID, 0, constants.ImportStatusFailed, parsed.Errors)
		s.countCommit(constants.ImportStatusFailed)
		log.Warnw("import rejected at parse", "errors", parsed.Errors, "import_log_id", logID)
		return &dtos.CommitImportResponse{Success: false, Errors: parsed.Errors}, nil
	}

	candidates := s.validator.ValidateBatch(parsed.Data)

	policy := constants.ConflictPolicyWarn
	if req.OverrideConflicts {
		policy = constants.ConflictPolicyOverride
	}

	batch, err := s.reconciler.Reconcile(ctx, entity, candidates, policy)
	if err != nil {
		errs := []string{err.Error()}
		logID := s.appendLog(ctx, req, actorID, 0, constants.ImportStatusFailed, errs)
		s.countCommit(constants.ImportStatusFailed)
		log.Errorw("import reconciliation failed", "error", err.Error(), "import_log_id", logID)
		return &dtos.CommitImportResponse{Success: false, Errors: errs}, nil
	}
	s.countClasses(entity, batch)

	if batch.Summary.Conflicts > 0 {
		errs := []string{constants.MsgConflictsBlocked}
		for _, rec := range batch.Records {
			if rec.Class == ClassConflict {
				errs = append(errs, fmt.Sprintf("row %d: %q conflicts with existing %q (score %.2f)",
					rec.Candidate.Row, rec.Candidate.Key(), rec.Existing.RawKey, rec.Score))
			}
		}
		logID := s.appendLog(ctx, req, actorID, 0, constants.ImportStatusFailed, errs)
		s.countCommit(constants.ImportStatusFailed)
		log.Warnw("import blocked by conflicts", "conflicts", batch.Summary.Conflicts, "import_log_id", logID)
		return &dtos.CommitImportResponse{Success: false, Errors: errs}, nil
	}

	added, updated := 0, 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inferredOperators := map[string]bool{}

		for _, rec := range batch.Records {
			switch rec.Class {
			case ClassAdd:
				if err := s.applyAdd(tx, entity, rec, actorID, inferredOperators); err != nil {
					return err
				}
				added++
			case ClassUpdate:
				if err := s.applyUpdate(tx, entity, rec, actorID, inferredOperators); err != nil {
					return err
				}
				updated++
			}
		}
		return nil
	})
	if err != nil {
		// The transaction rolled back: no partial batch survives. The
		// attempt is still audited.
		errs := []string{fmt.Sprintf("%s: %v", constants.MsgCommitFailed, err)}
		logID := s.appendLog(ctx, req, actorID, 0, constants.ImportStatusFailed, errs)
		s.countCommit(constants.ImportStatusFailed)
		log.Errorw("import transaction rolled back", "error", err.Error(), "import_log_id", logID)
		return &dtos.CommitImportResponse{Success: false, Errors: errs}, nil
	}

	status := constants.ImportStatusSuccess
	var rowErrs []string
	if batch.Summary.InvalidRows > 0 {
		status = constants.ImportStatusPartial
		for _, rec := range batch.Records {
			if rec.Class == ClassInvalid {
				rowErrs = append(rowErrs, rec.Candidate.Errors...)
			}
		}
	}

	logID := s.appendLog(ctx, req, actorID, added+updated, status, rowErrs)
	s.countCommit(status)
	if s.metrics != nil {
		s.metrics.RecordsWrittenTotal.WithLabelValues(string(entity), "add").Add(float64(added))
		s.metrics.RecordsWrittenTotal.WithLabelValues(string(entity), "update").Add(float64(updated))
	}

	log.Infow("import committed",
		"added", added,
		"updated", updated,
		"skipped", batch.Summary.NoOps+batch.Summary.InvalidRows,
		"status", string(status),
		"import_log_id", logID,
	)

	return &dtos.CommitImportResponse{
		Success:     true,
		Added:       added,
		Updated:     updated,
		Skipped:     batch.Summary.NoOps + batch.Summary.InvalidRows,
		ImportLogID: logID,
	}, nil
}

func (s *ImportService) applyAdd(tx *gorm.DB, entity constants.EntityKind, rec ClassifiedRecord, actorID string, inferredOperators map[string]bool) error {
	now := time.Now().UTC()

	if entity == constants.EntityCustomers {
		c := rec.Candidate
		display := strings.TrimSpace(c.Fields[FieldDisplayName])
		if display == "" {
			display = strings.TrimSpace(c.Fields[FieldName])
		}
		customer := gormModels.Customer{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(c.Fields[FieldName]),
			DisplayName: display,
			Color:       strings.ToLower(strings.TrimSpace(c.Fields[FieldColor])),
			Source:      constants.SourceImported,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
			UpdatedBy:   actorID,
		}
		return tx.Create(&customer).Error
	}

	c := rec.Candidate
	if rec.OperatorMissing {
		if err := s.ensureInferredOperator(tx, c.Fields[FieldOperator], actorID, inferredOperators); err != nil {
			return err
		}
	}

	aircraft := gormModels.Aircraft{
		ID:            uuid.NewString(),
		Registration:  strings.TrimSpace(c.Fields[FieldRegistration]),
		RawType:       strings.TrimSpace(c.Fields[FieldRawType]),
		CanonicalType: rec.Normalized.Canonical,
		OperatorName:  strings.TrimSpace(c.Fields[FieldOperator]),
		Source:        constants.SourceImported,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
		UpdatedBy:     actorID,
	}
	return tx.Create(&aircraft).Error
}

func (s *ImportService) applyUpdate(tx *gorm.DB, entity constants.EntityKind, rec ClassifiedRecord, actorID string, inferredOperators map[string]bool) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
		"updated_by": actorID,
	}

	// An import never downgrades a confirmed record's source; anything else
	// becomes imported.
	if rec.Existing.Source != constants.SourceConfirmed {
		updates["source"] = constants.SourceImported
	}

	if entity == constants.EntityCustomers {
		updates["display_name"] = rec.NormalizedFields[FieldDisplayName]
		updates["color"] = rec.NormalizedFields[FieldColor]
		return tx.Model(&gormModels.Customer{}).
			Where("id = ?", rec.Existing.ID).
			Updates(updates).Error
	}

	c := rec.Candidate
	if rec.OperatorMissing {
		if err := s.ensureInferredOperator(tx, c.Fields[FieldOperator], actorID, inferredOperators); err != nil {
			return err
		}
	}

	updates["raw_type"] = strings.TrimSpace(c.Fields[FieldRawType])
	updates["canonical_type"] = rec.Normalized.Canonical
	updates["operator_name"] = strings.TrimSpace(c.Fields[FieldOperator])
	return tx.Model(&gormModels.Aircraft{}).
		Where("id = ?", rec.Existing.ID).
		Updates(updates).Error
}

// ensureInferredOperator creates a placeholder customer for an operator the
// batch references but the master data does not know, once per batch.
func (s *ImportService) ensureInferredOperator(tx *gorm.DB, operator string, actorID string, inferredOperators map[string]bool) error {
	name := strings.TrimSpace(operator)
	key := NormalizeKey(name)
	if key == "" || inferredOperators[key] {
		return nil
	}
	inferredOperators[key] = true

	now := time.Now().UTC()
	customer := gormModels.Customer{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: name,
		Source:      constants.SourceInferred,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedBy:   actorID,
	}
	return tx.Create(&customer).Error
}

// appendLog writes the single audit entry of one commit attempt. Audit
// failures are logged but never mask the commit outcome.
func (s *ImportService) appendLog(ctx context.Context, req dtos.CommitImportRequest, actorID string, recordCount int, status constants.ImportStatus, errs []string) string {
	serialized := ""
	if len(errs) > 0 {
		if b, err := json.Marshal(errs); err == nil {
			serialized = string(b)
		}
	}

	entry := &gormModels.ImportLog{
		ImportedAt:  time.Now().UTC(),
		RecordCount: recordCount,
		Source:      req.Source,
		FileName:    req.FileName,
		ImportedBy:  actorID,
		Status:      status,
		Errors:      serialized,
	}

	id, err := s.logRepo.Append(ctx, entry)
	if err != nil {
		logging.Error("failed to append import audit entry", "error", err.Error())
		return ""
	}
	return id
}

func (s *ImportService) countClasses(entity constants.EntityKind, batch *ReconciledBatch) {
	if s.metrics == nil {
		return
	}
	for _, rec := range batch.Records {
		s.metrics.RowsClassifiedTotal.WithLabelValues(string(entity), string(rec.Class)).Inc()
	}
}

func (s *ImportService) countCommit(status constants.ImportStatus) {
	if s.metrics == nil {
		return
	}
	s.metrics.CommitsTotal.WithLabelValues(string(status)).Inc()
}

func toImportRecord(rec ClassifiedRecord) dtos.ImportRecord {
	fields := map[string]string{}
	for k, v := range rec.Candidate.Fields {
		fields[k] = v
	}
	if rec.Candidate.Entity == constants.EntityAircraft && rec.Normalized.Canonical != "" {
		fields["canonicalType"] = rec.Normalized.Canonical
	}
	return dtos.ImportRecord{
		Row:           rec.Candidate.Row,
		Key:           rec.Candidate.Key(),
		Fields:        fields,
		ChangedFields: rec.ChangedFields,
		Errors:        rec.Candidate.Errors,
	}
}

func emptyRecords() dtos.ImportRecords {
	return dtos.ImportRecords{
		Add:          []dtos.ImportRecord{},
		Update:       []dtos.ImportRecord{},
		FuzzyMatches: []dtos.FuzzyMatch{},
	}
}
