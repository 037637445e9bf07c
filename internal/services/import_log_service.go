package services

import (
	"context"
	"fmt"

	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/models/dtos"

	"github.com/jmoiron/sqlx"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ImportLogService is the read side of the audit trail: reverse
// chronological pages joined against actor display names. There is no
// update or delete path here by design.
type ImportLogService struct {
	db *sqlx.DB
}

func NewImportLogService(db *sqlx.DB) *ImportLogService {
	return &ImportLogService{db: db}
}

// List returns one audit page, newest first.
func (s *ImportLogService) List(ctx context.Context, page, pageSize int) (*dtos.ImportLogPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind(constants.CountImportLogs)); err != nil {
		return nil, fmt.Errorf("failed to count import logs: %w", err)
	}

	rows := []dtos.ImportLogRow{}
	offset := (page - 1) * pageSize
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(constants.ListImportLogs), pageSize, offset); err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return &dtos.ImportLogPage{
		Data: rows,
		Pagination: dtos.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
