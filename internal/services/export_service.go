package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/db/repositories"
)

// ExportService renders the current active master records as CSV with the
// same column set the parser accepts, so an exported table re-imports as
// pure no-ops.
type ExportService struct {
	aircraftRepo *repositories.AircraftRepository
	customerRepo *repositories.CustomerRepository
}

func NewExportService(aircraftRepo *repositories.AircraftRepository, customerRepo *repositories.CustomerRepository) *ExportService {
	return &ExportService{
		aircraftRepo: aircraftRepo,
		customerRepo: customerRepo,
	}
}

// ExportCSV returns the full active table of one entity kind as CSV text.
func (s *ExportService) ExportCSV(ctx context.Context, entity constants.EntityKind) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	switch entity {
	case constants.EntityCustomers:
		if err := w.Write([]string{FieldName, FieldDisplayName, FieldColor}); err != nil {
			return "", err
		}
		rows, err := s.customerRepo.GetAllActive(ctx)
		if err != nil {
			return "", err
		}
		for _, row := range rows {
			if err := w.Write([]string{row.Name, row.DisplayName, row.Color}); err != nil {
				return "", err
			}
		}

	case constants.EntityAircraft:
		if err := w.Write([]string{FieldRegistration, FieldRawType, FieldOperator}); err != nil {
			return "", err
		}
		rows, err := s.aircraftRepo.GetAllActive(ctx)
		if err != nil {
			return "", err
		}
		for _, row := range rows {
			if err := w.Write([]string{row.Registration, row.RawType, row.OperatorName}); err != nil {
				return "", err
			}
		}

	default:
		return "", fmt.Errorf("%s: %q", constants.MsgUnknownEntity, entity)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to render CSV: %w", err)
	}
	return sb.String(), nil
}
