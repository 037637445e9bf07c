package services

import (
	"fmt"
	"regexp"
	"strings"

	"infinite-experiment/quartermaster/internal/constants"
)

var (
	registrationShape = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{1,15}$`)
	colorShape        = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// FieldValidator enforces per-field rules on each candidate record. It never
// short-circuits: every record comes back, invalid ones with their full
// error list attached, so the batch report covers every problem in one pass.
type FieldValidator struct{}

func NewFieldValidator() *FieldValidator {
	return &FieldValidator{}
}

// ValidateBatch checks every candidate and returns the same slice with
// errors accumulated onto the records. No mutation beyond the error lists,
// no I/O.
func (v *FieldValidator) ValidateBatch(candidates []CandidateRecord) []CandidateRecord {
	for i := range candidates {
		candidates[i].Errors = append(candidates[i].Errors, v.checkRecord(&candidates[i])...)
	}
	return candidates
}

func (v *FieldValidator) checkRecord(c *CandidateRecord) []string {
	var errs []string

	for _, required := range RequiredFields(c.Entity) {
		if strings.TrimSpace(c.Fields[required]) == "" {
			errs = append(errs, fmt.Sprintf("row %d: required field %q is empty", c.Row, required))
		}
	}

	switch c.Entity {
	case constants.EntityAircraft:
		if reg := c.Fields[FieldRegistration]; reg != "" && !registrationShape.MatchString(reg) {
			errs = append(errs, fmt.Sprintf("row %d: registration %q is not a valid tail number", c.Row, reg))
		}
	case constants.EntityCustomers:
		if color := c.Fields[FieldColor]; color != "" && !colorShape.MatchString(color) {
			errs = append(errs, fmt.Sprintf("row %d: color %q is not a hex color", c.Row, color))
		}
	}

	return errs
}
