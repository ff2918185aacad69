package services

import (
	"fmt"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// SheetValidator checks an article sheet before planning
type SheetValidator struct{}

// NewSheetValidator creates a new sheet validator
func NewSheetValidator() *SheetValidator {
	return &SheetValidator{}
}

// ValidationResult contains the results of sheet validation
type ValidationResult struct {
	MissingFields   []entities.Field
	DuplicateIDs    []entities.ArticleID
	PackagingErrors []entities.ArticleID
	Errors          []string
	Warnings        []string
}

// Fatal reports whether planning must not proceed
func (r *ValidationResult) Fatal() bool {
	return len(r.Errors) > 0
}

// SchemaError returns the schema error for missing fields, or nil
func (r *ValidationResult) SchemaError() error {
	if len(r.MissingFields) == 0 {
		return nil
	}
	return &entities.SchemaError{Missing: r.MissingFields}
}

// ValidateSheet performs schema and data validation on a sheet
func (v *SheetValidator) ValidateSheet(sheet *entities.ArticleSheet) *ValidationResult {
	result := &ValidationResult{
		MissingFields:   make([]entities.Field, 0),
		DuplicateIDs:    make([]entities.ArticleID, 0),
		PackagingErrors: make([]entities.ArticleID, 0),
		Errors:          make([]string, 0),
		Warnings:        make([]string, 0),
	}

	result.MissingFields = append(result.MissingFields, sheet.MissingFields()...)
	if len(result.MissingFields) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Missing required fields: %v", result.MissingFields))
		// rows are meaningless without the schema
		return result
	}

	// repeated ids are planned as separate lines
	result.DuplicateIDs = v.detectDuplicateIDs(sheet.Records)
	if len(result.DuplicateIDs) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Duplicate article ids found: %v", result.DuplicateIDs))
	}

	for _, record := range sheet.Records {
		if record.HasPackagingError() {
			result.PackagingErrors = append(result.PackagingErrors, record.ID)
		}
	}
	if len(result.PackagingErrors) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d articles with zero case or pallet pack, substituted with 1", len(result.PackagingErrors)))
	}

	return result
}

// detectDuplicateIDs finds article ids that occur more than once
func (v *SheetValidator) detectDuplicateIDs(records []*entities.ArticleRecord) []entities.ArticleID {
	seen := make(map[entities.ArticleID]int)
	duplicates := make([]entities.ArticleID, 0)

	for _, record := range records {
		seen[record.ID]++
		if seen[record.ID] == 2 {
			duplicates = append(duplicates, record.ID)
		}
	}

	return duplicates
}
