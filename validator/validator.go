package validator

import (
	"fmt"

	"github.com/ridoystarlord/schemashot/schema"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// ValidationError represents a validation finding with details
type ValidationError struct {
	Type         string `json:"type"`
	Table        string `json:"table,omitempty"`
	Column       string `json:"column,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

func (r *ValidationResult) add(e ValidationError) {
	switch e.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, e)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, e)
	default:
		r.Info = append(r.Info, e)
	}
}

// Validate checks a structurally valid schema for referential integrity:
// unique names, relationship endpoints that resolve to declared tables and
// columns, and a few softer conventions reported as warnings or info.
// It never modifies s.
func Validate(s *schema.DatabaseSchema) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	tables := validateTables(s, result)
	covered := validateRelationships(s, tables, result)
	reportUncoveredForeignKeys(s, covered, result)

	result.Valid = len(result.Errors) == 0
	return result
}

// validateTables checks names and returns the column set of every table
func validateTables(s *schema.DatabaseSchema, result *ValidationResult) map[string]map[string]bool {
	tables := make(map[string]map[string]bool, len(s.Tables))

	for i, table := range s.Tables {
		if table.Name == "" {
			result.add(ValidationError{
				Type:     "table_name",
				Message:  fmt.Sprintf("Table #%d has an empty name", i+1),
				Severity: SeverityError,
			})
		} else if _, dup := tables[table.Name]; dup {
			result.add(ValidationError{
				Type:     "duplicate_table",
				Table:    table.Name,
				Message:  fmt.Sprintf("Duplicate table name '%s'", table.Name),
				Severity: SeverityError,
			})
			continue
		}

		columns := make(map[string]bool, len(table.Columns))
		tables[table.Name] = columns

		if len(table.Columns) == 0 {
			result.add(ValidationError{
				Type:     "no_columns",
				Table:    table.Name,
				Message:  fmt.Sprintf("Table '%s' must have at least one column", table.Name),
				Severity: SeverityError,
			})
			continue
		}

		hasPrimaryKey := false
		for j, column := range table.Columns {
			if column.Name == "" {
				result.add(ValidationError{
					Type:     "column_name",
					Table:    table.Name,
					Message:  fmt.Sprintf("Column #%d in table '%s' has an empty name", j+1, table.Name),
					Severity: SeverityError,
				})
				continue
			}
			if columns[column.Name] {
				result.add(ValidationError{
					Type:     "duplicate_column",
					Table:    table.Name,
					Column:   column.Name,
					Message:  fmt.Sprintf("Duplicate column name '%s' in table '%s'", column.Name, table.Name),
					Severity: SeverityError,
				})
				continue
			}
			columns[column.Name] = true
			if column.IsPrimaryKey {
				hasPrimaryKey = true
			}
		}

		if !hasPrimaryKey {
			result.add(ValidationError{
				Type:     "no_primary_key",
				Table:    table.Name,
				Message:  fmt.Sprintf("Table '%s' has no primary key defined", table.Name),
				Severity: SeverityWarning,
			})
		}
	}

	return tables
}

// validateRelationships checks every endpoint and returns the set of
// "table.column" endpoints that were resolved
func validateRelationships(s *schema.DatabaseSchema, tables map[string]map[string]bool, result *ValidationResult) map[string]bool {
	covered := map[string]bool{}

	for _, rel := range s.Relationships {
		label := rel.String()

		if !rel.Type.Known() {
			result.add(ValidationError{
				Type:         "relationship_type",
				Relationship: label,
				Message:      fmt.Sprintf("Relationship type '%s' is not one of 1:1, 1:N, N:M", rel.Type),
				Severity:     SeverityWarning,
			})
		}

		endpoints := []struct {
			side, table, column string
		}{
			{"from", rel.FromTable, rel.FromColumn},
			{"to", rel.ToTable, rel.ToColumn},
		}
		for _, ep := range endpoints {
			if ep.table == "" || ep.column == "" {
				result.add(ValidationError{
					Type:         "relationship_endpoint",
					Relationship: label,
					Message:      fmt.Sprintf("Relationship %s endpoint is incomplete", ep.side),
					Severity:     SeverityError,
				})
				continue
			}

			columns, ok := tables[ep.table]
			if !ok {
				result.add(ValidationError{
					Type:         "relationship_table_not_found",
					Table:        ep.table,
					Relationship: label,
					Message:      fmt.Sprintf("Relationship references non-existent table '%s'", ep.table),
					Severity:     SeverityError,
				})
				continue
			}
			if !columns[ep.column] {
				result.add(ValidationError{
					Type:         "relationship_column_not_found",
					Table:        ep.table,
					Column:       ep.column,
					Relationship: label,
					Message:      fmt.Sprintf("Relationship references non-existent column '%s' in table '%s'", ep.column, ep.table),
					Severity:     SeverityError,
				})
				continue
			}
			covered[ep.table+"."+ep.column] = true
		}
	}

	return covered
}

func reportUncoveredForeignKeys(s *schema.DatabaseSchema, covered map[string]bool, result *ValidationResult) {
	for _, table := range s.Tables {
		for _, column := range table.Columns {
			if column.IsForeignKey && !covered[table.Name+"."+column.Name] {
				result.add(ValidationError{
					Type:     "foreign_key_without_relationship",
					Table:    table.Name,
					Column:   column.Name,
					Message:  fmt.Sprintf("Column '%s.%s' is a foreign key but no relationship uses it", table.Name, column.Name),
					Severity: SeverityInfo,
				})
			}
		}
	}
}
