package schema

import (
	"fmt"
	"strings"

	"ariga.io/atlas/sql/schema"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of changeset validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	write := func(title string, errs []*ValidationError) {
		if len(errs) == 0 {
			return
		}
		sb.WriteString(title)
		sb.WriteString(":\n")
		for _, e := range errs {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption configures changeset validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn    bool
	allowDropTable     bool
	allowNullToNotNull bool
}

// AllowDropColumn reports dropped columns as warnings instead of errors.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropColumn = true
	}
}

// AllowDropTable reports dropped tables as warnings instead of errors.
func AllowDropTable() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropTable = true
	}
}

// AllowNullToNotNull reports nullable columns becoming NOT NULL as
// warnings instead of errors.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) {
		c.allowNullToNotNull = true
	}
}

// Validate inspects a changeset for destructive operations. Dropped tables,
// dropped columns and nullable columns becoming NOT NULL are errors unless
// allowed by an option. Type changes and NOT NULL columns added to existing
// tables are warnings.
//
// Example:
//
//	result := schema.Validate(changes, schema.AllowDropTable())
//	if result.HasErrors() {
//	    log.Fatal("Breaking changes detected:", result)
//	}
func Validate(changes []schema.Change, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	result := &ValidationResult{}
	report := func(allowed bool, err *ValidationError) {
		if allowed {
			result.Warnings = append(result.Warnings, err)
		} else {
			result.Errors = append(result.Errors, err)
		}
	}
	for _, c := range changes {
		switch c := c.(type) {
		case *schema.DropTable:
			report(cfg.allowDropTable, &ValidationError{
				Table:    c.T.Name,
				Message:  "table will be dropped",
				Breaking: true,
			})
		case *schema.ModifyTable:
			validateTable(c, cfg, report)
		}
	}
	return result
}

func validateTable(m *schema.ModifyTable, cfg *validateConfig, report func(bool, *ValidationError)) {
	for _, c := range m.Changes {
		switch c := c.(type) {
		case *schema.DropColumn:
			report(cfg.allowDropColumn, &ValidationError{
				Table:    m.T.Name,
				Column:   c.C.Name,
				Message:  "column will be dropped",
				Breaking: true,
			})
		case *schema.AddColumn:
			if c.C.Type != nil && !c.C.Type.Null && c.C.Default == nil {
				report(true, &ValidationError{
					Table:    m.T.Name,
					Column:   c.C.Name,
					Message:  "NOT NULL column added without default; fails on non-empty tables",
					Breaking: true,
				})
			}
		case *schema.ModifyColumn:
			if c.Change.Is(schema.ChangeNull) && c.From.Type.Null && !c.To.Type.Null {
				report(cfg.allowNullToNotNull, &ValidationError{
					Table:    m.T.Name,
					Column:   c.To.Name,
					Message:  "column changes from nullable to NOT NULL",
					Breaking: true,
				})
			}
			if c.Change.Is(schema.ChangeType) {
				report(true, &ValidationError{
					Table:   m.T.Name,
					Column:  c.To.Name,
					Message: "column type changes",
				})
			}
		}
	}
}
