package compiler

import (
	"fmt"
	"sort"

	"github.com/cchdo/params/internal/params"
)

// Validation error codes (E100-E199)
const (
	ErrDuplicateKey       = "E101" // two params share (whp_name, whp_unit)
	ErrInvalidDtype       = "E102" // dtype outside string/decimal/integer
	ErrInvalidScope       = "E103" // scope outside cruise/profile/sample
	ErrInvalidFieldWidth  = "E104" // field_width must be positive
	ErrMissingPrecision   = "E105" // decimal param without numeric_precision
	ErrInvalidRange       = "E106" // numeric_min greater than numeric_max
	ErrUnknownCFName      = "E107" // cf_name not in the CF table
	ErrErrorNameCollision = "E108" // error column shadows a base key
	ErrAliasShadowsBase   = "E110" // alias equals a base key
	ErrAliasUnknownTarget = "E111" // alias canonical is not a base key
	ErrAliasConflict      = "E112" // alias declared twice with different targets
	ErrCFAliasUnknown     = "E113" // cf alias points at a missing standard name
	ErrCFAliasShadowsName = "E114" // cf alias equals a standard name
	ErrDuplicateErrorName = "E115" // error column claimed by two params
	ErrDuplicateCFName    = "E116" // standard name listed twice
)

// ValidationError represents a table validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the cross-table rules the CUE schema cannot express.
// Returns all errors found (does not fail-fast), in a stable order.
func Validate(t *params.Tables) []ValidationError {
	var errs []ValidationError

	base := make(map[params.Key]struct{}, len(t.Params))
	for i := range t.Params {
		errs = append(errs, validateParam(&t.Params[i])...)

		key := t.Params[i].Key()
		if _, dup := base[key]; dup {
			errs = append(errs, ValidationError{
				Field:   field(key),
				Message: "duplicate parameter",
				Code:    ErrDuplicateKey,
			})
		}
		base[key] = struct{}{}
	}

	errs = append(errs, validateErrorNames(t.Params, base)...)
	errs = append(errs, validateAliases(t.Aliases, base)...)
	errs = append(errs, validateCF(t)...)

	return errs
}

func validateParam(rec *params.Record) []ValidationError {
	var errs []ValidationError
	name := field(rec.Key())

	if !rec.Dtype.Valid() {
		errs = append(errs, ValidationError{
			Field:   name + ".dtype",
			Message: fmt.Sprintf("unknown dtype %q", rec.Dtype),
			Code:    ErrInvalidDtype,
		})
	}
	if !rec.Scope.Valid() {
		errs = append(errs, ValidationError{
			Field:   name + ".scope",
			Message: fmt.Sprintf("unknown scope %q", rec.Scope),
			Code:    ErrInvalidScope,
		})
	}
	if rec.FieldWidth <= 0 {
		errs = append(errs, ValidationError{
			Field:   name + ".field_width",
			Message: "field_width must be positive",
			Code:    ErrInvalidFieldWidth,
		})
	}
	if rec.Dtype == params.DtypeDecimal && rec.NumericPrecision == nil {
		errs = append(errs, ValidationError{
			Field:   name + ".numeric_precision",
			Message: "decimal parameters need a numeric_precision",
			Code:    ErrMissingPrecision,
		})
	}
	if rec.NumericMin != nil && rec.NumericMax != nil && *rec.NumericMin > *rec.NumericMax {
		errs = append(errs, ValidationError{
			Field:   name + ".numeric_min",
			Message: fmt.Sprintf("numeric_min %g is greater than numeric_max %g", *rec.NumericMin, *rec.NumericMax),
			Code:    ErrInvalidRange,
		})
	}

	return errs
}

func validateErrorNames(records []params.Record, base map[params.Key]struct{}) []ValidationError {
	var errs []ValidationError
	claimed := make(map[params.Key]params.Key)

	for i := range records {
		rec := &records[i]
		if rec.ErrorName == "" {
			continue
		}
		errKey := params.Key{Name: rec.ErrorName, Unit: rec.Unit}
		if _, ok := base[errKey]; ok {
			errs = append(errs, ValidationError{
				Field:   field(rec.Key()) + ".error_name",
				Message: fmt.Sprintf("error column %s is also a parameter", field(errKey)),
				Code:    ErrErrorNameCollision,
			})
		}
		if owner, ok := claimed[errKey]; ok && owner != rec.Key() {
			errs = append(errs, ValidationError{
				Field:   field(rec.Key()) + ".error_name",
				Message: fmt.Sprintf("error column %s already belongs to %s", field(errKey), field(owner)),
				Code:    ErrDuplicateErrorName,
			})
			continue
		}
		claimed[errKey] = rec.Key()
	}

	return errs
}

func validateAliases(aliases []params.AliasEntry, base map[params.Key]struct{}) []ValidationError {
	var errs []ValidationError
	seen := make(map[params.Key]params.Key, len(aliases))

	for _, a := range aliases {
		name := "aliases." + field(a.Alias)
		if _, ok := base[a.Alias]; ok {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: "alias cannot override a parameter",
				Code:    ErrAliasShadowsBase,
			})
		}
		if _, ok := base[a.Canonical]; !ok {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: fmt.Sprintf("canonical %s is not a parameter", field(a.Canonical)),
				Code:    ErrAliasUnknownTarget,
			})
		}
		if prev, ok := seen[a.Alias]; ok && prev != a.Canonical {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: fmt.Sprintf("already maps to %s", field(prev)),
				Code:    ErrAliasConflict,
			})
			continue
		}
		seen[a.Alias] = a.Canonical
	}

	return errs
}

func validateCF(t *params.Tables) []ValidationError {
	var errs []ValidationError

	names := make(map[string]struct{}, len(t.CFNames))
	for _, rec := range t.CFNames {
		if _, dup := names[rec.Name]; dup {
			errs = append(errs, ValidationError{
				Field:   "cf_names." + rec.Name,
				Message: "duplicate standard name",
				Code:    ErrDuplicateCFName,
			})
		}
		names[rec.Name] = struct{}{}
	}

	aliases := make([]string, 0, len(t.CFAliases))
	for alias := range t.CFAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		canonical := t.CFAliases[alias]
		if _, ok := names[alias]; ok {
			errs = append(errs, ValidationError{
				Field:   "cf_aliases." + alias,
				Message: "alias shadows a standard name",
				Code:    ErrCFAliasShadowsName,
			})
		}
		if _, ok := names[canonical]; !ok {
			errs = append(errs, ValidationError{
				Field:   "cf_aliases." + alias,
				Message: fmt.Sprintf("unknown standard name %q", canonical),
				Code:    ErrCFAliasUnknown,
			})
		}
	}

	// Without a CF table there is nothing to check cf_name against.
	if len(names) == 0 {
		return errs
	}
	for i := range t.Params {
		rec := &t.Params[i]
		if rec.CFName == "" {
			continue
		}
		_, isName := names[rec.CFName]
		_, isAlias := t.CFAliases[rec.CFName]
		if !isName && !isAlias {
			errs = append(errs, ValidationError{
				Field:   field(rec.Key()) + ".cf_name",
				Message: fmt.Sprintf("unknown standard name %q", rec.CFName),
				Code:    ErrUnknownCFName,
			})
		}
	}

	return errs
}

func field(k params.Key) string {
	return "params." + params.ToODV(k)
}
