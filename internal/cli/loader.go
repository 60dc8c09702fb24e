package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/cchdo/params/internal/compiler"
	"github.com/cchdo/params/internal/params"
)

// LoadResult contains the tables compiled from a CUE directory.
type LoadResult struct {
	Tables    *params.Tables
	FileCount int // Number of CUE files found
}

// LoadError represents an error that occurred while loading a tables
// directory.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadTablesDir compiles the CUE tables package in dir. Path problems and
// compile failures come back as a *LoadError with a stable code; cross-table
// rule violations are left to compiler.Validate.
func LoadTablesDir(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("tables directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing tables directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := compiler.FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	tables, count, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, convertCompileError(err, dir)
	}
	return &LoadResult{Tables: tables, FileCount: count}, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
// E1xx codes come from compiler.Validate.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeScanError      = "E002" // Directory scan error
	ErrCodeNoFiles        = "E003" // No CUE files found
	ErrCodeLoadFailed     = "E004" // CUE load failed
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeBuildFailed    = "E006" // CUE build failed
	ErrCodeWriteFailed    = "E007" // File write error
	ErrCodeDatabase       = "E008" // SQLite open/seed/read error
	ErrCodeConfig         = "E009" // Invalid configuration
	ErrCodeLookupFailed   = "E010" // Key did not resolve
	ErrCodeFormatFailed   = "E011" // Value could not be formatted
	ErrCodeRegistry       = "E012" // Registry or alias file rejected
	ErrCodeScenarioFailed = "E013" // Conformance scenario failed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "files":
		return ErrCodeNoFiles
	case field == "load":
		return ErrCodeLoadFailed
	case field == "cue":
		return ErrCodeBuildFailed
	case field == "dtype":
		return compiler.ErrInvalidDtype
	case field == "scope":
		return compiler.ErrInvalidScope
	case strings.HasSuffix(field, ".field_width"):
		return compiler.ErrInvalidFieldWidth
	case strings.HasPrefix(field, "aliases."):
		return compiler.ErrAliasUnknownTarget
	default:
		return ErrCodeGeneric
	}
}
