package harness

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cchdo/params/internal/params"
)

// Error kinds used in expectations and traces.
const (
	KindNotFound           = "not_found"
	KindParse              = "parse"
	KindInvalidKey         = "invalid_key"
	KindDuplicateAlias     = "duplicate_alias"
	KindInvalidAliasTarget = "invalid_alias_target"
	KindInvalidModifier    = "invalid_modifier"
	KindFormat             = "format"
	KindOther              = "error"
)

// ErrorKind maps a registry error onto its expectation name.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, params.ErrNotFound):
		return KindNotFound
	// ErrInvalidKey also matches ErrParse.
	case errors.Is(err, params.ErrInvalidKey):
		return KindInvalidKey
	case errors.Is(err, params.ErrParse):
		return KindParse
	case errors.Is(err, params.ErrDuplicateAlias):
		return KindDuplicateAlias
	case errors.Is(err, params.ErrInvalidAliasTarget):
		return KindInvalidAliasTarget
	case errors.Is(err, params.ErrInvalidModifier):
		return KindInvalidModifier
	case errors.Is(err, params.ErrFormat):
		return KindFormat
	}
	return KindOther
}

func checkExpect(r *Result, seq int, step Step, out map[string]string, err error) {
	label := fmt.Sprintf("step %d (%s %q)", seq, step.Op, step.Key)

	if step.Expect == nil || step.Expect.Error == "" {
		if err != nil {
			r.AddError(fmt.Sprintf("%s: unexpected error: %v", label, err))
			return
		}
	}
	if step.Expect == nil {
		return
	}

	if want := step.Expect.Error; want != "" {
		if err == nil {
			r.AddError(fmt.Sprintf("%s: expected %s error, got success", label, want))
			return
		}
		if got := ErrorKind(err); got != want {
			r.AddError(fmt.Sprintf("%s: expected %s error, got %s: %v", label, want, got, err))
		}
		return
	}

	fields := make([]string, 0, len(step.Expect.Output))
	for k := range step.Expect.Output {
		fields = append(fields, k)
	}
	slices.Sort(fields)
	for _, field := range fields {
		want := step.Expect.Output[field]
		got, ok := out[field]
		switch {
		case !ok:
			r.AddError(fmt.Sprintf("%s: output %s missing, want %q", label, field, want))
		case got != want:
			r.AddError(fmt.Sprintf("%s: output %s = %q, want %q", label, field, got, want))
		}
	}
}
