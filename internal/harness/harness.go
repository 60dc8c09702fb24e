package harness

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/cchdo/params/internal/loader"
	"github.com/cchdo/params/internal/params"
)

// Run executes a scenario against a freshly loaded registry.
//
// Each run loads its own registry, so session aliases never leak between
// scenarios. Step failures are reported in the Result; the returned error
// is reserved for table loading and alias setup.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	return RunWithLogger(ctx, s, zerolog.Nop())
}

// RunWithLogger is Run with registry logs sent to logger.
func RunWithLogger(ctx context.Context, s *Scenario, logger zerolog.Logger) (*Result, error) {
	opts := loader.Options{Source: loader.SourceEmbedded, Logger: logger}
	if s.Tables != "" {
		opts.Source = loader.SourceCUE
		opts.TablesDir = s.Tables
	}
	snap, err := loader.New(opts).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	reg := snap.Registry

	for _, a := range s.Aliases {
		if err := reg.AddAlias(a.Alias, a.Canonical); err != nil {
			return nil, fmt.Errorf("setup alias %s: %w", a.Alias, err)
		}
	}

	result := NewResult()
	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, stepErr := execute(reg, step)
		ev := TraceEvent{Op: step.Op, Key: step.Key, Output: out}
		if stepErr != nil {
			ev.Output = nil
			ev.Error = ErrorKind(stepErr)
		}
		seq := result.AddTrace(ev)
		checkExpect(result, seq, step, out, stepErr)
	}

	return result, nil
}

func execute(reg *params.Registry, step Step) (map[string]string, error) {
	switch step.Op {
	case OpContains:
		return map[string]string{"found": strconv.FormatBool(reg.Contains(step.Key))}, nil
	case OpAddAlias:
		if err := reg.AddAlias(step.Key, step.Canonical); err != nil {
			return nil, err
		}
		return nil, nil
	}

	v, err := reg.Lookup(step.Key)
	if err != nil {
		return nil, err
	}

	switch step.Op {
	case OpStrfex:
		return strfex(v, step)
	case OpAttrs:
		attrs := v.NCAttrs(step.ErrorColumn || v.IsError())
		out := make(map[string]string, len(attrs))
		for _, a := range attrs {
			out[a.Name] = a.Value
		}
		return out, nil
	}
	return describe(v), nil
}

func describe(v params.View) map[string]string {
	out := map[string]string{
		"parameter": params.ToODV(v.Key()),
		"full_name": v.FullName(),
		"nc_name":   v.FullNCName(),
		"dtype":     string(v.Dtype()),
		"scope":     string(v.Scope()),
	}
	if alias, ok := v.AliasOrigin(); ok {
		out["alias"] = params.ToODV(alias)
	}
	return out
}

func strfex(v params.View, step Step) (map[string]string, error) {
	hint, err := params.ParseHint(step.Hint)
	if err != nil {
		return nil, err
	}

	value := step.Value
	if hint != params.HintNone {
		if value, err = parseClock(value, hint); err != nil {
			return nil, err
		}
	}

	text, err := v.Strfex(value, params.FormatOptions{
		Flag:      step.Flag || v.IsFlag(),
		Precision: step.Precision,
		Hint:      hint,
	})
	if err != nil {
		return nil, err
	}
	return map[string]string{"text": text}, nil
}

// parseClock reads a date ("20160208", "2016-02-08") or a time ("0745",
// "07:45") for hinted strfex steps.
func parseClock(value any, hint params.Hint) (time.Time, error) {
	switch t := value.(type) {
	case time.Time:
		return t, nil
	case string:
		layouts := []string{"20060102", "2006-01-02"}
		if hint == params.HintTime {
			layouts = []string{"1504", "15:04"}
		}
		for _, layout := range layouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot read %v as a %s", params.ErrFormat, value, hintName(hint))
}

func hintName(h params.Hint) string {
	if h == params.HintTime {
		return "time"
	}
	return "date"
}
