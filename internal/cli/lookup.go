package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cchdo/params/internal/params"
)

// LookupResult describes one resolved key.
type LookupResult struct {
	Input     string  `json:"input"`
	Parameter string  `json:"parameter"` // base record in ODV form
	FullName  string  `json:"full_name"`
	NCName    string  `json:"nc_name"`
	Dtype     string  `json:"dtype"`
	Scope     string  `json:"scope"`
	Rank      float64 `json:"rank"`
	Width     int     `json:"field_width"`
	Precision *int    `json:"numeric_precision,omitempty"`
	AltDepth  int     `json:"alt_depth,omitempty"`
	Flag      bool    `json:"flag,omitempty"`
	Error     bool    `json:"error,omitempty"`
	Alias     string  `json:"alias,omitempty"`
	CFName    string  `json:"cf_name,omitempty"`
}

func newLookupResult(input string, v params.View) LookupResult {
	res := LookupResult{
		Input:     input,
		Parameter: v.ODVKey(),
		FullName:  v.FullName(),
		NCName:    v.FullNCName(),
		Dtype:     string(v.Dtype()),
		Scope:     string(v.Scope()),
		Rank:      v.Rank(),
		Width:     v.FieldWidth(),
		Precision: v.NumericPrecision(),
		AltDepth:  v.AltDepth(),
		Flag:      v.IsFlag(),
		Error:     v.IsError(),
		CFName:    v.CFName(),
	}
	if origin, ok := v.AliasOrigin(); ok {
		res.Alias = params.ToODV(origin)
	}
	return res
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <key>...",
		Short: "Resolve parameter keys",
		Long: `Resolve one or more keys against the registry.

Example:
  cchdo-params lookup "CTDPRS [DBAR]" "CTDSAL_FLAG_W [PSS-78]" "DELC14_ALT_1 [/MILLE]"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(rootOpts, args, cmd)
		},
	}
}

func runLookup(opts *RootOptions, keys []string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	snap, err := opts.loadSnapshot(cmd, formatter)
	if err != nil {
		return err
	}

	results := make([]LookupResult, 0, len(keys))
	for _, key := range keys {
		v, err := snap.Registry.Lookup(key)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeLookupFailed, err.Error(), err)
		}
		results = append(results, newLookupResult(key, v))
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s\n", r.Input)
		fmt.Fprintf(&b, "  parameter: %s\n", r.Parameter)
		fmt.Fprintf(&b, "  full name: %s\n", r.FullName)
		fmt.Fprintf(&b, "  nc name:   %s\n", r.NCName)
		fmt.Fprintf(&b, "  dtype:     %s (width %d)\n", r.Dtype, r.Width)
		if r.Alias != "" {
			fmt.Fprintf(&b, "  alias of:  %s\n", r.Alias)
		}
	}
	return formatter.SuccessWithLoadID(results, b.String(), snap.ID.String())
}
