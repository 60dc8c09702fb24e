package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cchdo/params/internal/params"
)

// CFSummary describes the loaded CF standard name table.
type CFSummary struct {
	Version string   `json:"version"`
	Count   int      `json:"count"`
	Names   []string `json:"names"`
}

// NewCFCommand creates the cf command.
func NewCFCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cf [standard-name]",
		Short: "Look up CF standard names",
		Long: `Without arguments, list the CF standard names in the table.
With a name, print its record. Aliases resolve to their canonical name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runCFList(rootOpts, cmd)
			}
			return runCFGet(rootOpts, args[0], cmd)
		},
	}
}

func runCFList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	snap, err := opts.loadSnapshot(cmd, formatter)
	if err != nil {
		return err
	}

	summary := CFSummary{Version: snap.CFVersion, Count: snap.CF.Len(), Names: snap.CF.Names()}

	var b strings.Builder
	fmt.Fprintf(&b, "CF standard name table v%s (%d names)\n", summary.Version, summary.Count)
	for _, name := range summary.Names {
		fmt.Fprintf(&b, "  %s\n", name)
	}
	return formatter.SuccessWithLoadID(summary, b.String(), snap.ID.String())
}

func runCFGet(opts *RootOptions, name string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	snap, err := opts.loadSnapshot(cmd, formatter)
	if err != nil {
		return err
	}

	rec, ok := snap.CF.Get(name)
	if !ok {
		err := fmt.Errorf("%w: CF standard name %q", params.ErrNotFound, name)
		return formatter.Fail(ExitFailure, ErrCodeLookupFailed, err.Error(), err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rec.Name)
	if rec.Name != name {
		fmt.Fprintf(&b, "  alias:           %s\n", name)
	}
	fmt.Fprintf(&b, "  canonical units: %s\n", rec.CanonicalUnits)
	if rec.AMIP != "" {
		fmt.Fprintf(&b, "  amip:            %s\n", rec.AMIP)
	}
	if rec.GRIB != "" {
		fmt.Fprintf(&b, "  grib:            %s\n", rec.GRIB)
	}
	if rec.Description != "" {
		fmt.Fprintf(&b, "  %s\n", rec.Description)
	}
	return formatter.SuccessWithLoadID(rec, b.String(), snap.ID.String())
}
