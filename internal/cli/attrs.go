package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AttrsOptions holds flags for the attrs command.
type AttrsOptions struct {
	*RootOptions
	Error bool
}

// NewAttrsCommand creates the attrs command.
func NewAttrsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AttrsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "attrs <key>",
		Short: "Print netCDF variable attributes",
		Long: `Print the netCDF variable attributes of a parameter, in order.

Error column keys (e.g. C14ERR [/MILLE]) and --error describe the
uncertainty variable instead of the data variable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttrs(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Error, "error", false, "attributes of the uncertainty variable")

	return cmd
}

func runAttrs(opts *AttrsOptions, key string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	snap, err := opts.loadSnapshot(cmd, formatter)
	if err != nil {
		return err
	}

	v, err := snap.Registry.Lookup(key)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeLookupFailed, err.Error(), err)
	}

	attrs := v.NCAttrs(opts.Error || v.IsError())

	var b strings.Builder
	for _, a := range attrs {
		fmt.Fprintf(&b, "%s: %s\n", a.Name, a.Value)
	}
	return formatter.SuccessWithLoadID(attrs, b.String(), snap.ID.String())
}
