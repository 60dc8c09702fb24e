package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// JSONOptions holds flags for the json command.
type JSONOptions struct {
	*RootOptions
	Output string // output file path
}

// NewJSONCommand creates the json command.
func NewJSONCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JSONOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export the legacy parameters JSON",
		Long: `Export every parameter in the legacy JSON document consumed by
older exchange tooling. The document is written as is, without the
--format json envelope.

Example:
  cchdo-params json -o parameters.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSON(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")

	return cmd
}

func runJSON(opts *JSONOptions, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	snap, err := opts.loadSnapshot(cmd, formatter)
	if err != nil {
		return err
	}

	data, err := snap.Registry.LegacyJSON()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("encoding legacy JSON: %v", err), err)
	}

	if opts.Output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), err)
	}
	formatter.VerboseLog("wrote %d parameters to %s", snap.Registry.Len(), opts.Output)
	return nil
}
