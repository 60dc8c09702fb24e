package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// InfoResult summarizes the loaded registry.
type InfoResult struct {
	LoadID       string `json:"load_id"`
	Source       string `json:"source"`
	LoadedAt     string `json:"loaded_at"`
	Params       int    `json:"params"`
	Aliases      int    `json:"aliases"`
	ErrorColumns int    `json:"error_columns"`
	CFNames      int    `json:"cf_names"`
	CFVersion    string `json:"cf_version"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarize the loaded registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd)
		},
	}
}

func runInfo(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	snap, err := opts.loadSnapshot(cmd, formatter)
	if err != nil {
		return err
	}

	info := InfoResult{
		LoadID:       snap.ID.String(),
		Source:       string(snap.Source),
		LoadedAt:     snap.LoadedAt.Format(time.RFC3339),
		Params:       snap.Registry.Len(),
		Aliases:      len(snap.Registry.Aliases()),
		ErrorColumns: len(snap.Registry.ErrorColumns()),
		CFNames:      snap.CF.Len(),
		CFVersion:    snap.CFVersion,
	}

	text := fmt.Sprintf(`load id:       %s
source:        %s
loaded at:     %s
parameters:    %d
aliases:       %d
error columns: %d
cf names:      %d (table v%s)
`, info.LoadID, info.Source, info.LoadedAt, info.Params, info.Aliases, info.ErrorColumns, info.CFNames, info.CFVersion)

	return formatter.SuccessWithLoadID(info, text, info.LoadID)
}
