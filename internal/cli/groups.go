package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cchdo/params/internal/params"
)

// GroupResult lists the parameters of one scope in canonical order.
type GroupResult struct {
	Scope      string   `json:"scope"`
	Parameters []string `json:"parameters"`
}

// NewGroupsCommand creates the groups command.
func NewGroupsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "groups [scope]",
		Short: "List parameters by scope",
		Long: `List the cruise, profile and sample parameter groups in canonical
(historic column) order, or just one group when a scope is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := ""
			if len(args) == 1 {
				scope = args[0]
			}
			return runGroups(rootOpts, scope, cmd)
		},
	}
}

func runGroups(opts *RootOptions, scope string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	snap, err := opts.loadSnapshot(cmd, formatter)
	if err != nil {
		return err
	}

	groups := snap.Registry.Groups()
	scopes := []params.Scope{params.ScopeCruise, params.ScopeProfile, params.ScopeSample}
	if scope != "" {
		s := params.Scope(scope)
		if !s.Valid() {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("unknown scope %q", scope), nil)
		}
		scopes = []params.Scope{s}
	}

	results := make([]GroupResult, 0, len(scopes))
	var b strings.Builder
	for _, s := range scopes {
		g, _ := groups.ForScope(s)
		res := GroupResult{Scope: string(s), Parameters: []string{}}
		for _, v := range g.Views() {
			res.Parameters = append(res.Parameters, v.ODVKey())
		}
		results = append(results, res)

		fmt.Fprintf(&b, "%s (%d)\n", s, len(res.Parameters))
		for _, p := range res.Parameters {
			fmt.Fprintf(&b, "  %s\n", p)
		}
	}
	return formatter.SuccessWithLoadID(results, b.String(), snap.ID.String())
}
