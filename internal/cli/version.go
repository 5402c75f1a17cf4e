package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/pkg/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.GetDetailedVersion())
		},
	}
}
