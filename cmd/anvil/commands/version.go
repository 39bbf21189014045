package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/anvil/internal/build"
	"go.trai.ch/anvil/internal/core/domain"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and the default build target",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "anvil version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date)
			_, _ = fmt.Fprintf(w, "default target: %s %s %s\n",
				domain.HostPlatform(), domain.HostArchitecture(), domain.ConfigurationDebug)
		},
	}
}
