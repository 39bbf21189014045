package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/anvil/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [modules...]",
		Short: "Delete the build outputs of modules",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, _ := cmd.Flags().GetString("platform")
			configuration, _ := cmd.Flags().GetString("configuration")
			checksums, _ := cmd.Flags().GetBool("checksums")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				Modules:       args,
				Platform:      platform,
				Configuration: configuration,
				Checksums:     checksums,
			})
		},
	}

	addTargetFlags(cmd)
	cmd.Flags().Bool("checksums", false, "Also delete the incremental build checksums")

	return cmd
}
