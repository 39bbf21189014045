package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/anvil/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [modules...]",
		Short: "Compile and link modules and everything they depend on",
		Long: "Compile and link the given modules together with their dependencies.\n" +
			"Without arguments every module of the project is built.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			platform, _ := flags.GetString("platform")
			configuration, _ := flags.GetString("configuration")
			arch, _ := flags.GetString("arch")
			recompile, _ := flags.GetBool("recompile")
			printCompile, _ := flags.GetBool("print-compile-commands")
			printLink, _ := flags.GetBool("print-link-commands")
			threads, _ := flags.GetInt("threads")
			singleThreaded, _ := flags.GetBool("single-threaded")
			outputMode, _ := flags.GetString("output-mode")
			ci, _ := flags.GetBool("ci")
			watch, _ := flags.GetBool("watch")

			// If --ci is set, override output-mode to "linear"
			if ci {
				outputMode = "linear"
			}

			return c.app.Build(cmd.Context(), app.BuildOptions{
				Modules:              args,
				Platform:             platform,
				Architecture:         arch,
				Configuration:        configuration,
				Recompile:            recompile,
				PrintCompileCommands: printCompile,
				PrintLinkCommands:    printLink,
				Threads:              threads,
				SingleThreaded:       singleThreaded,
				OutputMode:           outputMode,
				Watch:                watch,
			})
		},
	}

	addTargetFlags(cmd)
	cmd.Flags().String("arch", "", "Target architecture: x64 or arm64 (default: host architecture)")
	cmd.Flags().BoolP("recompile", "r", false, "Clean the selected modules before building")
	cmd.Flags().Bool("print-compile-commands", false, "Print every compiler command line")
	cmd.Flags().Bool("print-link-commands", false, "Print every linker command line")
	cmd.Flags().IntP("threads", "j", 0, "Number of worker threads, 0 uses every CPU")
	cmd.Flags().Bool("single-threaded", false, "Run every step on a single thread")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild when module sources change")
	cmd.MarkFlagsMutuallyExclusive("threads", "single-threaded")
	return cmd
}
