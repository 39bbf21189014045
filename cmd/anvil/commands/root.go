// Package commands implements the CLI commands for the anvil build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/anvil/internal/app"
	"go.trai.ch/anvil/internal/build"
)

// CLI represents the command line interface for anvil.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	SetJSONLog(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "anvil",
		Short:         "Incremental builds for multi-platform native projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json-log", false, "Write log messages as JSON")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		// Unset, the format chosen through the environment stays in effect.
		if !cmd.Flags().Changed("json-log") {
			return
		}
		jsonLog, _ := cmd.Flags().GetBool("json-log")
		a.SetJSONLog(jsonLog)
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// addTargetFlags registers the flags selecting the platform and configuration.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("platform", "p", "", "Target platform (default: host platform)")
	cmd.Flags().StringP("configuration", "c", "Debug", "Build configuration: Debug or Release")
}
