package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "unold",
		Short: "Check that packages pinned in Containerfiles are up to date",
		Long: `Unold finds the package installs in Containerfiles, asks the package
manager inside a container built from the same Containerfile for the latest
versions, and reports every pinned package that is out of date.

Supported package managers:
  - Alpine/APK (apk add)`,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewCheckCmd())

	return rootCmd
}
