// Adbscan finds and drives Android-debug-capable devices on the local network.
//
// It scans address ranges for listening adb daemons using a raw
// protocol handshake, browses mDNS for devices advertising wireless
// debugging, and wraps the host adb binary for device management:
// connect, shell, property access, file transfer and package
// installation.
//
// Usage:
//
//	adbscan [command] [flags]
//
// See 'adbscan --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/adbscan/internal/logging"
	"github.com/muurk/adbscan/internal/version"
)

func main() {
	logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "adbscan",
	Short: "Network scanner and client for Android debug devices",
	Long: `A utility for finding and driving adb-capable devices over the network.

Scans address ranges for listening adb daemons, browses mDNS for
devices advertising wireless debugging, and wraps the host adb binary
for device management.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("adbscan %s (commit: %s)\n", version.Version, version.Commit)

		// Best effort: a missing adb is not an error for this command.
		tool, err := getTool(cmd.Context())
		if err != nil {
			fmt.Println("adb: not found")
			return
		}
		if v, err := tool.Version(cmd.Context()); err == nil {
			fmt.Printf("adb %s (%s)\n", v, tool.Path())
		}
	},
}
