// Package cmd provides the CLI commands for the console backend.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aoldacloud/console/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Console - multi-tenant cloud console backend",
	Long: `Console is the backend for the cloud web console. It brokers browser
sessions into OpenStack credentials: a login against Keystone yields an
opaque console token, and every subsequent API call is executed against
the OpenStack APIs under the caller's own project scope.

Quick start:
  1. Create a config file: console.yaml (see "console config init")
  2. Run: console serve

Configuration:
  Config is loaded from console.yaml in the current directory,
  $HOME/.console/, or /etc/console/.

  Environment variables can override config values with the CONSOLE_ prefix.
  Example: CONSOLE_KEYSTONE_AUTH_URL=https://keystone:5000/v3

Commands:
  serve       Start the console API server
  config      Manage configuration files
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./console.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
