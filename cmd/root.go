package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwerner/flatkv/cmd/kv"
	"github.com/mwerner/flatkv/cmd/util"
)

const (
	Version = "1.2.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "flatkv",
		Short: "file-backed key-value store",
		Long: fmt.Sprintf(`flatkv (v%s)

A file-backed key-value store with atomic persistence and
cross-process locking. The entire document lives in one JSON
file; concurrent writers are serialized through an advisory
lock on a sibling lock file.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of flatkv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("flatkv v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "file"
	RootCmd.PersistentFlags().String(key, "flatkv.json", util.WrapString("path of the document file"))
	key = "codec"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("document codec to use (json, jsoniter)"))
	key = "strict-reads"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("route read operations through the exclusive lock as well"))
	key = "lock-timeout"
	RootCmd.PersistentFlags().Int(key, 0, util.WrapString("bounded wait for the exclusive lock in milliseconds (0 blocks forever)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
