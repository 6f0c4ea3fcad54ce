package kv

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwerner/flatkv/cmd/util"
	"github.com/mwerner/flatkv/lib/logging"
	"github.com/mwerner/flatkv/lib/store"
)

var (
	docStore store.IDocumentStore

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value store operations",
		PersistentPreRunE: setupStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(updateCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(incrCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(clearCmd)
	KeyValueCommands.AddCommand(infoCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupStore initializes logging and opens the configured store
func setupStore(cmd *cobra.Command, _ []string) error {
	// Bind the command's own and inherited flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}

	if err := logging.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	var err error
	docStore, err = util.OpenStore()
	return err
}
