package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// parseValueArg decodes a command line value. Valid JSON is taken as-is
// (so numbers, booleans, objects and lists work), anything else is treated
// as a plain string.
func parseValueArg(arg string) any {
	var value any
	if err := json.Unmarshal([]byte(arg), &value); err != nil {
		return arg
	}
	return value
}

// parsePartialArg decodes a JSON object argument for update operations
func parsePartialArg(arg string) (map[string]any, error) {
	partial := map[string]any{}
	if err := json.Unmarshal([]byte(arg), &partial); err != nil {
		return nil, fmt.Errorf("partial must be a JSON object: %w", err)
	}
	return partial, nil
}

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Long:  "Sets the value for a key. The value is parsed as JSON, a non-JSON argument is stored as a plain string.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := parseValueArg(args[1])
			if err := docStore.Set(key, value); err != nil {
				return err
			} else {
				fmt.Println("set successfully")
			}
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, loaded, err := docStore.Get(key)
			if err != nil {
				return err
			}
			if !loaded {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=true, value=%s\n", key, encoded)
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [key] [partial]",
		Short: "Merges a JSON object into the value for a key",
		Long: "Merges the fields of a JSON object into the existing value for a key. " +
			"Named fields are overwritten, other existing fields are retained. " +
			"A missing key or a non-object value is replaced with the partial.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			partial, err := parsePartialArg(args[1])
			if err != nil {
				return err
			}
			if err := docStore.Update(key, partial); err != nil {
				return err
			} else {
				fmt.Println("update successfully")
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := docStore.Delete(key); err != nil {
				return err
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}
	incrCmd = &cobra.Command{
		Use:   "incr [key] [field]",
		Short: "Increments a numeric field of the record stored under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			field := args[1]
			delta, err := cmd.Flags().GetInt64("by")
			if err != nil {
				return err
			}
			value, err := docStore.Increment(key, field, delta)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, field=%s, value=%d\n", key, field, value)
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if found, err := docStore.Has(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%t\n", key, found)
			}
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys of the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := docStore.Keys()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Println("(empty)")
				return nil
			}
			fmt.Println(strings.Join(keys, "\n"))
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all keys from the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := docStore.Clear(); err != nil {
				return err
			}
			fmt.Println("clear successfully")
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Shows metadata about the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := docStore.Info()
			if err != nil {
				return err
			}
			fmt.Printf("backend=%s\n", info.Backend)
			fmt.Printf("path=%s\n", info.Path)
			fmt.Printf("size=%s\n", humanize.Bytes(uint64(info.SizeBytes)))
			fmt.Printf("keys=%d\n", info.NumKeys)

			if dump, _ := cmd.Flags().GetBool("metrics"); dump {
				fmt.Println()
				metrics.WritePrometheus(os.Stdout, false)
			}
			return nil
		},
	}
)

func init() {
	incrCmd.Flags().Int64("by", 1, "amount to add to the field")
	infoCmd.Flags().Bool("metrics", false, "also dump operation metrics in Prometheus text format")
}
