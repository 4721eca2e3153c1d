package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/relay/internal/cache"
	"github.com/groblegark/relay/internal/ui"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Read and write cache entries",
}

var cacheSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value under a key",
	Long: "Store a value under a key. A value that parses as JSON is stored " +
		"structured; anything else is stored as plain text.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, raw := args[0], args[1]

		value := cache.TextValue(raw)
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" && trimmed[0] != '"' && json.Valid([]byte(trimmed)) {
			value = cache.StructuredValue(json.RawMessage(trimmed))
		}

		if err := api.CacheSet(cmd.Context(), key, value); err != nil {
			return err
		}
		fmt.Printf("set %s\n", key)
		return nil
	},
}

var cacheGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Fetch the value stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := api.CacheGet(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}
		if !result.Found {
			fmt.Println(ui.Muted("(not found)"))
			return nil
		}
		if result.Value.Kind == cache.KindText {
			fmt.Println(result.Value.Text)
			return nil
		}
		fmt.Println(string(result.Value.Raw))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheSetCmd)
	cacheCmd.AddCommand(cacheGetCmd)
}
