package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/relay/internal/ui"
)

var consumeLimit int

var consumeCmd = &cobra.Command{
	Use:   "consume <topic>",
	Short: "Read pending messages from a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := api.Consume(cmd.Context(), args[0], consumeLimit)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}
		if result.Count == 0 {
			fmt.Println(ui.Muted("no messages"))
			return nil
		}
		for _, m := range result.Messages {
			fmt.Println(m)
		}
		fmt.Println(ui.Muted(fmt.Sprintf("%d message(s)", result.Count)))
		return nil
	},
}

func init() {
	consumeCmd.Flags().IntVar(&consumeLimit, "limit", 0, "max messages to read (0 = server default)")
}
