package main

import (
	"github.com/spf13/cobra"

	"github.com/groblegark/relay/internal/model"
)

var (
	eventsTopic string
	eventsUser  string
	eventsSkip  int
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recorded message events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := api.Events(cmd.Context(), model.EventFilter{
			TopicName: eventsTopic,
			UserID:    eventsUser,
			Skip:      eventsSkip,
			Limit:     eventsLimit,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}
		printEventTable(result.Events, result.Total)
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsTopic, "topic", "", "filter by topic name")
	eventsCmd.Flags().StringVar(&eventsUser, "user", "", "filter by user id")
	eventsCmd.Flags().IntVar(&eventsSkip, "skip", 0, "rows to skip")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 0, "max rows (0 = server default)")
}
