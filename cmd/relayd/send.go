package main

import (
	"fmt"
	"os/user"

	"github.com/spf13/cobra"
)

var sendSource string

func defaultSource() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "relayd"
}

var sendCmd = &cobra.Command{
	Use:   "send <topic> <message>",
	Short: "Publish a message to a topic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := api.Send(cmd.Context(), args[0], args[1], sendSource)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}
		fmt.Printf("sent to %s (event %d)\n", result.TopicName, result.EventID)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendSource, "source", defaultSource(), "sender name recorded on the event")
}
