package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/relay/internal/client"
	"github.com/groblegark/relay/internal/ui"
)

var (
	serverURL  string
	jsonOutput bool

	api *client.Client
)

func defaultServer() string {
	if s := os.Getenv("RELAY_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:   "relayd",
	Short: "Relay bridges a message broker, an event store, and a cache",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !ui.ColorEnabled() {
			ui.ForceNoColor()
		}
		api = client.New(serverURL)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "relay server base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(consumeCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
