package cmd

import (
	"fmt"
	"strings"

	"github.com/Aditya73singh/rcai/internal/harvest"
	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List the topic buckets used for source inference",
	Long: `Show the fixed topic-to-channel mapping the harvester uses to infer
extra source channels from query terms on the first result page.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, topic := range harvest.TopicNames() {
			fmt.Printf("%-12s %s\n", topic, strings.Join(harvest.TopicChannels[topic], ", "))
		}
	},
}
