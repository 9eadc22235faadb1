package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig     string
	flagMode       string
	flagSort       string
	flagWindow     string
	flagMinUpvotes int
	flagLimit      int
	flagPage       int
	flagJSON       bool
	flagOpen       int
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "rcai [query]",
	Short: "Harvest, score, and rank comments from the content API",
	Long: `rcai pulls comments for a query from a Reddit-style content API,
scores them for relevance, recency, and quality, and prints the ranked
result set.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagMode, "mode", "all", "filter mode: all, keyword, channel, author")
	rootCmd.Flags().StringVar(&flagSort, "sort", "relevance", "sort criterion: relevance, upvotes, recency, awards")
	rootCmd.Flags().StringVar(&flagWindow, "window", "week", "time window for top listings: hour, day, week, month, year, all")
	rootCmd.Flags().IntVar(&flagMinUpvotes, "min-upvotes", 0, "drop comments below this upvote count")
	rootCmd.Flags().IntVar(&flagLimit, "limit", 20, "page size")
	rootCmd.Flags().IntVar(&flagPage, "page", 1, "result page (1-based)")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "print the result set as JSON")
	rootCmd.Flags().IntVar(&flagOpen, "open", 0, "open the Nth result's permalink in the browser")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log harvest diagnostics")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(channelsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rcai %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
