package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/Aditya73singh/rcai/internal/auth"
	"github.com/Aditya73singh/rcai/internal/browser"
	"github.com/Aditya73singh/rcai/internal/cache"
	"github.com/Aditya73singh/rcai/internal/config"
	"github.com/Aditya73singh/rcai/internal/harvest"
	"github.com/Aditya73singh/rcai/internal/reddit"
	"github.com/Aditya73singh/rcai/internal/search"
	"github.com/Aditya73singh/rcai/internal/types"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// publicBase is where synthesized permalinks resolve for --open.
const publicBase = "https://www.reddit.com"

func runSearch(cmd *cobra.Command, args []string) error {
	// Credentials may live in a local .env; absence is fine.
	_ = godotenv.Load()

	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.CredentialsSet() {
		return fmt.Errorf("missing API credentials: set RCAI_CLIENT_ID and RCAI_CLIENT_SECRET (or auth in config)")
	}

	tokens := auth.NewManager(cfg.ClientID(), cfg.ClientSecret(), cfg.API.TokenURL, cfg.ResolvedUserAgent(), logger)
	client := reddit.NewClient(cfg.API.BaseURL, cfg.ResolvedUserAgent(), tokens, logger)
	harvester := harvest.New(client, harvest.Options{
		Budget:     cfg.HarvestBudget(),
		ChunkSize:  cfg.ChunkSize(),
		ChunkDelay: cfg.ChunkDelay(),
		DepthLimit: cfg.DepthLimit(),
	}, logger)
	svc := search.NewService(harvester, cache.New(cfg.CacheTTL(), cfg.CacheMaxEntries()), logger)

	req := types.SearchRequest{
		Query:      strings.Join(args, " "),
		Mode:       types.FilterMode(flagMode),
		TimeWindow: flagWindow,
		SortBy:     types.SortCriterion(flagSort),
		MinUpvotes: flagMinUpvotes,
		PageSize:   flagLimit,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := svc.Search(ctx, req, flagPage)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Print(renderResults(result, req, flagPage))

	if flagOpen > 0 {
		if flagOpen > len(result.Comments) {
			return fmt.Errorf("--open %d out of range: page has %d results", flagOpen, len(result.Comments))
		}
		return browser.Open(publicBase + result.Comments[flagOpen-1].Permalink)
	}
	return nil
}
