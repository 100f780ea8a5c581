// One-shot feed refresh: fetch the upstream listing and replace the stored
// snapshot, for use from system cron or CI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"feedhub/internal/feed"
	"feedhub/internal/web"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout for the refresh run")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if flag.NArg() != 2 {
		fmt.Println("Usage: refresh [OPTIONS] CACHE_TYPE CACHE_OPTIONS")
		fmt.Println("  CACHE_TYPE      Cache store type (sqlite, postgres, dynamodb, redis)")
		fmt.Println("  CACHE_OPTIONS   Options for the cache store")
		return
	}

	store, err := web.NewStore(flag.Arg(0), flag.Arg(1))
	if err != nil {
		slog.Error("failed to create cache store", "type", flag.Arg(0), "error", err)
		os.Exit(1)
	}

	env := feed.EnvFromOS(store)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := feed.Refresh(ctx, env); err != nil {
		slog.Error("feed refresh failed", "error", err)
		os.Exit(1)
	}

	slog.Info("feed refreshed")
}
