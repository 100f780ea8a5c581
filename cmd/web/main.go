package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedhub/internal/feed"
	"feedhub/internal/web"
)

// printUsage prints the usage information for the application
func printUsage() {
	fmt.Println("Usage: ./program [OPTIONS] CACHE_TYPE CACHE_OPTIONS ASSET_TYPE ASSET_OPTIONS")
	fmt.Println()
	fmt.Println("Arguments:")
	fmt.Println("  CACHE_TYPE         Cache store type (sqlite, postgres, dynamodb, redis)")
	fmt.Println("  CACHE_OPTIONS      Options for the cache store (e.g., db path, connection string)")
	fmt.Println("  ASSET_TYPE         Asset service type (fs, s3, origin)")
	fmt.Println("  ASSET_OPTIONS      Options for the asset service (e.g., base dir, bucket, origin URL)")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Upstream configuration comes from YOUTUBE_API_KEY, YOUTUBE_PLAYLIST_ID,")
	fmt.Println("YOUTUBE_CHANNEL_ID and YOUTUBE_RSS_URL environment variables.")
	fmt.Println()
	fmt.Println("Example: ./program sqlite feed.db fs /path/to/site")
}

func main() {
	// Define flags
	port := flag.Int("port", 8080, "Port number for the web server")
	host := flag.String("host", "localhost", "Host address for the web server")
	cronExpr := flag.String("cron", "0 */6 * * *", "Cron expression for the scheduled feed refresh")
	forceHTTPS := flag.Bool("force-https", true, "Redirect plain-HTTP requests to HTTPS")

	// Set custom usage message
	flag.Usage = printUsage

	// Parse flags
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if len(flag.Args()) != 4 {
		fmt.Println("Error: Incorrect number of arguments")
		printUsage()
		return
	}

	cacheType := flag.Arg(0)
	cacheOptions := flag.Arg(1)
	assetType := flag.Arg(2)
	assetOptions := flag.Arg(3)

	if *port <= 0 {
		fmt.Println("Error: Invalid port number:", *port)
		printUsage()
		return
	}

	store, err := web.NewStore(cacheType, cacheOptions)
	if err != nil {
		slog.Error("failed to create cache store", "type", cacheType, "error", err)
		os.Exit(1)
	}

	assets, err := web.NewAssetService(assetType, assetOptions)
	if err != nil {
		slog.Error("failed to create asset service", "type", assetType, "error", err)
		os.Exit(1)
	}

	env := feed.EnvFromOS(store)

	scheduler := web.NewScheduler(env)
	if err := scheduler.Schedule(*cronExpr); err != nil {
		slog.Error("failed to schedule feed refresh", "cron", *cronExpr, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := web.NewServer(env, assets, *forceHTTPS)
	listenAddr := fmt.Sprintf("%s:%d", *host, *port)
	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		slog.Error("failed to start listener", "addr", listenAddr, "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{Handler: server.Handler()}

	errc := make(chan error, 1)
	go func() {
		slog.Info("starting web server", "addr", listenAddr)
		errc <- httpServer.Serve(lis)
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		slog.Error("server failed", "error", err)
		os.Exit(1)
	case sig := <-sigc:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}
}
