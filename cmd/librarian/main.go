package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/librarian/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/librarian/config.toml)")
	apiBase := flag.String("api", "", "library backend base URL (optional, overrides config and LIBRARIAN_API_BASE)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, APIBase: *apiBase}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "librarian: %v\n", err)
		return 1
	}
	return 0
}
