package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vsinha/palletplan/pkg/interfaces/cli/commands"
)

func main() {
	_ = godotenv.Load()

	// Command line flags
	var (
		input         = flag.String("input", "", "Path to the article sheet (.csv or .xlsx)")
		sheet         = flag.String("sheet", "", "Worksheet name for workbooks (default: first sheet)")
		configFile    = flag.String("config", "", "Path to YAML config file (optional)")
		targetDays    = flag.Int("target-days", 0, "Days of cover to plan for (default: 21)")
		extraArticles = flag.Int("extra-articles", 0, "Number of articles that share the pallet top-up (default: 10)")
		rounding      = flag.String("rounding", "", "Rounding mode: half_up, half_even")
		outputDir     = flag.String("output", "", "Output directory for results (optional)")
		format        = flag.String("format", "", "Output format: text, json, csv, xlsx")
		verbose       = flag.Bool("verbose", false, "Enable verbose output")
		serve         = flag.Bool("serve", false, "Serve the planning HTTP API")
		addr          = flag.String("addr", "", "Listen address for -serve (default: :8080)")
		help          = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		Input:         *input,
		Sheet:         *sheet,
		ConfigFile:    *configFile,
		TargetDays:    *targetDays,
		ExtraArticles: *extraArticles,
		Rounding:      *rounding,
		OutputDir:     *outputDir,
		Format:        *format,
		Verbose:       *verbose,
		Serve:         *serve,
		Addr:          *addr,
		Help:          *help,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := commands.NewPlanCommand(config)
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
