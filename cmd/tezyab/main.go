// Package main is the TezYab CLI entry point.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pajuhan/tezyab/internal/backend"
	"github.com/pajuhan/tezyab/internal/cli"
	"github.com/pajuhan/tezyab/internal/config"
	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/render"
	"github.com/pajuhan/tezyab/internal/search"
	"github.com/pajuhan/tezyab/internal/server"
	"github.com/pajuhan/tezyab/internal/watcher"
	"github.com/pajuhan/tezyab/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/tezyab/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "serve":
		runServe()
	case "search":
		runSearch()
	case "models":
		runModels()
	case "health":
		runHealth()
	case "version", "--version", "-v":
		fmt.Printf("tezyab version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`tezyab — frontend gateway for the thesis search service

Usage:
  tezyab serve   [-config path] [-debug]      run the HTTP gateway
  tezyab search  [flags] <query>              run one search and print results
  tezyab models  [-config path]               list selectable cross-encoders
  tezyab health  [-config path]               check backend availability
  tezyab version                              print version
`)
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode, "")
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Bool("debug", debugMode),
	)

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout())
	engine := search.NewEngine(client, logger)
	srv := server.NewServer(engine, client, &cfg.Server, cfg.Search.Options(), logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	cfgWatch := watcher.NewConfigWatcher(resolvedConfigPath, func(next *config.Config) {
		srv.UpdateSearchDefaults(next.Search.Options())
	}, watcher.WithLogger(logger))
	if err := cfgWatch.Start(watchCtx); err != nil {
		logger.Warn("config watch unavailable", zap.Error(err))
	}
	defer cfgWatch.Stop()

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: tezyab search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  tezyab search شبکه های عصبی
  tezyab search "شبکه های عصبی"                        # same as above
  tezyab search -parser rule -top-k 20 شبکه عصبی
  tezyab search -highlight original_plus_expansion شبکه
  tezyab search -output json شبکه > results.json
  tezyab search -i                                     # interactive loop
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "tezyab search شبکه -top-k
// 20" would otherwise leave -top-k unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	topK := fs.Int("top-k", 0, "number of results (0 = configured default)")
	parserMode := fs.String("parser", "", "query parser: llm or rule (empty = configured default)")
	useExpand := fs.Bool("expand", true, "ask the backend to expand the query")
	useOr := fs.Bool("or", false, "relax filters to OR when AND yields nothing")
	highlight := fs.String("highlight", "", "highlight policy: original or original_plus_expansion")
	ceKey := fs.String("ce", "", "cross-encoder key from 'tezyab models'")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (presentation records)")
	interactive := fs.Bool("i", false, "interactive mode: read queries from stdin in a loop")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	if !*interactive && fs.NArg() < 1 {
		printSearchUsage(fs)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	opts := cfg.Search.Options()
	if *topK > 0 {
		opts.TopK = *topK
	}
	if *parserMode != "" {
		mode := models.ParserMode(*parserMode)
		if !mode.Valid() {
			fmt.Fprintf(os.Stderr, "parser must be \"llm\" or \"rule\", got %q\n", *parserMode)
			os.Exit(1)
		}
		opts.ParserMode = mode
	}
	if *highlight != "" {
		policy := render.HighlightPolicy(*highlight)
		if !policy.Valid() {
			fmt.Fprintf(os.Stderr, "highlight must be \"original\" or \"original_plus_expansion\", got %q\n", *highlight)
			os.Exit(1)
		}
		opts.HighlightPolicy = policy
	}
	opts.UseExpand = *useExpand
	opts.UseOrFallback = *useOr
	if *ceKey != "" {
		opts.CEKey = *ceKey
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout())
	engine := search.NewEngine(client, zap.NewNop())

	if *interactive {
		runInteractive(engine, opts, format)
		return
	}

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	var fence search.Fence
	outcome, err := engine.Search(context.Background(), search.NewContext(fence.Next(), queryStr, opts))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteOutcome(os.Stdout, outcome, format)
}

// runInteractive reads queries from stdin in a loop. Searches run
// concurrently; the fence makes sure a slow earlier response can never
// overwrite the output of a newer search.
func runInteractive(engine *search.Engine, opts search.Options, format cli.OutputFormat) {
	var fence search.Fence
	outcomes := make(chan *search.Outcome)
	go func() {
		for outcome := range outcomes {
			if !fence.Latest(outcome.Seq) {
				continue // superseded by a newer search
			}
			_ = cli.WriteOutcome(os.Stdout, outcome, format)
			fmt.Print("query> ")
		}
	}()

	fmt.Println("Interactive search. Empty line or Ctrl-D exits.")
	fmt.Print("query> ")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		queryStr := strings.TrimSpace(scanner.Text())
		if queryStr == "" {
			break
		}
		sc := search.NewContext(fence.Next(), queryStr, opts)
		fmt.Println("searching...")
		go func() {
			outcome, err := engine.Search(context.Background(), sc)
			if err != nil {
				if fence.Latest(sc.Seq) {
					fmt.Fprintf(os.Stderr, "Search failed: %v\nquery> ", err)
				}
				return
			}
			outcomes <- outcome
		}()
	}
}

func runModels() {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout())
	resp, err := client.Models(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list models: %v\n", err)
		os.Exit(1)
	}
	for _, m := range resp.Models {
		marker := " "
		if m.Default {
			marker = "*"
		}
		fmt.Printf("%s %-12s %s\n", marker, m.Key, m.Label)
	}
}

func runHealth() {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout())
	if err := client.Health(context.Background()); err != nil {
		fmt.Printf("backend %s: unavailable (%v)\n", cfg.Backend.BaseURL, err)
		os.Exit(1)
	}
	fmt.Printf("backend %s: ok\n", cfg.Backend.BaseURL)
}
