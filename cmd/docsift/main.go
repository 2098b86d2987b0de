// Copyright 2025 Docsift Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/docsift/docsift"
	"github.com/docsift/docsift/config"
	"github.com/docsift/docsift/core"
	"github.com/docsift/docsift/index"
	"github.com/docsift/docsift/ingest"
	"github.com/docsift/docsift/reindex"
	"github.com/docsift/docsift/server"
	"github.com/docsift/docsift/service"
	"github.com/docsift/docsift/tui"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "docsift",
		Usage: "Interactive document search with match highlighting",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP search API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides config)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a one-shot query against a document file",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Document file to search (.txt or .docx)",
						Required: true,
					},
				},
			},
			{
				Name:   "repl",
				Usage:  "Interactively query a document file",
				Action: replCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Document file to search (.txt or .docx)",
						Required: true,
					},
				},
			},
			{
				Name:   "tui",
				Usage:  "Full-screen terminal search client",
				Action: tuiCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Document file to search (.txt or .docx)",
						Required: true,
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Recompute document statistics and rebuild the corpus index",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "bench",
				Usage:     "Measure query latency and cache effectiveness over a document",
				ArgsUsage: "QUERY...",
				Action:    benchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Document file to search (.txt or .docx)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "rounds",
						Usage: "Number of times to run each query",
						Value: 10,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func openEngine(cfg *config.AppConfig) (*docsift.Engine, error) {
	opts := []docsift.EngineOption{
		docsift.WithCacheCapacity(cfg.Search.CacheCapacity),
	}
	if cfg.Storage.InMemory {
		opts = append(opts, docsift.WithInMemory())
	}
	return docsift.NewEngine(cfg.Storage.Path, opts...)
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	var pipelineOpts []ingest.Option
	if cfg.Ingest.PoolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingest.WithPoolSize(cfg.Ingest.PoolSize))
	}
	pipeline, err := engine.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	srv, err := server.NewServer(engine.SearchService(), pipeline, engine.DocumentRepository(), engine.Index())
	if err != nil {
		return err
	}

	addr := c.String("addr")
	if addr == "" {
		addr = cfg.Server.ListenAddr
	}
	return srv.Start(addr)
}

// loadDocumentFile extracts a document from a local file for the
// client-side commands.
func loadDocumentFile(path string) (*core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	extractor, err := ingest.ExtractorFor(path)
	if err != nil {
		return nil, err
	}
	text, err := extractor.Extract(context.Background(), data)
	if err != nil {
		return nil, fmt.Errorf("extracting %q: %w", path, err)
	}

	return &core.Document{
		Id:          core.IDFromContent(text),
		Name:        filepath.Base(path),
		ContentType: extractor.ContentType(),
		Text:        text,
		DocLength:   len(text),
		UniqueTerms: index.UniqueTerms(text),
	}, nil
}

func newFileService(path string, cacheCapacity int) (*service.SearchService, *core.Document, error) {
	doc, err := loadDocumentFile(path)
	if err != nil {
		return nil, nil, err
	}

	var opts []service.Option
	if cacheCapacity > 0 {
		opts = append(opts, service.WithCacheCapacity(cacheCapacity))
	}
	svc, err := service.NewSearchService(opts...)
	if err != nil {
		return nil, nil, err
	}
	svc.SetDocument(doc)
	return svc, doc, nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svc, doc, err := newFileService(c.String("file"), cfg.Search.CacheCapacity)
	if err != nil {
		return err
	}

	fmt.Printf("Document: %s (%d chars, %d unique terms)\n\n", doc.Name, doc.DocLength, doc.UniqueTerms)
	return runQuery(svc, query)
}

func runQuery(svc *service.SearchService, query string) error {
	result, err := svc.Search(query)
	if err != nil {
		return err
	}

	if len(result.Matches) == 0 {
		fmt.Printf("No matches for %q (%.2f ms)\n", query, result.TimeMs)
		return nil
	}

	for _, match := range result.Matches {
		fmt.Printf("%-20s %d occurrence(s) at %v\n", match.Term, len(match.Positions), match.Positions)
	}
	fmt.Printf("\n%d total match(es) in %.2f ms [%s]\n", result.TotalMatches, result.TimeMs, result.Cache)
	return nil
}

func replCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svc, doc, err := newFileService(c.String("file"), cfg.Search.CacheCapacity)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %s (%d chars, %d unique terms). Empty line or Ctrl-D exits.\n",
		doc.Name, doc.DocLength, doc.UniqueTerms)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}
		if err := runQuery(svc, query); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func tuiCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svc, doc, err := newFileService(c.String("file"), cfg.Search.CacheCapacity)
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.New(svc, doc.Text), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func reindexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	reindexer, err := engine.NewReindexer(reindexConfig, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n\n", cfg.Storage.Path)
	if err := reindexer.Run(context.Background()); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func benchCommand(c *cli.Context) error {
	queries := c.Args().Slice()
	if len(queries) == 0 {
		return fmt.Errorf("at least one query is required")
	}
	rounds := c.Int("rounds")
	if rounds <= 0 {
		return fmt.Errorf("rounds must be greater than 0")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svc, doc, err := newFileService(c.String("file"), cfg.Search.CacheCapacity)
	if err != nil {
		return err
	}

	fmt.Printf("Document: %s (%d chars)\n", doc.Name, doc.DocLength)
	fmt.Printf("Running %d round(s) of %d quer(ies)\n\n", rounds, len(queries))

	start := time.Now()
	for round := 0; round < rounds; round++ {
		for _, query := range queries {
			if _, err := svc.Search(query); err != nil {
				return fmt.Errorf("query %q failed: %w", query, err)
			}
		}
	}
	elapsed := time.Since(start)

	stats := svc.Stats()
	fmt.Printf("Total queries: %d in %v\n", stats.TotalQueries, elapsed.Round(time.Microsecond))
	fmt.Printf("Average latency: %.3f ms\n", stats.AvgLatencyMs)
	fmt.Printf("Cache: %d hit(s), %d miss(es) (%.1f%% hit ratio)\n",
		stats.Cache.Hits, stats.Cache.Misses, stats.Cache.HitRatio*100)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
