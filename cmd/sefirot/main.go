// Copyright 2025 Sefirot Labs
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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/sefirot-labs/sefirot"
	"github.com/sefirot-labs/sefirot/ai"
	"github.com/sefirot-labs/sefirot/core"
)

func main() {
	app := &cli.App{
		Name:  "sefirot",
		Usage: "Privacy-tiered document intelligence pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest documents into tiered storage",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:    "concurrency",
						Aliases: []string{"j"},
						Usage:   "Number of concurrent ingestion workers",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk target size in characters",
						Value: 512,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Chunk overlap in characters",
						Value: 50,
					}),
			},
			{
				Name:      "search",
				Usage:     "Search stored chunks by semantic similarity",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.StringSliceFlag{
						Name:    "tier",
						Aliases: []string{"t"},
						Usage:   "Restrict search to tiers (public, business, personal)",
					}),
			},
			{
				Name:      "classify",
				Usage:     "Report the privacy tier a document would be assigned",
				ArgsUsage: "FILE",
				Action:    classifyCommand,
				Flags:     engineFlags(),
			},
			{
				Name:   "stats",
				Usage:  "Print storage and pipeline statistics",
				Action: statsCommand,
				Flags:  engineFlags(),
			},
			{
				Name:   "health",
				Usage:  "Check component health",
				Action: healthCommand,
				Flags:  engineFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "all-minilm",
		},
		&cli.StringFlag{
			Name:  "extractor-model",
			Usage: "Entity extraction model name",
			Value: "qwen2.5:3b",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of chunks to embed per request",
			Value: 32,
		},
	}
}

func openEngine(c *cli.Context) (*sefirot.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithExtractorModel(c.String("extractor-model")),
		ai.WithBatchSize(c.Int("batch-size")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	engineOpts := []sefirot.EngineOption{sefirot.WithAIConfig(aiConfig)}
	if c.Int("concurrency") > 0 {
		engineOpts = append(engineOpts, sefirot.WithWorkers(c.Int("concurrency")))
	}
	if c.IsSet("chunk-size") || c.IsSet("chunk-overlap") {
		engineOpts = append(engineOpts, sefirot.WithChunking(c.Int("chunk-size"), c.Int("chunk-overlap")))
	}

	engine, err := sefirot.NewEngine(c.String("db"), engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	results, err := engine.IngestAll(ctx, c.Args().Slice())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "SKIP %s: %v\n", result.Source, result.Err)
			continue
		}
		fmt.Printf("%s  tier=%s chunks=%d hash=%s\n",
			result.Source, result.Record.Tier, result.Record.ChunkCount,
			result.Record.ContentHash[:12])
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d sources skipped\n", failed, len(results))
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one query argument is required")
	}

	tiers, err := parseTiers(c.StringSlice("tier"))
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Search(context.Background(), c.Args().First(), c.Int("limit"), tiers...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%2d. [%s] distance=%.4f source=%s\n    %s\n",
			i+1, result.Tier, result.Distance, result.Source, firstLine(result.Text))
	}
	return nil
}

func classifyCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one file argument is required")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	tier, err := engine.Classify(context.Background(), string(data))
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	fmt.Println(tier.String())
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to collect stats: %w", err)
	}
	return printJSON(stats)
}

func healthCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	health := engine.HealthCheck(context.Background())
	if err := printJSON(health); err != nil {
		return err
	}
	if health.Status != sefirot.StatusHealthy {
		return fmt.Errorf("engine is %s", health.Status)
	}
	return nil
}

func parseTiers(names []string) ([]core.PrivacyTier, error) {
	tiers := make([]core.PrivacyTier, 0, len(names))
	for _, name := range names {
		tier, err := core.ParseTier(name)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 160 {
		text = text[:160] + "..."
	}
	return text
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
