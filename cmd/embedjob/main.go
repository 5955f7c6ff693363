// embedjob is the offline embedding job: it reads a catalog JSON, embeds
// every record that lacks a vector, and writes the catalog back with the
// embedding arrays the server searches at runtime.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/ingest"
	openaiEmb "github.com/youthconnect/activityfinder/internal/transport/openai"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "embedjob",
		Usage: "embed catalog records for semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "catalog JSON to read"},
			&cli.StringFlag{Name: "out", Usage: "output path (default: overwrite --in)"},
			&cli.StringFlag{Name: "model", Value: "text-embedding-ada-002", Usage: "embedding model"},
			&cli.IntFlag{Name: "workers", Value: 4, Usage: "concurrent embedding calls"},
			&cli.IntFlag{Name: "timeout", Value: 30, Usage: "per-call timeout, seconds"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "embedjob:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	records, err := catalog.Load(c.String("in"))
	if err != nil {
		return err
	}
	logger.Info("Catalog loaded", zap.Int("records", len(records)))

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   c.String("model"),
		Timeout: time.Duration(c.Int("timeout")) * time.Second,
		Logger:  logger,
	})

	pipeline := ingest.NewPipeline(embedder, logger, ingest.WithWorkers(c.Int("workers")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	embedded, err := pipeline.Run(ctx, records)
	if err != nil {
		return err
	}
	logger.Info("Embedding pass complete", zap.Int("embedded", embedded))

	// Validate dimensionality before writing: a mixed-dimension catalog
	// would be rejected at server startup anyway.
	if _, err := catalog.NewIndex(records); err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = c.String("in")
	}
	if err := ingest.WriteCatalog(out, records); err != nil {
		return err
	}
	logger.Info("Catalog written", zap.String("path", out))
	return nil
}
