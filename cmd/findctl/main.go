// findctl searches the opportunity catalog from the command line and
// prints matches as a JSON array, one {score, opportunity} object per hit.
// Failures exit nonzero with a diagnostic on stderr; an empty result set is
// a successful run that prints [].
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/domain"
	"github.com/youthconnect/activityfinder/internal/domain/search/request"
	openaiEmb "github.com/youthconnect/activityfinder/internal/transport/openai"
	searchuc "github.com/youthconnect/activityfinder/internal/usecase/search"
)

type resultItem struct {
	Score       float64            `json:"score"`
	Opportunity domain.Opportunity `json:"opportunity"`
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "findctl",
		Usage: "search the youth-activity catalog",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "rank catalog records against a query",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Required: true, Usage: "search query text"},
					&cli.StringFlag{Name: "catalog", Value: "data/opportunities.json", Usage: "catalog JSON path"},
					&cli.IntFlag{Name: "limit", Value: request.DefaultLimit, Usage: "maximum results"},
					&cli.IntFlag{Name: "min-results", Value: request.DefaultMinResults, Usage: "soft floor on result count"},
					&cli.Float64Flag{Name: "threshold", Value: request.DefaultThreshold, Usage: "starting similarity cutoff"},
					&cli.IntFlag{Name: "timeout", Value: 10, Usage: "embedding call timeout, seconds"},
				},
				Action: runSearch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "findctl:", err)
		os.Exit(1)
	}
}

func runSearch(c *cli.Context) error {
	// Diagnostics go to stderr so stdout stays parseable JSON.
	logCfg := zap.NewDevelopmentConfig()
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	idx, err := catalog.LoadIndex(c.String("catalog"))
	if err != nil {
		return err
	}

	var embedder searchuc.Embedder
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:  apiKey,
			Model:   "text-embedding-ada-002",
			Timeout: time.Duration(c.Int("timeout")) * time.Second,
			Logger:  logger,
		})
	}

	svc := searchuc.New(staticSnapshot{idx}, embedder, logger)

	req, err := request.New(c.String("query"), c.Int("limit"), c.Int("min-results"), c.Float64("threshold"))
	if err != nil {
		return err
	}

	results, searchType, err := svc.Search(context.Background(), &req)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "found %d results (%s)\n", len(results), searchType)

	items := make([]resultItem, len(results))
	for i := range results {
		items[i] = resultItem{Score: results[i].Score(), Opportunity: results[i].Opportunity()}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// staticSnapshot serves one fixed index; the CLI has no reload story.
type staticSnapshot struct {
	idx *catalog.Index
}

func (s staticSnapshot) Snapshot() *catalog.Index { return s.idx }
