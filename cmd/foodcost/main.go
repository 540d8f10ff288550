package main

import (
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/config"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/ingest"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/service"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/store"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}
	// Reports go to stdout, logs to stderr.
	logger.SetOutput(os.Stderr)

	app := &cli.App{
		Name:  "foodcost",
		Usage: "Process supplier stock usage exports and forecast purchasing",
		Commands: []*cli.Command{
			{
				Name:  "process",
				Usage: "Process one CSV export and print the usage report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the CSV export",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Write the processed collection as CSV to this path",
					},
					&cli.Float64Flag{
						Name:  "sales-amount",
						Usage: "Sales amount for the cost percentage",
					},
				},
				Action: runProcess,
			},
			{
				Name:  "ingest",
				Usage: "Archive every CSV export in the configured bucket",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Parallel downloads",
						Value: 4,
					},
				},
				Action: runIngest,
			},
			{
				Name:  "archive",
				Usage: "Copy saved record summaries into a reporting database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Reporting database connection string",
						Required: true,
						EnvVars:  []string{"ARCHIVE_DATABASE_URL"},
					},
				},
				Action: runArchive,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

// newRecordStore picks the record store backend from configuration.
func newRecordStore(cfg config.StoreConfig) (store.RecordStore, error) {
	switch cfg.Backend {
	case "redis":
		return store.NewRedisStore(cfg.Redis)
	case "postgres":
		return store.NewPostgresStore(cfg.Postgres)
	default:
		return store.NewMemoryStore(), nil
	}
}

func defaultParameters(cfg config.PeriodConfig) domain.CalculationParameters {
	return domain.CalculationParameters{
		StockPeriodDays:       cfg.StockPeriodDays,
		DaysToNextDelivery:    cfg.DaysToNextDelivery,
		SafetyStockPercentage: cfg.SafetyStockPercentage,
		CriticalItemBuffer:    cfg.CriticalItemBuffer,
		OrderCycle:            cfg.OrderCycle,
	}
}

func runProcess(c *cli.Context) error {
	cfg := config.Load()

	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	svc := service.NewUsageService(store.NewMemoryStore(), defaultParameters(cfg.Period))
	result, err := svc.Import(c.Context, service.ImportRequest{CSVText: string(data)})
	if err != nil {
		return err
	}

	summary, err := svc.Summary(c.Float64("sales-amount"))
	if err != nil {
		return err
	}
	categories, err := svc.Categories()
	if err != nil {
		return err
	}
	top, err := svc.TopItems(0)
	if err != nil {
		return err
	}

	report := map[string]any{
		"item_count":    result.ItemCount,
		"flagged_count": result.FlaggedCount,
		"totals":        summary,
		"categories":    categories,
		"top_items":     top,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	if out := c.String("export"); out != "" {
		csvText, err := svc.ExportCSV(domain.FilterCriteria{})
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, []byte(csvText), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		logger.Log.Info().Str("path", out).Msg("export written")
	}

	return nil
}

func runIngest(c *cli.Context) error {
	cfg := config.Load()

	records, err := newRecordStore(cfg.Store)
	if err != nil {
		return err
	}
	svc := service.NewUsageService(records, defaultParameters(cfg.Period))

	client, err := ingest.NewBucketClient(cfg.Bucket)
	if err != nil {
		return err
	}

	summary, err := client.Ingest(c.Context, c.Int("workers"), svc.ProcessExport)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
