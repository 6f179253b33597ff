package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"station-api/internal/config"
	"station-api/internal/constants"
	"station-api/internal/database"
	"station-api/internal/migration"
	"station-api/internal/models"
	"station-api/internal/services"

	pkgValidator "github.com/kerimovok/go-pkg-utils/validator"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type resourceRunner func(ctx context.Context, db *gorm.DB, m *migration.Migrator, batchSize int, dryRun bool) (migration.Report, error)

func runner[T any, PT interface {
	*T
	migration.Parent
}](key string) resourceRunner {
	return func(ctx context.Context, db *gorm.DB, m *migration.Migrator, batchSize int, dryRun bool) (migration.Report, error) {
		return migration.Run[T, PT](ctx, database.NewRepository[T](db), key, m, batchSize, dryRun)
	}
}

var runners = map[string]resourceRunner{
	services.Announcements: runner[models.Announcement](services.Announcements),
	services.Blotters:      runner[models.Blotter](services.Blotters),
	services.Clearances:    runner[models.Clearance](services.Clearances),
	services.Officers:      runner[models.Officer](services.Officers),
}

func resourceKeys() []string {
	keys := make([]string, 0, len(runners))
	for k := range runners {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var rootCmd = &cobra.Command{
	Use:   "migrate-attachments",
	Short: "Rewrite stored attachments into the canonical base64 shape",
	Long: `Downloads URL-only attachments and stores their bytes, re-encodes
attachments saved in older binary shapes and recomputes their sizes.
Records that cannot be migrated stay in place and are written to the
failure log.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resources, _ := cmd.Flags().GetStringSlice("resources")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		failureLog, _ := cmd.Flags().GetString("failure-log")
		retries, _ := cmd.Flags().GetUint64("retries")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		for _, r := range resources {
			if _, ok := runners[r]; !ok {
				return fmt.Errorf("unknown resource %q (expected one of %s)", r, strings.Join(resourceKeys(), ", "))
			}
		}

		if err := config.LoadConfig(); err != nil {
			return err
		}
		if err := pkgValidator.ValidateConfig(constants.DatabaseValidationRules); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		if err := database.ConnectDB(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		out, err := os.OpenFile(failureLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open failure log: %w", err)
		}
		defer out.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		maxSize := config.GetConfig().Attachments.Validation.GetDefaultMaxFileSize()
		m := migration.NewMigrator(migration.NewHTTPFetcher(timeout, retries, maxSize), out)

		if dryRun {
			log.Println("Dry run: no changes will be saved")
		}

		var total migration.Report
		for _, r := range resources {
			start := time.Now()
			report, err := runners[r](ctx, database.DB, m, batchSize, dryRun)
			total.Add(report)
			if err != nil {
				return fmt.Errorf("migrate %s: %w", r, err)
			}
			log.Printf("%s: %s (%s)", r, report, time.Since(start).Round(time.Millisecond))
		}

		log.Printf("Done: %s", total)
		if total.Failed > 0 {
			log.Printf("Failures were appended to %s", failureLog)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringSlice("resources", resourceKeys(), "collections to migrate")
	rootCmd.Flags().Bool("dry-run", false, "report what would change without saving")
	rootCmd.Flags().String("failure-log", "attachment-migration-failures.jsonl", "file that failed records are appended to")
	rootCmd.Flags().Uint64("retries", 3, "retries per download")
	rootCmd.Flags().Duration("timeout", 30*time.Second, "timeout per download attempt")
	rootCmd.Flags().Int("batch-size", 50, "rows loaded per batch")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
