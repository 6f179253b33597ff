package migration

import (
	"context"
	"fmt"
	"log"

	"station-api/internal/attachments"
	"station-api/internal/database"
)

// Parent is a stored attachment owner with a persistent id.
type Parent interface {
	attachments.Owner
	Identifier() string
}

// Run migrates every row of one resource table. A parent that fails to save
// is logged to the failure log and skipped. With dryRun set nothing is
// saved. The returned error is a failure to read the table.
func Run[T any, PT interface {
	*T
	Parent
}](ctx context.Context, repo *database.Repository[T], resource string, m *Migrator, batchSize int, dryRun bool) (Report, error) {
	var total Report

	err := repo.Each(ctx, batchSize, func(row *T) error {
		parent := PT(row)
		if err := ctx.Err(); err != nil {
			return err
		}

		changed, report := m.MigrateOwner(ctx, resource, parent.Identifier(), parent)
		if changed && !dryRun {
			if err := repo.Save(ctx, row); err != nil {
				m.fail(resource, parent.Identifier(), -1, "", fmt.Errorf("save: %w", err))
				report.Updated = 0
				report.Failed++
				total.Add(report)
				return nil
			}
			log.Printf("Migrated %s %s: %d fetched, %d canonicalized", resource, parent.Identifier(), report.Fetched, report.Canonicalized)
		}
		if dryRun {
			report.Updated = 0
		}
		total.Add(report)
		return nil
	})

	return total, err
}
