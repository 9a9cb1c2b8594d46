package etl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// DatamartStore is the persistence surface the datamart loader needs.
// *repository.DatamartRepo satisfies it.
type DatamartStore interface {
	AppendDailyRevenue(ctx context.Context, rows []model.DailyRevenue) error
	AppendTopMovies(ctx context.Context, rows []model.TopMovie) error
}

// LoadDatamart appends the aggregator's two result sets into their
// datamart tables.  The tables are never upserted or truncated.  Empty
// result sets are a no-op logged as a warning, not an error.
func LoadDatamart(ctx context.Context, store DatamartStore, agg AggregateResult, log *slog.Logger) error {
	if len(agg.Daily) == 0 {
		log.Warn("no rows to insert into dm_daily_revenue")
	} else {
		if err := store.AppendDailyRevenue(ctx, agg.Daily); err != nil {
			return fmt.Errorf("insert dm_daily_revenue batch: %w", err)
		}
		log.Info("dm_daily_revenue loaded", "rows", len(agg.Daily))
	}

	if len(agg.Top) == 0 {
		log.Warn("no rows to insert into dm_top_movies")
	} else {
		if err := store.AppendTopMovies(ctx, agg.Top); err != nil {
			return fmt.Errorf("insert dm_top_movies batch: %w", err)
		}
		log.Info("dm_top_movies loaded", "rows", len(agg.Top))
	}
	return nil
}
