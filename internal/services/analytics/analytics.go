package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/lib/logger/sl"
)

// StatsProvider aggregates straight from SQL; nothing is cached.
type StatsProvider interface {
	BranchStats(ctx context.Context, branchID uuid.UUID, since time.Time) (models.BranchStats, error)
}

type Analytics struct {
	log           *slog.Logger
	statsProvider StatsProvider
}

func New(log *slog.Logger, statsProvider StatsProvider) *Analytics {
	return &Analytics{log: log, statsProvider: statsProvider}
}

// BranchStats returns per-branch membership and revenue aggregates counted
// since the given cutoff.
func (a *Analytics) BranchStats(ctx context.Context, branchID uuid.UUID, since time.Time) (models.BranchStats, error) {
	const op = "analytics.BranchStats"

	stats, err := a.statsProvider.BranchStats(ctx, branchID, since)
	if err != nil {
		a.log.Error("failed to get branch stats", slog.String("op", op), sl.Err(err))
		return models.BranchStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}
