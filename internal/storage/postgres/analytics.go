package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
)

func (s *Storage) BranchStats(ctx context.Context, branchID uuid.UUID, since time.Time) (models.BranchStats, error) {
	const op = "storage.postgres.BranchStats"

	stats := models.BranchStats{BranchID: branchID}

	memberQuery := `SELECT
			count(*),
			count(*) FILTER (WHERE expires_at > NOW()),
			count(*) FILTER (WHERE expires_at <= NOW()),
			count(*) FILTER (WHERE created_at >= $2)
		FROM members WHERE branch_id=$1`

	err := s.dbpool.QueryRow(ctx, memberQuery, branchID, since).Scan(
		&stats.TotalMembers, &stats.ActiveMembers, &stats.ExpiredMembers, &stats.NewMembers,
	)
	if err != nil {
		return models.BranchStats{}, fmt.Errorf("%s: %w", op, err)
	}

	renewalQuery := `SELECT count(*), COALESCE(sum(r.paid_amount),0)
		FROM renewals r
		JOIN members m ON m.id = r.member_id
		WHERE m.branch_id=$1 AND r.renewed_at >= $2`

	err = s.dbpool.QueryRow(ctx, renewalQuery, branchID, since).Scan(&stats.Renewals, &stats.Revenue)
	if err != nil {
		return models.BranchStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}
