package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/converter"
	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	storageModel "github.com/Methdul/fitgym-pro-sub000/internal/storage/model"
)

// NewEvents claims up to limit undelivered outbox events. Claimed rows get a
// short reservation so two sender ticks do not publish the same event.
func (s *Storage) NewEvents(ctx context.Context, limit int) ([]models.Event, error) {
	const op = "storage.postgres.NewEvents"

	query := `UPDATE events SET reserved_to = NOW() + interval '1 minute'
		WHERE id IN (
			SELECT id FROM events
			WHERE status='new' AND (reserved_to IS NULL OR reserved_to < NOW())
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id,event_type,payload,status,created_at,reserved_to`

	rows, err := s.dbpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []storageModel.Event
	for rows.Next() {
		var event storageModel.Event
		if err := rows.Scan(
			&event.ID, &event.Type, &event.Payload, &event.Status, &event.CreatedAt, &event.ReservedTo,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToEventsFromStorage(result), nil
}

func (s *Storage) SetEventDone(ctx context.Context, eventID uuid.UUID) (models.Event, error) {
	const op = "storage.postgres.SetEventDone"

	query := `UPDATE events SET status='done' WHERE id=$1
		RETURNING id,event_type,payload,status,created_at,reserved_to`

	var event storageModel.Event
	err := s.dbpool.QueryRow(ctx, query, eventID).Scan(
		&event.ID, &event.Type, &event.Payload, &event.Status, &event.CreatedAt, &event.ReservedTo,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, fmt.Errorf("%s: event %s not found", op, eventID)
		}
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToEventFromStorage(event), nil
}
