package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/converter"
	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage"
	storageModel "github.com/Methdul/fitgym-pro-sub000/internal/storage/model"
)

func (s *Storage) SaveStaff(ctx context.Context, staff models.Staff) (models.Staff, error) {
	const op = "storage.postgres.SaveStaff"

	query := `INSERT INTO staff(id,branch_id,first_name,last_name,email,role,pin_hash)
		VALUES(@id,@branchId,@firstName,@lastName,@email,@role,@pinHash)
		RETURNING id,branch_id,first_name,last_name,email,role,pin_hash,last_active`
	args := pgx.NamedArgs{
		"id":        staff.ID,
		"branchId":  staff.BranchID,
		"firstName": staff.FirstName,
		"lastName":  staff.LastName,
		"email":     staff.Email,
		"role":      string(staff.Role),
		"pinHash":   staff.PinHash,
	}

	var saved storageModel.Staff
	err := s.dbpool.QueryRow(ctx, query, args).Scan(
		&saved.ID, &saved.BranchID, &saved.FirstName, &saved.LastName,
		&saved.Email, &saved.Role, &saved.PinHash, &saved.LastActive,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Staff{}, fmt.Errorf("%s: %w", op, storage.ErrStaffExists)
		}

		return models.Staff{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToStaffFromStorage(saved), nil
}

func (s *Storage) Staff(ctx context.Context, staffID uuid.UUID) (models.Staff, error) {
	const op = "storage.postgres.Staff"

	query := `SELECT id,branch_id,first_name,last_name,email,role,pin_hash,last_active
		FROM staff WHERE id=$1`

	var staff storageModel.Staff
	err := s.dbpool.QueryRow(ctx, query, staffID).Scan(
		&staff.ID, &staff.BranchID, &staff.FirstName, &staff.LastName,
		&staff.Email, &staff.Role, &staff.PinHash, &staff.LastActive,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Staff{}, fmt.Errorf("%s: %w", op, storage.ErrStaffNotFound)
		}
		return models.Staff{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToStaffFromStorage(staff), nil
}

func (s *Storage) StaffByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Staff, error) {
	const op = "storage.postgres.StaffByBranch"

	query := `SELECT id,branch_id,first_name,last_name,email,role,pin_hash,last_active
		FROM staff WHERE branch_id=$1 ORDER BY last_name,first_name`

	rows, err := s.dbpool.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.Staff
	for rows.Next() {
		var staff storageModel.Staff
		if err := rows.Scan(
			&staff.ID, &staff.BranchID, &staff.FirstName, &staff.LastName,
			&staff.Email, &staff.Role, &staff.PinHash, &staff.LastActive,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, converter.ToStaffFromStorage(staff))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) UpdateLastActive(ctx context.Context, staffID uuid.UUID, at time.Time) error {
	const op = "storage.postgres.UpdateLastActive"

	tag, err := s.dbpool.Exec(ctx, "UPDATE staff SET last_active=$2 WHERE id=$1", staffID, at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrStaffNotFound)
	}

	return nil
}

func (s *Storage) UpdatePinHash(ctx context.Context, staffID uuid.UUID, pinHash []byte) error {
	const op = "storage.postgres.UpdatePinHash"

	tag, err := s.dbpool.Exec(ctx, "UPDATE staff SET pin_hash=$2 WHERE id=$1", staffID, pinHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrStaffNotFound)
	}

	return nil
}

func (s *Storage) DeleteStaff(ctx context.Context, staffID uuid.UUID) error {
	const op = "storage.postgres.DeleteStaff"

	tag, err := s.dbpool.Exec(ctx, "DELETE FROM staff WHERE id=$1", staffID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrStaffNotFound)
	}

	return nil
}

func (s *Storage) LogPinAttempt(ctx context.Context, staffID string, success bool, reason string) error {
	const op = "storage.postgres.LogPinAttempt"

	query := `INSERT INTO pin_attempts(staff_id,success,reason,created_at) VALUES($1,$2,$3,NOW())`
	if _, err := s.dbpool.Exec(ctx, query, staffID, success, reason); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
