package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/converter"
	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage"
	storageModel "github.com/Methdul/fitgym-pro-sub000/internal/storage/model"
)

// SaveMember inserts the member and a member_created outbox event in one
// transaction, so an event is never published for a row that failed to land.
func (s *Storage) SaveMember(ctx context.Context, member models.Member) (models.Member, error) {
	const op = "storage.postgres.SaveMember"

	tx, err := s.dbpool.Begin(ctx)
	if err != nil {
		return models.Member{}, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO members(id,branch_id,national_id,first_name,last_name,email,phone,package_id,expires_at,created_at)
		VALUES(@id,@branchId,@nationalId,@firstName,@lastName,@email,@phone,@packageId,@expiresAt,@createdAt)
		RETURNING id,branch_id,national_id,first_name,last_name,email,phone,package_id,expires_at,created_at`
	args := pgx.NamedArgs{
		"id":         member.ID,
		"branchId":   member.BranchID,
		"nationalId": member.NationalID,
		"firstName":  member.FirstName,
		"lastName":   member.LastName,
		"email":      member.Email,
		"phone":      member.Phone,
		"packageId":  member.PackageID,
		"expiresAt":  member.ExpiresAt,
		"createdAt":  member.CreatedAt,
	}

	var saved storageModel.Member
	err = tx.QueryRow(ctx, query, args).Scan(
		&saved.ID, &saved.BranchID, &saved.NationalID, &saved.FirstName, &saved.LastName,
		&saved.Email, &saved.Phone, &saved.PackageID, &saved.ExpiresAt, &saved.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Member{}, fmt.Errorf("%s: %w", op, storage.ErrMemberExists)
		}

		return models.Member{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.saveEvent(ctx, tx, models.EventMemberCreated, models.MemberEvent{
		ID:       saved.ID,
		BranchID: saved.BranchID,
		Email:    saved.Email,
	}); err != nil {
		return models.Member{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Member{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToMemberFromStorage(saved), nil
}

func (s *Storage) Member(ctx context.Context, memberID uuid.UUID) (models.Member, error) {
	const op = "storage.postgres.Member"

	query := `SELECT id,branch_id,national_id,first_name,last_name,email,phone,package_id,expires_at,created_at
		FROM members WHERE id=$1`

	var member storageModel.Member
	err := s.dbpool.QueryRow(ctx, query, memberID).Scan(
		&member.ID, &member.BranchID, &member.NationalID, &member.FirstName, &member.LastName,
		&member.Email, &member.Phone, &member.PackageID, &member.ExpiresAt, &member.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Member{}, fmt.Errorf("%s: %w", op, storage.ErrMemberNotFound)
		}
		return models.Member{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToMemberFromStorage(member), nil
}

func (s *Storage) MembersByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Member, error) {
	const op = "storage.postgres.MembersByBranch"

	query := `SELECT id,branch_id,national_id,first_name,last_name,email,phone,package_id,expires_at,created_at
		FROM members WHERE branch_id=$1 ORDER BY created_at DESC`

	rows, err := s.dbpool.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []storageModel.Member
	for rows.Next() {
		var member storageModel.Member
		if err := rows.Scan(
			&member.ID, &member.BranchID, &member.NationalID, &member.FirstName, &member.LastName,
			&member.Email, &member.Phone, &member.PackageID, &member.ExpiresAt, &member.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToMembersFromStorage(result), nil
}

func (s *Storage) SavePackage(ctx context.Context, pkg models.Package) (models.Package, error) {
	const op = "storage.postgres.SavePackage"

	query := `INSERT INTO packages(id,branch_id,name,duration_months,price,max_members)
		VALUES(@id,@branchId,@name,@durationMonths,@price,@maxMembers)
		RETURNING id,branch_id,name,duration_months,price,max_members`
	args := pgx.NamedArgs{
		"id":             pkg.ID,
		"branchId":       pkg.BranchID,
		"name":           pkg.Name,
		"durationMonths": pkg.DurationMonths,
		"price":          pkg.Price,
		"maxMembers":     pkg.MaxMembers,
	}

	var saved storageModel.Package
	err := s.dbpool.QueryRow(ctx, query, args).Scan(
		&saved.ID, &saved.BranchID, &saved.Name, &saved.DurationMonths, &saved.Price, &saved.MaxMembers,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Package{}, fmt.Errorf("%s: %w", op, storage.ErrPackageExists)
		}

		return models.Package{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToPackageFromStorage(saved), nil
}

func (s *Storage) Package(ctx context.Context, packageID uuid.UUID) (models.Package, error) {
	const op = "storage.postgres.Package"

	query := `SELECT id,branch_id,name,duration_months,price,max_members FROM packages WHERE id=$1`

	var pkg storageModel.Package
	err := s.dbpool.QueryRow(ctx, query, packageID).Scan(
		&pkg.ID, &pkg.BranchID, &pkg.Name, &pkg.DurationMonths, &pkg.Price, &pkg.MaxMembers,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Package{}, fmt.Errorf("%s: %w", op, storage.ErrPackageNotFound)
		}
		return models.Package{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToPackageFromStorage(pkg), nil
}

func (s *Storage) PackagesByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Package, error) {
	const op = "storage.postgres.PackagesByBranch"

	query := `SELECT id,branch_id,name,duration_months,price,max_members
		FROM packages WHERE branch_id=$1 ORDER BY price`

	rows, err := s.dbpool.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []storageModel.Package
	for rows.Next() {
		var pkg storageModel.Package
		if err := rows.Scan(
			&pkg.ID, &pkg.BranchID, &pkg.Name, &pkg.DurationMonths, &pkg.Price, &pkg.MaxMembers,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToPackagesFromStorage(result), nil
}

// SaveRenewal records the renewal, moves the member expiry forward and writes
// a membership_renewed outbox event, all in one transaction.
func (s *Storage) SaveRenewal(ctx context.Context, renewal models.Renewal) (models.Renewal, error) {
	const op = "storage.postgres.SaveRenewal"

	tx, err := s.dbpool.Begin(ctx)
	if err != nil {
		return models.Renewal{}, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO renewals(id,member_id,package_id,paid_amount,new_expiry,renewed_at)
		VALUES(@id,@memberId,@packageId,@paidAmount,@newExpiry,@renewedAt)
		RETURNING id,member_id,package_id,paid_amount,new_expiry,renewed_at`
	args := pgx.NamedArgs{
		"id":         renewal.ID,
		"memberId":   renewal.MemberID,
		"packageId":  renewal.PackageID,
		"paidAmount": renewal.PaidAmount,
		"newExpiry":  renewal.NewExpiry,
		"renewedAt":  renewal.RenewedAt,
	}

	var saved storageModel.Renewal
	err = tx.QueryRow(ctx, query, args).Scan(
		&saved.ID, &saved.MemberID, &saved.PackageID, &saved.PaidAmount, &saved.NewExpiry, &saved.RenewedAt,
	)
	if err != nil {
		return models.Renewal{}, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := tx.Exec(ctx,
		"UPDATE members SET expires_at=$2, package_id=$3 WHERE id=$1",
		saved.MemberID, saved.NewExpiry, saved.PackageID,
	)
	if err != nil {
		return models.Renewal{}, fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return models.Renewal{}, fmt.Errorf("%s: %w", op, storage.ErrMemberNotFound)
	}

	if err := s.saveEvent(ctx, tx, models.EventMembershipRenewed, saved); err != nil {
		return models.Renewal{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Renewal{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToRenewalFromStorage(saved), nil
}

func (s *Storage) saveEvent(ctx context.Context, tx pgx.Tx, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO events(id,event_type,payload,status,created_at) VALUES($1,$2,$3,'new',NOW())",
		uuid.New(), eventType, string(data),
	)
	return err
}
