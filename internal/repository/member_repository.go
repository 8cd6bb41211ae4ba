package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/spec-kit/gym-service/internal/domain"
)

// MemberRepository defines persistence access for gym member records.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	Update(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, adminID, id string) (*domain.Member, error)
	ListByAdmin(ctx context.Context, adminID string) ([]*domain.Member, error)
	Delete(ctx context.Context, adminID, id string) error
}

type memberRepository struct {
	db *sql.DB
}

// NewMemberRepository returns a SQLite-backed implementation.
func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, admin_id, name, email, phone, plan_id, joined_at, expires_at, created_at, updated_at`

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	const query = `
        INSERT INTO members (id, admin_id, name, email, phone, plan_id, joined_at, expires_at, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.AdminID,
		member.Name,
		member.Email,
		member.Phone,
		member.PlanID,
		member.JoinedAt.UTC().Format(time.RFC3339Nano),
		member.ExpiresAt.UTC().Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	return err
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	member.UpdatedAt = time.Now().UTC()

	const query = `
        UPDATE members SET name = ?, email = ?, phone = ?, plan_id = ?, expires_at = ?, updated_at = ?
        WHERE id = ? AND admin_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		member.Name,
		member.Email,
		member.Phone,
		member.PlanID,
		member.ExpiresAt.UTC().Format(time.RFC3339Nano),
		member.UpdatedAt.Format(time.RFC3339Nano),
		member.ID,
		member.AdminID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, adminID, id string) (*domain.Member, error) {
	const query = `SELECT ` + memberColumns + ` FROM members WHERE id = ? AND admin_id = ?`
	return scanMember(r.db.QueryRowContext(ctx, query, id, adminID))
}

func (r *memberRepository) ListByAdmin(ctx context.Context, adminID string) ([]*domain.Member, error) {
	const query = `SELECT ` + memberColumns + ` FROM members WHERE admin_id = ? ORDER BY joined_at DESC`

	rows, err := r.db.QueryContext(ctx, query, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *memberRepository) Delete(ctx context.Context, adminID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ? AND admin_id = ?`, id, adminID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var member domain.Member
	var planID sql.NullString
	var joinedAt, expiresAt, createdAt, updatedAt string
	if err := row.Scan(
		&member.ID,
		&member.AdminID,
		&member.Name,
		&member.Email,
		&member.Phone,
		&planID,
		&joinedAt,
		&expiresAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if planID.Valid {
		member.PlanID = &planID.String
	}
	member.JoinedAt, _ = time.Parse(time.RFC3339Nano, joinedAt)
	member.ExpiresAt, _ = time.Parse(time.RFC3339Nano, expiresAt)
	member.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	member.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &member, nil
}
