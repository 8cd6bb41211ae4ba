package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/spec-kit/gym-service/internal/domain"
)

// PlanRepository defines persistence access for subscription plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) error
	Update(ctx context.Context, plan *domain.Plan) error
	GetByID(ctx context.Context, adminID, id string) (*domain.Plan, error)
	ListByAdmin(ctx context.Context, adminID string) ([]*domain.Plan, error)
	Delete(ctx context.Context, adminID, id string) error
}

type planRepository struct {
	db *sql.DB
}

// NewPlanRepository returns a SQLite-backed implementation.
func NewPlanRepository(db *sql.DB) PlanRepository {
	return &planRepository{db: db}
}

const planColumns = `id, admin_id, name, duration_months, price_cents, created_at, updated_at`

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	const query = `
        INSERT INTO plans (id, admin_id, name, duration_months, price_cents, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.AdminID,
		plan.Name,
		plan.DurationMonths,
		plan.PriceCents,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	return err
}

func (r *planRepository) Update(ctx context.Context, plan *domain.Plan) error {
	plan.UpdatedAt = time.Now().UTC()

	const query = `
        UPDATE plans SET name = ?, duration_months = ?, price_cents = ?, updated_at = ?
        WHERE id = ? AND admin_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		plan.Name,
		plan.DurationMonths,
		plan.PriceCents,
		plan.UpdatedAt.Format(time.RFC3339Nano),
		plan.ID,
		plan.AdminID,
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

func (r *planRepository) GetByID(ctx context.Context, adminID, id string) (*domain.Plan, error) {
	const query = `SELECT ` + planColumns + ` FROM plans WHERE id = ? AND admin_id = ?`
	return scanPlan(r.db.QueryRowContext(ctx, query, id, adminID))
}

func (r *planRepository) ListByAdmin(ctx context.Context, adminID string) ([]*domain.Plan, error) {
	const query = `SELECT ` + planColumns + ` FROM plans WHERE admin_id = ? ORDER BY price_cents`

	rows, err := r.db.QueryContext(ctx, query, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *planRepository) Delete(ctx context.Context, adminID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ? AND admin_id = ?`, id, adminID)
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

func scanPlan(row rowScanner) (*domain.Plan, error) {
	var (
		plan                 domain.Plan
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&plan.ID,
		&plan.AdminID,
		&plan.Name,
		&plan.DurationMonths,
		&plan.PriceCents,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	plan.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	plan.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &plan, nil
}
