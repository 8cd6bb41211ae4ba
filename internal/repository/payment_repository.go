package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/spec-kit/gym-service/internal/domain"
)

// PaymentRepository defines persistence access for recorded payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	ListByMember(ctx context.Context, adminID, memberID string) ([]*domain.Payment, error)
	// MonthlyRevenue aggregates payment totals per calendar month for the
	// given year, scoped to one gym.
	MonthlyRevenue(ctx context.Context, adminID string, year int) ([]domain.MonthlyRevenue, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository returns a SQLite-backed implementation.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	payment.CreatedAt = time.Now().UTC()

	const query = `
        INSERT INTO payments (id, admin_id, member_id, plan_id, amount_cents, paid_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.AdminID,
		payment.MemberID,
		payment.PlanID,
		payment.AmountCents,
		payment.PaidAt.UTC().Format(time.RFC3339Nano),
		payment.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (r *paymentRepository) ListByMember(ctx context.Context, adminID, memberID string) ([]*domain.Payment, error) {
	const query = `
        SELECT id, admin_id, member_id, plan_id, amount_cents, paid_at, created_at
        FROM payments WHERE admin_id = ? AND member_id = ? ORDER BY paid_at DESC`

	rows, err := r.db.QueryContext(ctx, query, adminID, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		var payment domain.Payment
		var memberID, planID sql.NullString
		var paidAt, createdAt string
		if err := rows.Scan(
			&payment.ID,
			&payment.AdminID,
			&memberID,
			&planID,
			&payment.AmountCents,
			&paidAt,
			&createdAt,
		); err != nil {
			return nil, err
		}
		payment.MemberID = memberID.String
		payment.PlanID = planID.String
		payment.PaidAt, _ = time.Parse(time.RFC3339Nano, paidAt)
		payment.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		payments = append(payments, &payment)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) MonthlyRevenue(ctx context.Context, adminID string, year int) ([]domain.MonthlyRevenue, error) {
	// paid_at is stored as RFC3339 UTC text, so strftime can bucket it.
	const query = `
        SELECT CAST(strftime('%m', paid_at) AS INTEGER) AS month,
               SUM(amount_cents),
               COUNT(*)
        FROM payments
        WHERE admin_id = ? AND strftime('%Y', paid_at) = ?
        GROUP BY month
        ORDER BY month`

	rows, err := r.db.QueryContext(ctx, query, adminID, formatYear(year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []domain.MonthlyRevenue
	for rows.Next() {
		var row domain.MonthlyRevenue
		if err := rows.Scan(&row.Month, &row.TotalCents, &row.Payments); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func formatYear(year int) string {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}
