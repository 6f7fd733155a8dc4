package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deynapp/collections-backend/internal/domain"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, a *domain.Activity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (id, customer_id, actor_id, type, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.CustomerID, a.ActorID, a.Type, a.Detail, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, actor_id, type, detail, created_at
		FROM activities WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByCustomer: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.ActorID, &a.Type, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListByCustomer: scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByCustomer: rows: %w", err)
	}
	return activities, nil
}
