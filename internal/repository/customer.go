package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/deynapp/collections-backend/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// customerColumns is the canonical projection. Amounts come out as the raw
// imported text and the legacy "prev" column is coalesced into
// prev_balance, so normalization happens exactly once, here at the scan
// boundary; everything downstream sees clean decimals and one field name.
const customerColumns = `owner_id, id, name, phone,
	COALESCE(balance, '0'), COALESCE(prev_balance, prev, '0'),
	status, COALESCE(note, ''), COALESCE(appointment_date, ''),
	discount_amount, paid_amount, paid_date,
	is_favorite, call_count, location, created_at`

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetByID(ctx context.Context, ownerID uuid.UUID, id string) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE owner_id = $1 ORDER BY name`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	customers, err := collectCustomers(rows)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return customers, nil
}

// ListAll returns every customer across agents, for the morning digest.
func (r *CustomerRepository) ListAll(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY owner_id, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	defer rows.Close()

	customers, err := collectCustomers(rows)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return customers, nil
}

// Save upserts the record, writing amounts back in canonical form. Legacy
// text junk disappears the first time a record passes through the engine.
func (r *CustomerRepository) Save(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (
			owner_id, id, name, phone, balance, prev_balance,
			status, note, appointment_date, discount_amount, paid_amount,
			paid_date, is_favorite, call_count, location, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (owner_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			balance = EXCLUDED.balance,
			prev_balance = EXCLUDED.prev_balance,
			status = EXCLUDED.status,
			note = EXCLUDED.note,
			appointment_date = EXCLUDED.appointment_date,
			discount_amount = EXCLUDED.discount_amount,
			paid_amount = EXCLUDED.paid_amount,
			paid_date = EXCLUDED.paid_date,
			is_favorite = EXCLUDED.is_favorite,
			call_count = EXCLUDED.call_count,
			location = EXCLUDED.location`,
		c.OwnerID, c.ID, c.Name, c.Phone,
		c.Balance.String(), c.PrevBalance.String(),
		c.Status, c.Note, nullString(c.AppointmentDate),
		c.DiscountAmount, c.PaidAmount,
		c.PaidDate, c.IsFavorite, c.CallCount, c.Location, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

func collectCustomers(rows *sql.Rows) ([]domain.Customer, error) {
	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return customers, nil
}

func scanCustomer(s scanner) (*domain.Customer, error) {
	var (
		c          domain.Customer
		rawBalance string
		rawPrev    string
		paidDate   sql.NullTime
		location   sql.NullString
	)
	err := s.Scan(
		&c.OwnerID, &c.ID, &c.Name, &c.Phone,
		&rawBalance, &rawPrev,
		&c.Status, &c.Note, &c.AppointmentDate,
		&c.DiscountAmount, &c.PaidAmount, &paidDate,
		&c.IsFavorite, &c.CallCount, &location, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Balance = normalizeAmount(rawBalance)
	c.PrevBalance = normalizeAmount(rawPrev)
	if paidDate.Valid {
		t := paidDate.Time
		c.PaidDate = &t
	}
	if location.Valid {
		l := location.String
		c.Location = &l
	}
	return &c, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
