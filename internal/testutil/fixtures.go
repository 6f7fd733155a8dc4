package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/deynapp/collections-backend/internal/domain"
)

func SeedAgent(t *testing.T, db *sql.DB, email, name string) *domain.Agent {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	a := &domain.Agent{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Status:       domain.AgentStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO agents (id, email, name, password_hash, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Email, a.Name, a.PasswordHash, a.Status, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed agent %s: %v", email, err)
	}
	return a
}

func SeedCustomer(t *testing.T, db *sql.DB, ownerID uuid.UUID, id, name, balance string) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO customers (owner_id, id, name, phone, balance, status, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ownerID, id, name, "0634001122", balance, domain.StatusNormal, "", time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed customer %s: %v", id, err)
	}
}

// SeedLegacyCustomer writes a record the way the old bulk importer did:
// amounts as junk-laden text and the previous balance under the retired
// "prev" column.
func SeedLegacyCustomer(t *testing.T, db *sql.DB, ownerID uuid.UUID, id, name, rawBalance, rawPrev string) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO customers (owner_id, id, name, phone, balance, prev, status, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ownerID, id, name, "0634001122 / 0615998877", rawBalance, rawPrev, domain.StatusNormal, "", time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed legacy customer %s: %v", id, err)
	}
}

func GetCustomerStatus(t *testing.T, db *sql.DB, ownerID uuid.UUID, id string) string {
	t.Helper()

	var status string
	err := db.QueryRow(`SELECT status FROM customers WHERE owner_id = $1 AND id = $2`, ownerID, id).Scan(&status)
	if err != nil {
		t.Fatalf("get customer status %s: %v", id, err)
	}
	return status
}

func CountActivities(t *testing.T, db *sql.DB, customerID string) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM activities WHERE customer_id = $1`, customerID).Scan(&count)
	if err != nil {
		t.Fatalf("count activities for %s: %v", customerID, err)
	}
	return count
}
