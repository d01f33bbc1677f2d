package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mguerra/affiliation-service/internal/domain"
)

func SeedAccountAffiliation(t *testing.T, db *sql.DB, customerID, accountID string) *domain.AccountAffiliation {
	t.Helper()

	a := &domain.AccountAffiliation{
		ID:              uuid.New(),
		CustomerID:      customerID,
		AccountID:       accountID,
		NumberOfHolders: 1,
		Status:          domain.AffiliationStatusActive,
		CreatedAt:       time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO account_affiliations (
			id, customer_id, account_id, number_of_holders, number_of_signers,
			balance, movement_day, number, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.CustomerID, a.AccountID, a.NumberOfHolders, a.NumberOfSigners,
		a.Balance, a.MovementDay, a.Number, a.Status, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account affiliation %s/%s: %v", customerID, accountID, err)
	}
	return a
}

func SeedCreditAffiliation(t *testing.T, db *sql.DB, customerID, creditID string, kind domain.CreditKind, segment domain.Segment) *domain.CreditAffiliation {
	t.Helper()

	c := &domain.CreditAffiliation{
		ID:         uuid.New(),
		CustomerID: customerID,
		CreditID:   creditID,
		Customer:   domain.Customer{ID: customerID, Segment: segment},
		Credit:     domain.Credit{ID: creditID, Kind: kind},
		CreatedAt:  time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO credit_affiliations (
			id, customer_id, credit_id, customer_segment, credit_kind,
			balance, card_number, credit_limit, loan_number, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.CustomerID, c.CreditID, c.Customer.Segment, c.Credit.Kind,
		c.Balance, c.CardNumber, c.CreditLimit, c.LoanNumber, c.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed credit affiliation %s/%s: %v", customerID, creditID, err)
	}
	return c
}

func CountAccountAffiliations(t *testing.T, db *sql.DB, customerID string) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM account_affiliations WHERE customer_id = $1`, customerID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count account affiliations for %s: %v", customerID, err)
	}
	return count
}
