package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mguerra/affiliation-service/internal/domain"
)

const creditAffiliationColumns = `id, customer_id, credit_id, customer_segment,
	credit_kind, balance, card_number, credit_limit, loan_number, created_at`

// CreditAffiliationRepository persists credit affiliations, including the
// customer segment and credit kind captured when the affiliation was decided.
type CreditAffiliationRepository struct {
	db *sql.DB
}

func NewCreditAffiliationRepository(db *sql.DB) *CreditAffiliationRepository {
	return &CreditAffiliationRepository{db: db}
}

// Create assigns the record id and persists the affiliation together with
// the denormalized snapshots.
func (r *CreditAffiliationRepository) Create(ctx context.Context, c *domain.CreditAffiliation) error {
	c.ID = uuid.New()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credit_affiliations (
			id, customer_id, credit_id, customer_segment, credit_kind,
			balance, card_number, credit_limit, loan_number, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.CustomerID, c.CreditID, c.Customer.Segment, c.Credit.Kind,
		c.Balance, c.CardNumber, c.CreditLimit, c.LoanNumber, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *CreditAffiliationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditAffiliation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+creditAffiliationColumns+` FROM credit_affiliations WHERE id = $1`, id,
	)
	c, err := scanCreditAffiliation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return c, nil
}

func (r *CreditAffiliationRepository) GetAll(ctx context.Context) ([]domain.CreditAffiliation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+creditAffiliationColumns+` FROM credit_affiliations ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	defer rows.Close()

	return collectCreditAffiliations(rows, "GetAll")
}

func (r *CreditAffiliationRepository) GetByCustomer(ctx context.Context, customerID string) ([]domain.CreditAffiliation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+creditAffiliationColumns+` FROM credit_affiliations
		WHERE customer_id = $1 ORDER BY created_at`, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByCustomer: %w", err)
	}
	defer rows.Close()

	return collectCreditAffiliations(rows, "GetByCustomer")
}

func (r *CreditAffiliationRepository) GetByCustomerAndCredit(ctx context.Context, customerID, creditID string) ([]domain.CreditAffiliation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+creditAffiliationColumns+` FROM credit_affiliations
		WHERE customer_id = $1 AND credit_id = $2 ORDER BY created_at`,
		customerID, creditID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByCustomerAndCredit: %w", err)
	}
	defer rows.Close()

	return collectCreditAffiliations(rows, "GetByCustomerAndCredit")
}

func (r *CreditAffiliationRepository) Update(ctx context.Context, c *domain.CreditAffiliation) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credit_affiliations SET
			balance = $1, card_number = $2, credit_limit = $3, loan_number = $4
		WHERE id = $5`,
		c.Balance, c.CardNumber, c.CreditLimit, c.LoanNumber, c.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Update: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *CreditAffiliationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM credit_affiliations WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func collectCreditAffiliations(rows *sql.Rows, op string) ([]domain.CreditAffiliation, error) {
	var affiliations []domain.CreditAffiliation
	for rows.Next() {
		c, err := scanCreditAffiliation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		affiliations = append(affiliations, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return affiliations, nil
}

func scanCreditAffiliation(s scanner) (*domain.CreditAffiliation, error) {
	var c domain.CreditAffiliation
	err := s.Scan(
		&c.ID, &c.CustomerID, &c.CreditID, &c.Customer.Segment,
		&c.Credit.Kind, &c.Balance, &c.CardNumber, &c.CreditLimit,
		&c.LoanNumber, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Customer.ID = c.CustomerID
	c.Credit.ID = c.CreditID
	return &c, nil
}
