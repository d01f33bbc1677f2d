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

const accountAffiliationColumns = `id, customer_id, account_id, number_of_holders,
	number_of_signers, balance, movement_day, number, status, created_at`

// AccountAffiliationRepository persists account affiliations. It is a keyed
// store only; eligibility is decided upstream.
type AccountAffiliationRepository struct {
	db *sql.DB
}

func NewAccountAffiliationRepository(db *sql.DB) *AccountAffiliationRepository {
	return &AccountAffiliationRepository{db: db}
}

// Create assigns the record id and persists the affiliation.
func (r *AccountAffiliationRepository) Create(ctx context.Context, a *domain.AccountAffiliation) error {
	a.ID = uuid.New()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_affiliations (
			id, customer_id, account_id, number_of_holders, number_of_signers,
			balance, movement_day, number, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.CustomerID, a.AccountID, a.NumberOfHolders, a.NumberOfSigners,
		a.Balance, a.MovementDay, a.Number, a.Status, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountAffiliationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AccountAffiliation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountAffiliationColumns+` FROM account_affiliations WHERE id = $1`, id,
	)
	a, err := scanAccountAffiliation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountAffiliationRepository) GetAll(ctx context.Context) ([]domain.AccountAffiliation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountAffiliationColumns+` FROM account_affiliations ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	defer rows.Close()

	return collectAccountAffiliations(rows, "GetAll")
}

func (r *AccountAffiliationRepository) GetByCustomer(ctx context.Context, customerID string) ([]domain.AccountAffiliation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountAffiliationColumns+` FROM account_affiliations
		WHERE customer_id = $1 ORDER BY created_at`, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByCustomer: %w", err)
	}
	defer rows.Close()

	return collectAccountAffiliations(rows, "GetByCustomer")
}

func (r *AccountAffiliationRepository) GetByCustomerAndAccount(ctx context.Context, customerID, accountID string) ([]domain.AccountAffiliation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountAffiliationColumns+` FROM account_affiliations
		WHERE customer_id = $1 AND account_id = $2 ORDER BY created_at`,
		customerID, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByCustomerAndAccount: %w", err)
	}
	defer rows.Close()

	return collectAccountAffiliations(rows, "GetByCustomerAndAccount")
}

func (r *AccountAffiliationRepository) Update(ctx context.Context, a *domain.AccountAffiliation) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE account_affiliations SET
			number_of_holders = $1, number_of_signers = $2, balance = $3,
			movement_day = $4, number = $5, status = $6
		WHERE id = $7`,
		a.NumberOfHolders, a.NumberOfSigners, a.Balance,
		a.MovementDay, a.Number, a.Status, a.ID,
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

func (r *AccountAffiliationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM account_affiliations WHERE id = $1`, id,
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

func collectAccountAffiliations(rows *sql.Rows, op string) ([]domain.AccountAffiliation, error) {
	var affiliations []domain.AccountAffiliation
	for rows.Next() {
		a, err := scanAccountAffiliation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		affiliations = append(affiliations, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return affiliations, nil
}

func scanAccountAffiliation(s scanner) (*domain.AccountAffiliation, error) {
	var a domain.AccountAffiliation
	err := s.Scan(
		&a.ID, &a.CustomerID, &a.AccountID, &a.NumberOfHolders,
		&a.NumberOfSigners, &a.Balance, &a.MovementDay, &a.Number,
		&a.Status, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
