package domain

import (
	"time"

	"github.com/google/uuid"
)

type AffiliationStatus string

const (
	AffiliationStatusActive  AffiliationStatus = "active"
	AffiliationStatusBlocked AffiliationStatus = "blocked"
	AffiliationStatusClosed  AffiliationStatus = "closed"
)

// AccountAffiliation links a customer to a bank account product. The record
// exists only if the (segment, account kind, holder count) tuple satisfied
// the applicable rule at creation time. The ID is assigned by the store.
type AccountAffiliation struct {
	ID              uuid.UUID
	CustomerID      string
	AccountID       string
	NumberOfHolders int
	NumberOfSigners int
	Balance         int64
	MovementDay     int
	Number          string
	Status          AffiliationStatus
	CreatedAt       time.Time
}

// CreditAffiliation links a customer to a credit product. The customer and
// credit snapshots resolved during the eligibility decision are denormalized
// onto the record at creation time.
type CreditAffiliation struct {
	ID          uuid.UUID
	CustomerID  string
	CreditID    string
	Customer    Customer
	Credit      Credit
	Balance     int64
	CardNumber  string
	CreditLimit int64
	LoanNumber  string
	CreatedAt   time.Time
}
