package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mguerra/affiliation-service/internal/domain"
	"github.com/mguerra/affiliation-service/internal/logging"
)

type creditAffiliationStore interface {
	Create(ctx context.Context, c *domain.CreditAffiliation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditAffiliation, error)
	GetAll(ctx context.Context) ([]domain.CreditAffiliation, error)
	GetByCustomer(ctx context.Context, customerID string) ([]domain.CreditAffiliation, error)
	GetByCustomerAndCredit(ctx context.Context, customerID, creditID string) ([]domain.CreditAffiliation, error)
	Update(ctx context.Context, c *domain.CreditAffiliation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type creditSnapshotGateway interface {
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	GetCredit(ctx context.Context, id string) (domain.Credit, error)
}

type CreditAffiliationRequest struct {
	CustomerID  string
	CreditID    string
	Balance     int64
	CardNumber  string
	CreditLimit int64
	LoanNumber  string
}

// CreditAffiliationService decides whether a customer may be affiliated to a
// credit product and owns the CRUD surface for the resulting records.
type CreditAffiliationService struct {
	store   creditAffiliationStore
	gateway creditSnapshotGateway
}

func NewCreditAffiliationService(store creditAffiliationStore, gateway creditSnapshotGateway) *CreditAffiliationService {
	return &CreditAffiliationService{store: store, gateway: gateway}
}

// Create evaluates the two segment-aligned pairings and persists at most one
// affiliation. The enterprise pairing is checked first; the personal pairing
// is evaluated only if the enterprise one does not hold. The persisted record
// denormalizes the snapshots that validated the pairing.
func (s *CreditAffiliationService) Create(ctx context.Context, req CreditAffiliationRequest) (*domain.CreditAffiliation, error) {
	log := logging.FromContext(ctx)

	customer, credit, err := s.fetchSnapshots(ctx, req.CustomerID, req.CreditID)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	if customer.Segment == domain.SegmentEnterprise && credit.Kind.IsEnterprise() {
		return s.persist(ctx, req, customer, credit)
	}
	if customer.Segment == domain.SegmentPersonal && credit.Kind.IsPersonal() {
		return s.persist(ctx, req, customer, credit)
	}

	log.Info("credit affiliation rejected",
		"customer_id", req.CustomerID,
		"credit_id", req.CreditID,
		"segment", customer.Segment,
		"credit_kind", credit.Kind,
		"reason", "segment and credit kind do not pair",
	)
	return nil, fmt.Errorf("Create: %w", domain.ErrNotEligible)
}

func (s *CreditAffiliationService) fetchSnapshots(ctx context.Context, customerID, creditID string) (domain.Customer, domain.Credit, error) {
	var (
		customer domain.Customer
		credit   domain.Credit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.gateway.GetCustomer(gctx, customerID)
		if err != nil {
			if errors.Is(err, domain.ErrRemoteUnavailable) {
				return nil
			}
			return err
		}
		customer = c
		return nil
	})
	g.Go(func() error {
		c, err := s.gateway.GetCredit(gctx, creditID)
		if err != nil {
			if errors.Is(err, domain.ErrRemoteUnavailable) {
				return nil
			}
			return err
		}
		credit = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Customer{}, domain.Credit{}, err
	}
	return customer, credit, nil
}

func (s *CreditAffiliationService) persist(ctx context.Context, req CreditAffiliationRequest, customer domain.Customer, credit domain.Credit) (*domain.CreditAffiliation, error) {
	affiliation := &domain.CreditAffiliation{
		CustomerID:  req.CustomerID,
		CreditID:    req.CreditID,
		Customer:    customer,
		Credit:      credit,
		Balance:     req.Balance,
		CardNumber:  req.CardNumber,
		CreditLimit: req.CreditLimit,
		LoanNumber:  req.LoanNumber,
	}

	if err := s.store.Create(ctx, affiliation); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	logging.FromContext(ctx).Info("credit affiliation created",
		"affiliation_id", affiliation.ID,
		"customer_id", affiliation.CustomerID,
		"credit_id", affiliation.CreditID,
		"credit_kind", credit.Kind,
	)
	return affiliation, nil
}

// Update replaces the mutable fields of an existing affiliation. The pairing
// and the denormalized snapshots are fixed at creation.
func (s *CreditAffiliationService) Update(ctx context.Context, id uuid.UUID, req CreditAffiliationRequest) (*domain.CreditAffiliation, error) {
	affiliation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	affiliation.Balance = req.Balance
	affiliation.CardNumber = req.CardNumber
	affiliation.CreditLimit = req.CreditLimit
	affiliation.LoanNumber = req.LoanNumber

	if err := s.store.Update(ctx, affiliation); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	return affiliation, nil
}

func (s *CreditAffiliationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (s *CreditAffiliationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditAffiliation, error) {
	affiliation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return affiliation, nil
}

func (s *CreditAffiliationService) GetAll(ctx context.Context) ([]domain.CreditAffiliation, error) {
	affiliations, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	return affiliations, nil
}

func (s *CreditAffiliationService) GetByCustomer(ctx context.Context, customerID string) ([]domain.CreditAffiliation, error) {
	affiliations, err := s.store.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("GetByCustomer: %w", err)
	}
	return affiliations, nil
}

func (s *CreditAffiliationService) GetByCustomerAndCredit(ctx context.Context, customerID, creditID string) ([]domain.CreditAffiliation, error) {
	affiliations, err := s.store.GetByCustomerAndCredit(ctx, customerID, creditID)
	if err != nil {
		return nil, fmt.Errorf("GetByCustomerAndCredit: %w", err)
	}
	return affiliations, nil
}
