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

type accountAffiliationStore interface {
	Create(ctx context.Context, a *domain.AccountAffiliation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AccountAffiliation, error)
	GetAll(ctx context.Context) ([]domain.AccountAffiliation, error)
	GetByCustomer(ctx context.Context, customerID string) ([]domain.AccountAffiliation, error)
	GetByCustomerAndAccount(ctx context.Context, customerID, accountID string) ([]domain.AccountAffiliation, error)
	Update(ctx context.Context, a *domain.AccountAffiliation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type accountSnapshotGateway interface {
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	GetAccount(ctx context.Context, id string) (domain.Account, error)
}

// AccountAffiliationRequest carries the candidate affiliation as submitted
// by the caller. The customer and account snapshots are resolved here, not
// trusted from the request.
type AccountAffiliationRequest struct {
	CustomerID      string
	AccountID       string
	NumberOfHolders int
	NumberOfSigners int
	Balance         int64
	MovementDay     int
	Number          string
	Status          domain.AffiliationStatus
}

// AccountAffiliationService decides whether a customer may be affiliated to
// an account product and owns the CRUD surface for the resulting records.
type AccountAffiliationService struct {
	store   accountAffiliationStore
	gateway accountSnapshotGateway
}

func NewAccountAffiliationService(store accountAffiliationStore, gateway accountSnapshotGateway) *AccountAffiliationService {
	return &AccountAffiliationService{store: store, gateway: gateway}
}

// Create evaluates eligibility and persists at most one affiliation.
//
// Enterprise customers may only affiliate checking accounts with at least
// one holder. Personal customers may hold at most one affiliation per
// account kind. A degraded snapshot (remote outage, open breaker) matches
// no branch and is reported as ineligibility, never as a fault.
func (s *AccountAffiliationService) Create(ctx context.Context, req AccountAffiliationRequest) (*domain.AccountAffiliation, error) {
	log := logging.FromContext(ctx)

	customer, account, err := s.fetchSnapshots(ctx, req.CustomerID, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	switch customer.Segment {
	case domain.SegmentEnterprise:
		return s.createEnterprise(ctx, req, account)
	case domain.SegmentPersonal:
		return s.createPersonal(ctx, req, account)
	default:
		log.Info("account affiliation rejected",
			"customer_id", req.CustomerID,
			"account_id", req.AccountID,
			"reason", "unrecognized customer segment",
		)
		return nil, fmt.Errorf("Create: %w", domain.ErrNotEligible)
	}
}

// fetchSnapshots resolves the customer and account concurrently and joins
// both before any rule runs. A degraded lookup leaves the zero-value
// snapshot in place; only non-gateway failures abort the join.
func (s *AccountAffiliationService) fetchSnapshots(ctx context.Context, customerID, accountID string) (domain.Customer, domain.Account, error) {
	var (
		customer domain.Customer
		account  domain.Account
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
		a, err := s.gateway.GetAccount(gctx, accountID)
		if err != nil {
			if errors.Is(err, domain.ErrRemoteUnavailable) {
				return nil
			}
			return err
		}
		account = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Customer{}, domain.Account{}, err
	}
	return customer, account, nil
}

func (s *AccountAffiliationService) createEnterprise(ctx context.Context, req AccountAffiliationRequest, account domain.Account) (*domain.AccountAffiliation, error) {
	log := logging.FromContext(ctx)

	if account.Kind != domain.AccountKindChecking || req.NumberOfHolders <= 0 {
		log.Info("account affiliation rejected",
			"customer_id", req.CustomerID,
			"account_id", req.AccountID,
			"account_kind", account.Kind,
			"number_of_holders", req.NumberOfHolders,
			"reason", "enterprise rule not satisfied",
		)
		return nil, fmt.Errorf("createEnterprise: %w", domain.ErrNotEligible)
	}

	return s.persist(ctx, req)
}

// createPersonal rejects the candidate when the customer already holds an
// affiliation whose account resolves to the same kind. The kinds of all
// existing affiliations are resolved concurrently; an unresolvable existing
// account simply contributes no kind to compare against.
func (s *AccountAffiliationService) createPersonal(ctx context.Context, req AccountAffiliationRequest, account domain.Account) (*domain.AccountAffiliation, error) {
	log := logging.FromContext(ctx)

	if !account.Kind.IsValid() {
		log.Info("account affiliation rejected",
			"customer_id", req.CustomerID,
			"account_id", req.AccountID,
			"reason", "account kind unresolved",
		)
		return nil, fmt.Errorf("createPersonal: %w", domain.ErrNotEligible)
	}

	existing, err := s.store.GetByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("createPersonal: list existing: %w", err)
	}

	kinds := make([]domain.AccountKind, len(existing))
	g, gctx := errgroup.WithContext(ctx)
	for i, affiliation := range existing {
		g.Go(func() error {
			snapshot, err := s.gateway.GetAccount(gctx, affiliation.AccountID)
			if err != nil {
				if errors.Is(err, domain.ErrRemoteUnavailable) {
					return nil
				}
				return err
			}
			kinds[i] = snapshot.Kind
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("createPersonal: resolve kinds: %w", err)
	}

	for _, kind := range kinds {
		if kind == account.Kind {
			log.Info("account affiliation rejected",
				"customer_id", req.CustomerID,
				"account_id", req.AccountID,
				"account_kind", account.Kind,
				"reason", "duplicate account kind",
			)
			return nil, fmt.Errorf("createPersonal: %w", domain.ErrNotEligible)
		}
	}

	return s.persist(ctx, req)
}

func (s *AccountAffiliationService) persist(ctx context.Context, req AccountAffiliationRequest) (*domain.AccountAffiliation, error) {
	affiliation := &domain.AccountAffiliation{
		CustomerID:      req.CustomerID,
		AccountID:       req.AccountID,
		NumberOfHolders: req.NumberOfHolders,
		NumberOfSigners: req.NumberOfSigners,
		Balance:         req.Balance,
		MovementDay:     req.MovementDay,
		Number:          req.Number,
		Status:          req.Status,
	}

	if err := s.store.Create(ctx, affiliation); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	logging.FromContext(ctx).Info("account affiliation created",
		"affiliation_id", affiliation.ID,
		"customer_id", affiliation.CustomerID,
		"account_id", affiliation.AccountID,
	)
	return affiliation, nil
}

// Update replaces the mutable fields of an existing affiliation. The
// customer/account pairing is fixed at creation and never rewritten.
func (s *AccountAffiliationService) Update(ctx context.Context, id uuid.UUID, req AccountAffiliationRequest) (*domain.AccountAffiliation, error) {
	affiliation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	affiliation.Balance = req.Balance
	affiliation.MovementDay = req.MovementDay
	affiliation.Number = req.Number
	affiliation.NumberOfHolders = req.NumberOfHolders
	affiliation.NumberOfSigners = req.NumberOfSigners
	affiliation.Status = req.Status

	if err := s.store.Update(ctx, affiliation); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	return affiliation, nil
}

func (s *AccountAffiliationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (s *AccountAffiliationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AccountAffiliation, error) {
	affiliation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return affiliation, nil
}

func (s *AccountAffiliationService) GetAll(ctx context.Context) ([]domain.AccountAffiliation, error) {
	affiliations, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	return affiliations, nil
}

func (s *AccountAffiliationService) GetByCustomer(ctx context.Context, customerID string) ([]domain.AccountAffiliation, error) {
	affiliations, err := s.store.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("GetByCustomer: %w", err)
	}
	return affiliations, nil
}

func (s *AccountAffiliationService) GetByCustomerAndAccount(ctx context.Context, customerID, accountID string) ([]domain.AccountAffiliation, error) {
	affiliations, err := s.store.GetByCustomerAndAccount(ctx, customerID, accountID)
	if err != nil {
		return nil, fmt.Errorf("GetByCustomerAndAccount: %w", err)
	}
	return affiliations, nil
}
