package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mguerra/affiliation-service/internal/domain"
)

// fakeGateway serves snapshots from in-memory maps. Unknown ids and forced
// outages behave like the real gateway: ErrRemoteUnavailable, never a panic.
type fakeGateway struct {
	mu        sync.Mutex
	customers map[string]domain.Customer
	accounts  map[string]domain.Account
	credits   map[string]domain.Credit

	customersDown bool
	accountsDown  bool
	creditsDown   bool

	accountLookups int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		customers: make(map[string]domain.Customer),
		accounts:  make(map[string]domain.Account),
		credits:   make(map[string]domain.Credit),
	}
}

func (f *fakeGateway) GetCustomer(_ context.Context, id string) (domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.customersDown {
		return domain.Customer{}, domain.ErrRemoteUnavailable
	}
	c, ok := f.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrRemoteUnavailable
	}
	return c, nil
}

func (f *fakeGateway) GetAccount(_ context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountLookups++
	if f.accountsDown {
		return domain.Account{}, domain.ErrRemoteUnavailable
	}
	a, ok := f.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrRemoteUnavailable
	}
	return a, nil
}

func (f *fakeGateway) GetCredit(_ context.Context, id string) (domain.Credit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.creditsDown {
		return domain.Credit{}, domain.ErrRemoteUnavailable
	}
	c, ok := f.credits[id]
	if !ok {
		return domain.Credit{}, domain.ErrRemoteUnavailable
	}
	return c, nil
}

type fakeAccountStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]domain.AccountAffiliation

	// beforeList, when set, runs inside GetByCustomer after the snapshot is
	// taken but before it is returned, so callers can be held at the
	// duplicate check once they have listed. Used to line up interleavings
	// in the race test.
	beforeList func()
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{records: make(map[uuid.UUID]domain.AccountAffiliation)}
}

func (f *fakeAccountStore) Create(_ context.Context, a *domain.AccountAffiliation) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[a.ID] = *a
	return nil
}

func (f *fakeAccountStore) GetByID(_ context.Context, id uuid.UUID) (*domain.AccountAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAccountStore) GetAll(_ context.Context) ([]domain.AccountAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AccountAffiliation
	for _, a := range f.records {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccountStore) GetByCustomer(_ context.Context, customerID string) ([]domain.AccountAffiliation, error) {
	f.mu.Lock()
	var out []domain.AccountAffiliation
	for _, a := range f.records {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	f.mu.Unlock()
	// Run the hook outside the lock so held callers cannot deadlock others.
	if f.beforeList != nil {
		f.beforeList()
	}
	return out, nil
}

func (f *fakeAccountStore) GetByCustomerAndAccount(_ context.Context, customerID, accountID string) ([]domain.AccountAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AccountAffiliation
	for _, a := range f.records {
		if a.CustomerID == customerID && a.AccountID == accountID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountStore) Update(_ context.Context, a *domain.AccountAffiliation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[a.ID]; !ok {
		return domain.ErrNotFound
	}
	f.records[a.ID] = *a
	return nil
}

func (f *fakeAccountStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeAccountStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeCreditStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]domain.CreditAffiliation
}

func newFakeCreditStore() *fakeCreditStore {
	return &fakeCreditStore{records: make(map[uuid.UUID]domain.CreditAffiliation)}
}

func (f *fakeCreditStore) Create(_ context.Context, c *domain.CreditAffiliation) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[c.ID] = *c
	return nil
}

func (f *fakeCreditStore) GetByID(_ context.Context, id uuid.UUID) (*domain.CreditAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCreditStore) GetAll(_ context.Context) ([]domain.CreditAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CreditAffiliation
	for _, c := range f.records {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCreditStore) GetByCustomer(_ context.Context, customerID string) ([]domain.CreditAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CreditAffiliation
	for _, c := range f.records {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCreditStore) GetByCustomerAndCredit(_ context.Context, customerID, creditID string) ([]domain.CreditAffiliation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CreditAffiliation
	for _, c := range f.records {
		if c.CustomerID == customerID && c.CreditID == creditID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCreditStore) Update(_ context.Context, c *domain.CreditAffiliation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[c.ID]; !ok {
		return domain.ErrNotFound
	}
	f.records[c.ID] = *c
	return nil
}

func (f *fakeCreditStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeCreditStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}
