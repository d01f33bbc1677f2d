package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mguerra/affiliation-service/internal/domain"
)

func setupAccountTest() (*AccountAffiliationService, *fakeAccountStore, *fakeGateway) {
	store := newFakeAccountStore()
	gw := newFakeGateway()
	return NewAccountAffiliationService(store, gw), store, gw
}

func TestAccountCreate_Enterprise(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.AccountKind
		holders int
		wantErr error
	}{
		{name: "checking with holders", kind: domain.AccountKindChecking, holders: 2},
		{name: "checking single holder", kind: domain.AccountKindChecking, holders: 1},
		{name: "checking zero holders", kind: domain.AccountKindChecking, holders: 0, wantErr: domain.ErrNotEligible},
		{name: "savings with holders", kind: domain.AccountKindSavings, holders: 3, wantErr: domain.ErrNotEligible},
		{name: "fixed term with holders", kind: domain.AccountKindFixedTerm, holders: 1, wantErr: domain.ErrNotEligible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, gw := setupAccountTest()
			gw.customers["C1"] = domain.Customer{ID: "C1", Segment: domain.SegmentEnterprise}
			gw.accounts["A1"] = domain.Account{ID: "A1", Kind: tt.kind}

			affiliation, err := svc.Create(context.Background(), AccountAffiliationRequest{
				CustomerID:      "C1",
				AccountID:       "A1",
				NumberOfHolders: tt.holders,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, affiliation)
				assert.Zero(t, store.count())
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, affiliation.ID)
			assert.Equal(t, tt.holders, affiliation.NumberOfHolders)
			assert.Equal(t, 1, store.count())
		})
	}
}

func TestAccountCreate_PersonalDuplicateKind(t *testing.T) {
	svc, store, gw := setupAccountTest()
	gw.customers["C2"] = domain.Customer{ID: "C2", Segment: domain.SegmentPersonal}
	gw.accounts["A1"] = domain.Account{ID: "A1", Kind: domain.AccountKindSavings}
	gw.accounts["A2"] = domain.Account{ID: "A2", Kind: domain.AccountKindSavings}
	gw.accounts["A3"] = domain.Account{ID: "A3", Kind: domain.AccountKindChecking}

	first, err := svc.Create(context.Background(), AccountAffiliationRequest{
		CustomerID: "C2",
		AccountID:  "A1",
	})
	require.NoError(t, err)
	require.NotNil(t, first)

	// Same kind again: rejected even though the account id differs.
	_, err = svc.Create(context.Background(), AccountAffiliationRequest{
		CustomerID: "C2",
		AccountID:  "A2",
	})
	require.ErrorIs(t, err, domain.ErrNotEligible)
	assert.Equal(t, 1, store.count())

	// A different kind is fine.
	second, err := svc.Create(context.Background(), AccountAffiliationRequest{
		CustomerID: "C2",
		AccountID:  "A3",
	})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 2, store.count())
}

func TestAccountCreate_PersonalResolvesExistingKindsRemotely(t *testing.T) {
	svc, _, gw := setupAccountTest()
	gw.customers["C2"] = domain.Customer{ID: "C2", Segment: domain.SegmentPersonal}
	gw.accounts["A1"] = domain.Account{ID: "A1", Kind: domain.AccountKindSavings}
	gw.accounts["A2"] = domain.Account{ID: "A2", Kind: domain.AccountKindChecking}

	_, err := svc.Create(context.Background(), AccountAffiliationRequest{CustomerID: "C2", AccountID: "A1"})
	require.NoError(t, err)

	lookupsBefore := gw.accountLookups
	_, err = svc.Create(context.Background(), AccountAffiliationRequest{CustomerID: "C2", AccountID: "A2"})
	require.NoError(t, err)

	// Candidate account plus one lookup per existing affiliation.
	assert.Equal(t, 2, gw.accountLookups-lookupsBefore)
}

func TestAccountCreate_UnrecognizedSegment(t *testing.T) {
	svc, store, gw := setupAccountTest()
	gw.customers["C3"] = domain.Customer{ID: "C3", Segment: "WHOLESALE"}
	gw.accounts["A1"] = domain.Account{ID: "A1", Kind: domain.AccountKindChecking}

	_, err := svc.Create(context.Background(), AccountAffiliationRequest{
		CustomerID:      "C3",
		AccountID:       "A1",
		NumberOfHolders: 1,
	})
	require.ErrorIs(t, err, domain.ErrNotEligible)
	assert.Zero(t, store.count())
}

func TestAccountCreate_CustomerLookupDown(t *testing.T) {
	svc, store, gw := setupAccountTest()
	gw.customersDown = true
	gw.accounts["A1"] = domain.Account{ID: "A1", Kind: domain.AccountKindChecking}

	_, err := svc.Create(context.Background(), AccountAffiliationRequest{
		CustomerID:      "C1",
		AccountID:       "A1",
		NumberOfHolders: 2,
	})

	// An outage is reported as ordinary ineligibility, never as a fault.
	require.ErrorIs(t, err, domain.ErrNotEligible)
	assert.NotErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Zero(t, store.count())
}

func TestAccountCreate_AccountLookupDown(t *testing.T) {
	svc, store, gw := setupAccountTest()
	gw.customers["C2"] = domain.Customer{ID: "C2", Segment: domain.SegmentPersonal}
	gw.accountsDown = true

	_, err := svc.Create(context.Background(), AccountAffiliationRequest{
		CustomerID: "C2",
		AccountID:  "A1",
	})
	require.ErrorIs(t, err, domain.ErrNotEligible)
	assert.Zero(t, store.count())
}

// Duplicate-kind exclusion is only checked against the store's state at list
// time; without a store-level uniqueness constraint two concurrent creates for
// the same (customer, kind) can both pass. This pins down that known gap.
func TestAccountCreate_DuplicateKindRace(t *testing.T) {
	store := newFakeAccountStore()
	gw := newFakeGateway()
	gw.customers["C2"] = domain.Customer{ID: "C2", Segment: domain.SegmentPersonal}
	gw.accounts["A1"] = domain.Account{ID: "A1", Kind: domain.AccountKindSavings}
	gw.accounts["A2"] = domain.Account{ID: "A2", Kind: domain.AccountKindSavings}

	var barrier sync.WaitGroup
	barrier.Add(2)
	store.beforeList = func() {
		// Hold both decisions at the duplicate check until each has listed,
		// so neither observes the other's create.
		barrier.Done()
		barrier.Wait()
	}
	svc := NewAccountAffiliationService(store, gw)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, accountID := range []string{"A1", "A2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), AccountAffiliationRequest{
				CustomerID: "C2",
				AccountID:  accountID,
			})
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 2, store.count())
}

func TestAccountUpdate(t *testing.T) {
	svc, store, gw := setupAccountTest()
	gw.customers["C1"] = domain.Customer{ID: "C1", Segment: domain.SegmentEnterprise}
	gw.accounts["A1"] = domain.Account{ID: "A1", Kind: domain.AccountKindChecking}

	created, err := svc.Create(context.Background(), AccountAffiliationRequest{
		CustomerID:      "C1",
		AccountID:       "A1",
		NumberOfHolders: 1,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, AccountAffiliationRequest{
		CustomerID:      "ignored",
		AccountID:       "ignored",
		NumberOfHolders: 4,
		NumberOfSigners: 2,
		Balance:         1500,
		MovementDay:     15,
		Number:          "0011-2233",
		Status:          domain.AffiliationStatusBlocked,
	})
	require.NoError(t, err)

	// Pairing is immutable; only the whitelisted fields move.
	assert.Equal(t, "C1", updated.CustomerID)
	assert.Equal(t, "A1", updated.AccountID)
	assert.Equal(t, 4, updated.NumberOfHolders)
	assert.Equal(t, 2, updated.NumberOfSigners)
	assert.Equal(t, int64(1500), updated.Balance)
	assert.Equal(t, 15, updated.MovementDay)
	assert.Equal(t, "0011-2233", updated.Number)
	assert.Equal(t, domain.AffiliationStatusBlocked, updated.Status)

	stored, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *stored)
}

func TestAccountGetByID_AfterCreate(t *testing.T) {
	svc, _, gw := setupAccountTest()
	gw.customers["C1"] = domain.Customer{ID: "C1", Segment: domain.SegmentEnterprise}
	gw.accounts["A1"] = domain.Account{ID: "A1", Kind: domain.AccountKindChecking}

	created, err := svc.Create(context.Background(), AccountAffiliationRequest{
		CustomerID:      "C1",
		AccountID:       "A1",
		NumberOfHolders: 2,
		Balance:         300,
	})
	require.NoError(t, err)

	found, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *found)
}

func TestAccountDelete_Missing(t *testing.T) {
	svc, _, _ := setupAccountTest()

	err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}
