package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mguerra/affiliation-service/internal/domain"
	"github.com/mguerra/affiliation-service/internal/testutil"
)

func TestAccountAffiliationRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountAffiliationRepository(db)
	ctx := context.Background()

	a := &domain.AccountAffiliation{
		CustomerID:      "C1",
		AccountID:       "A1",
		NumberOfHolders: 2,
		NumberOfSigners: 1,
		Balance:         5000,
		MovementDay:     10,
		Number:          "0011-2233",
		Status:          domain.AffiliationStatusActive,
	}
	require.NoError(t, repo.Create(ctx, a))
	require.NotEqual(t, uuid.Nil, a.ID)

	found, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
	assert.Equal(t, "C1", found.CustomerID)
	assert.Equal(t, "A1", found.AccountID)
	assert.Equal(t, 2, found.NumberOfHolders)
	assert.Equal(t, int64(5000), found.Balance)
	assert.Equal(t, domain.AffiliationStatusActive, found.Status)
	assert.WithinDuration(t, a.CreatedAt, found.CreatedAt, time.Millisecond)
}

func TestAccountAffiliationRepository_GetByID_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountAffiliationRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountAffiliationRepository_GetByCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountAffiliationRepository(db)
	ctx := context.Background()

	testutil.SeedAccountAffiliation(t, db, "C1", "A1")
	testutil.SeedAccountAffiliation(t, db, "C1", "A2")
	testutil.SeedAccountAffiliation(t, db, "C2", "A1")

	affiliations, err := repo.GetByCustomer(ctx, "C1")
	require.NoError(t, err)
	assert.Len(t, affiliations, 2)
	for _, a := range affiliations {
		assert.Equal(t, "C1", a.CustomerID)
	}

	pair, err := repo.GetByCustomerAndAccount(ctx, "C1", "A2")
	require.NoError(t, err)
	require.Len(t, pair, 1)
	assert.Equal(t, "A2", pair[0].AccountID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAccountAffiliationRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountAffiliationRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedAccountAffiliation(t, db, "C1", "A1")

	seeded.Balance = 9000
	seeded.MovementDay = 28
	seeded.Number = "9999"
	seeded.NumberOfHolders = 3
	seeded.NumberOfSigners = 2
	seeded.Status = domain.AffiliationStatusBlocked
	require.NoError(t, repo.Update(ctx, seeded))

	found, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), found.Balance)
	assert.Equal(t, 28, found.MovementDay)
	assert.Equal(t, "9999", found.Number)
	assert.Equal(t, 3, found.NumberOfHolders)
	assert.Equal(t, 2, found.NumberOfSigners)
	assert.Equal(t, domain.AffiliationStatusBlocked, found.Status)
}

func TestAccountAffiliationRepository_UpdateMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountAffiliationRepository(db)

	err := repo.Update(context.Background(), &domain.AccountAffiliation{ID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountAffiliationRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountAffiliationRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedAccountAffiliation(t, db, "C1", "A1")

	require.NoError(t, repo.Delete(ctx, seeded.ID))

	_, err := repo.GetByID(ctx, seeded.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, seeded.ID), domain.ErrNotFound)
}
