package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/store/model"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Name = ":memory:"

	db, err := InitDB(cfg)
	require.NoError(t, err)

	s := NewStore(db)
	require.NoError(t, s.InitialMigration())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestJobStoreCreateAndGetByPaymentID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := &model.Job{
		PaymentID: "cs_test_123",
		Title:     "Machine Learning Engineer",
		Category:  "machine-learning",
	}
	require.NoError(t, s.Job().Create(ctx, job))
	assert.NotEqual(t, uuid.Nil, job.ID)

	found, err := s.Job().GetByPaymentID(ctx, "cs_test_123")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, job.ID, found.ID)

	missing, err := s.Job().GetByPaymentID(ctx, "cs_other")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestJobStorePaymentIDUniqueConstraint(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &model.Job{PaymentID: "cs_dup", Title: "Engineer"}
	require.NoError(t, s.Job().Create(ctx, first))

	second := &model.Job{PaymentID: "cs_dup", Title: "Engineer Again"}
	err := s.Job().Create(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestJobStoreListRespectsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, paymentID := range []string{"cs_1", "cs_2", "cs_3"} {
		require.NoError(t, s.Job().Create(ctx, &model.Job{PaymentID: paymentID, Title: "Job " + paymentID}))
	}

	limited, err := s.Job().List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	all, err := s.Job().List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	count, err := s.Job().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestJobStoreUpdateCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := &model.Job{PaymentID: "cs_cat", Title: "Engineer", Category: "machine-learning"}
	require.NoError(t, s.Job().Create(ctx, job))

	require.NoError(t, s.Job().UpdateCategory(ctx, job.ID, "infrastructure"))

	updated, err := s.Job().Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "infrastructure", updated.Category)

	err = s.Job().UpdateCategory(ctx, uuid.New(), "research")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCompanyStoreExactNameMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Company().Create(ctx, &model.Company{Name: "Acme"}))

	found, err := s.Company().GetByName(ctx, "Acme")
	require.NoError(t, err)
	require.NotNil(t, found)

	variant, err := s.Company().GetByName(ctx, "Acme Inc")
	require.NoError(t, err)
	assert.Nil(t, variant)
}

func TestJobTypesRoundTrip(t *testing.T) {
	job := &model.Job{}
	job.SetJobTypes([]string{"full-time", "contract"})
	assert.Equal(t, []string{"full-time", "contract"}, job.GetJobTypes())

	empty := &model.Job{}
	assert.Nil(t, empty.GetJobTypes())
}
