package commit

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/store"
	"aijobs-utils/internal/store/model"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Name = ":memory:"

	db, err := store.InitDB(cfg)
	require.NoError(t, err)
	s := store.NewStore(db)
	require.NoError(t, s.InitialMigration())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type recordingNotifier struct {
	committed []*model.Job
	err       error
}

func (n *recordingNotifier) JobCommitted(_ context.Context, job *model.Job) error {
	n.committed = append(n.committed, job)
	return n.err
}

// inlineTasks runs submitted work synchronously so tests can observe it
type inlineTasks struct{}

func (inlineTasks) Submit(_ string, fn func(ctx context.Context)) error {
	fn(context.Background())
	return nil
}

func payload(title, company string) *models.ExtractedJobRecord {
	amount := 95000.0
	period := models.PayPeriodYear
	payType := models.PayTypeExact
	return &models.ExtractedJobRecord{
		JobTitle:          title,
		CompanyName:       company,
		Category:          "machine-learning",
		JobTypes:          []models.JobType{models.JobTypeFullTime},
		PayType:           &payType,
		PayAmount:         &amount,
		PayPeriod:         &period,
		ApplicationMethod: models.ApplicationMethodLink,
	}
}

func TestCommitIdempotent(t *testing.T) {
	s := newTestStore(t)
	coordinator := NewCoordinator(s, DefaultTranslationTables(), nil, nil)
	ctx := context.Background()

	first, duplicate, err := coordinator.Commit(ctx, "cs_123", payload("ML Engineer", "Acme"))
	require.NoError(t, err)
	assert.False(t, duplicate)

	second, duplicate, err := coordinator.Commit(ctx, "cs_123", payload("ML Engineer", "Acme"))
	require.NoError(t, err)
	assert.True(t, duplicate)
	assert.Equal(t, first.ID, second.ID)

	count, err := s.Job().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCommitCompanyDedup(t *testing.T) {
	s := newTestStore(t)
	coordinator := NewCoordinator(s, DefaultTranslationTables(), nil, nil)
	ctx := context.Background()

	first, _, err := coordinator.Commit(ctx, "cs_1", payload("ML Engineer", "Acme"))
	require.NoError(t, err)
	second, _, err := coordinator.Commit(ctx, "cs_2", payload("Data Engineer", "Acme"))
	require.NoError(t, err)

	require.NotNil(t, first.CompanyID)
	require.NotNil(t, second.CompanyID)
	assert.Equal(t, *first.CompanyID, *second.CompanyID)

	third, _, err := coordinator.Commit(ctx, "cs_3", payload("Engineer", "Acme Inc"))
	require.NoError(t, err)
	require.NotNil(t, third.CompanyID)
	assert.NotEqual(t, *first.CompanyID, *third.CompanyID)
}

func TestCommitWithoutCompany(t *testing.T) {
	s := newTestStore(t)
	coordinator := NewCoordinator(s, DefaultTranslationTables(), nil, nil)

	job, _, err := coordinator.Commit(context.Background(), "cs_nc", payload("Engineer", ""))
	require.NoError(t, err)
	assert.Nil(t, job.CompanyID)
}

func TestCommitAnnualizesHourlyPay(t *testing.T) {
	s := newTestStore(t)
	coordinator := NewCoordinator(s, DefaultTranslationTables(), nil, nil)

	p := payload("Engineer", "Acme")
	amount := 50.0
	period := models.PayPeriodHour
	p.PayAmount = &amount
	p.PayPeriod = &period

	job, _, err := coordinator.Commit(context.Background(), "cs_hourly", p)
	require.NoError(t, err)

	assert.Equal(t, 104000.0, job.SalaryMinAnnual)
	assert.Equal(t, 104000.0, job.SalaryMaxAnnual)
}

func TestCommitTranslatesFormValues(t *testing.T) {
	s := newTestStore(t)
	coordinator := NewCoordinator(s, DefaultTranslationTables(), nil, nil)

	p := payload("Engineer", "Acme")
	p.LocationType = models.LocationType("fully-remote")
	p.JobTypes = []models.JobType{models.JobType("fixed-term")}

	job, _, err := coordinator.Commit(context.Background(), "cs_form", p)
	require.NoError(t, err)

	assert.Equal(t, string(models.LocationTypeRemote), job.LocationType)
	assert.Equal(t, []string{string(models.JobTypeContract)}, job.GetJobTypes())
}

func TestCommitNotifierFailureIsSwallowed(t *testing.T) {
	s := newTestStore(t)
	notifier := &recordingNotifier{err: errors.New("endpoint unreachable")}
	coordinator := NewCoordinator(s, DefaultTranslationTables(), notifier, inlineTasks{})

	job, duplicate, err := coordinator.Commit(context.Background(), "cs_notify", payload("Engineer", "Acme"))
	require.NoError(t, err)
	assert.False(t, duplicate)
	require.Len(t, notifier.committed, 1)
	assert.Equal(t, job.ID, notifier.committed[0].ID)
}

// queueTasks records submissions without running them, so tests can tell
// work scheduled off-path from work done on the commit path.
type queueTasks struct {
	names []string
	fns   []func(ctx context.Context)
}

func (q *queueTasks) Submit(name string, fn func(ctx context.Context)) error {
	q.names = append(q.names, name)
	q.fns = append(q.fns, fn)
	return nil
}

func (q *queueTasks) drain() {
	for _, fn := range q.fns {
		fn(context.Background())
	}
	q.fns = nil
}

func TestCommitNilPayloadReplayShortCircuits(t *testing.T) {
	s := newTestStore(t)
	coordinator := NewCoordinator(s, DefaultTranslationTables(), nil, nil)
	ctx := context.Background()

	first, duplicate, err := coordinator.Commit(ctx, "cs_redeliver", payload("Engineer", "Acme"))
	require.NoError(t, err)
	assert.False(t, duplicate)

	// Redelivery after the pending entry is gone carries no payload
	second, duplicate, err := coordinator.Commit(ctx, "cs_redeliver", nil)
	require.NoError(t, err)
	assert.True(t, duplicate)
	assert.Equal(t, first.ID, second.ID)
}

func TestCommitNilPayloadUnknownSessionFails(t *testing.T) {
	s := newTestStore(t)
	coordinator := NewCoordinator(s, DefaultTranslationTables(), nil, nil)

	_, _, err := coordinator.Commit(context.Background(), "cs_unknown", nil)
	require.Error(t, err)

	var customErr *utils.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, http.StatusNotFound, customErr.Code)
}

func TestCommitSideEffectsRunOffPath(t *testing.T) {
	s := newTestStore(t)
	notifier := &recordingNotifier{}
	tasks := &queueTasks{}
	coordinator := NewCoordinator(s, DefaultTranslationTables(), notifier, tasks)

	job, _, err := coordinator.Commit(context.Background(), "cs_async", payload("Engineer", "Acme"))
	require.NoError(t, err)

	// Nothing delivered yet: Commit only scheduled the work
	assert.Empty(t, notifier.committed)
	assert.Equal(t, []string{"commit-notification", "job-analysis"}, tasks.names)

	tasks.drain()
	require.Len(t, notifier.committed, 1)
	assert.Equal(t, job.ID, notifier.committed[0].ID)
}

func TestCommitReplaySkipsSideEffects(t *testing.T) {
	s := newTestStore(t)
	notifier := &recordingNotifier{}
	coordinator := NewCoordinator(s, DefaultTranslationTables(), notifier, nil)
	ctx := context.Background()

	_, _, err := coordinator.Commit(ctx, "cs_replay", payload("Engineer", "Acme"))
	require.NoError(t, err)
	_, _, err = coordinator.Commit(ctx, "cs_replay", payload("Engineer", "Acme"))
	require.NoError(t, err)

	assert.Len(t, notifier.committed, 1)
}

func TestAnnualizeRangeVariants(t *testing.T) {
	tables := DefaultTranslationTables()

	min := 10.0
	max := 20.0
	period := models.PayPeriodHour

	p := &models.ExtractedJobRecord{PayRangeMin: &min, PayRangeMax: &max, PayPeriod: &period}
	lo, hi := tables.annualize(p)
	assert.Equal(t, 20800.0, lo)
	assert.Equal(t, 41600.0, hi)

	oneSided := &models.ExtractedJobRecord{PayRangeMin: &min, PayPeriod: &period}
	lo, hi = tables.annualize(oneSided)
	assert.Equal(t, 20800.0, lo)
	assert.Equal(t, lo, hi)

	empty := &models.ExtractedJobRecord{}
	lo, hi = tables.annualize(empty)
	assert.Equal(t, float64(models.FallbackSalaryMin), lo)
	assert.Equal(t, float64(models.FallbackSalaryMax), hi)
}

func TestTranslatePayPeriodAliases(t *testing.T) {
	tables := DefaultTranslationTables()

	hourly := models.PayPeriod("hourly")
	assert.Equal(t, models.PayPeriodHour, tables.payPeriod(&hourly))

	annual := models.PayPeriod("annually")
	assert.Equal(t, models.PayPeriodYear, tables.payPeriod(&annual))

	assert.Equal(t, models.DefaultPayPeriod, tables.payPeriod(nil))
}
