package commit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/logging/types"
	"aijobs-utils/internal/store"
	"aijobs-utils/internal/store/model"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

// Notifier delivers the post-commit confirmation. Implementations must treat
// delivery as best-effort; the coordinator never lets a delivery failure
// reach the payment flow.
type Notifier interface {
	JobCommitted(ctx context.Context, job *model.Job) error
}

// TaskSubmitter schedules asynchronous post-commit work
type TaskSubmitter interface {
	Submit(name string, fn func(ctx context.Context)) error
}

// Coordinator turns a paid submission into a persisted job exactly once.
// The existence check handles the common redelivery case; the unique index
// on payment_id closes the race two concurrent redeliveries would otherwise
// win together.
type Coordinator struct {
	store    store.Store
	tables   TranslationTables
	notifier Notifier
	tasks    TaskSubmitter
	logger   types.Logger
}

func NewCoordinator(s store.Store, tables TranslationTables, notifier Notifier, tasks TaskSubmitter) *Coordinator {
	return &Coordinator{
		store:    s,
		tables:   tables,
		notifier: notifier,
		tasks:    tasks,
		logger:   logging.GetGlobalLogger(),
	}
}

// Commit persists the payload under the payment id. The returned bool is
// true when an earlier commit already owned the id and its job was returned
// unchanged. A nil payload is accepted for replays: the idempotency check
// runs before the payload is needed, so a payload-less redelivery of a
// committed session still resolves to the original job.
func (c *Coordinator) Commit(ctx context.Context, paymentID string, payload *models.ExtractedJobRecord) (*model.Job, bool, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, false, fmt.Errorf("payment id is required")
	}

	existing, err := c.store.Job().GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, false, fmt.Errorf("idempotency check failed: %w", err)
	}
	if existing != nil {
		c.logger.Info("Commit replay detected, returning existing job", map[string]interface{}{
			"payment_id": paymentID,
			"job_id":     existing.ID.String(),
		})
		return existing, true, nil
	}

	if payload == nil {
		return nil, false, utils.NewPendingNotFoundError(paymentID)
	}

	job := c.tables.translateRecord(payload)
	job.PaymentID = paymentID

	companyID, err := c.resolveCompany(ctx, payload)
	if err != nil {
		return nil, false, err
	}
	job.CompanyID = companyID

	if err := c.store.Job().Create(ctx, job); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent redelivery; its row wins.
			winner, readErr := c.store.Job().GetByPaymentID(ctx, paymentID)
			if readErr != nil {
				return nil, false, fmt.Errorf("failed to read job after duplicate insert: %w", readErr)
			}
			if winner == nil {
				return nil, false, fmt.Errorf("duplicate insert for %s but no row found", paymentID)
			}
			return winner, true, nil
		}
		return nil, false, fmt.Errorf("failed to insert job: %w", err)
	}

	c.logger.Info("Job committed", map[string]interface{}{
		"payment_id": paymentID,
		"job_id":     job.ID.String(),
		"category":   job.Category,
	})

	c.fireSideEffects(job)

	return job, false, nil
}

// resolveCompany reuses an existing company row on an exact name match and
// inserts one otherwise. Returns nil when the payload names no company.
func (c *Coordinator) resolveCompany(ctx context.Context, payload *models.ExtractedJobRecord) (*uuid.UUID, error) {
	name := strings.TrimSpace(payload.CompanyName)
	if name == "" {
		return nil, nil
	}

	company, err := c.store.Company().GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("company lookup failed: %w", err)
	}
	if company == nil {
		company = &model.Company{
			Name:    name,
			Website: strings.TrimSpace(payload.CompanyWebsite),
		}
		if err := c.store.Company().Create(ctx, company); err != nil {
			return nil, fmt.Errorf("company insert failed: %w", err)
		}
	}
	return &company.ID, nil
}

// fireSideEffects schedules the confirmation notification and the downstream
// analysis task. Both run off the commit path under the task manager's own
// context, so neither extends the payment response nor inherits its
// cancellation. Both are fault-isolated; the inserted row is the only
// contract Commit guarantees.
func (c *Coordinator) fireSideEffects(job *model.Job) {
	jobID := job.ID

	if c.notifier != nil {
		c.runAsync("commit-notification", jobID, func(taskCtx context.Context) {
			if err := c.notifier.JobCommitted(taskCtx, job); err != nil {
				c.logger.Error("Commit notification failed", map[string]interface{}{
					"job_id": jobID.String(),
					"error":  err.Error(),
				})
			}
		})
	}

	c.runAsync("job-analysis", jobID, func(taskCtx context.Context) {
		c.analyzeJob(taskCtx, jobID)
	})
}

// runAsync hands fn to the task manager, falling back to an inline call when
// no submitter is configured. Scheduling failures are logged and dropped.
func (c *Coordinator) runAsync(name string, jobID uuid.UUID, fn func(ctx context.Context)) {
	if c.tasks == nil {
		fn(context.Background())
		return
	}
	if err := c.tasks.Submit(name, fn); err != nil {
		c.logger.Error("Failed to schedule post-commit task", map[string]interface{}{
			"task":   name,
			"job_id": jobID.String(),
			"error":  err.Error(),
		})
	}
}

// analyzeJob recomputes the committed job's category with the stored alias
// map so a miscategorized submission gets corrected shortly after commit.
func (c *Coordinator) analyzeJob(ctx context.Context, jobID uuid.UUID) {
	job, err := c.store.Job().Get(ctx, jobID)
	if err != nil {
		c.logger.Error("Job analysis could not load job", map[string]interface{}{
			"job_id": jobID.String(),
			"error":  err.Error(),
		})
		return
	}

	if aliased, ok := models.DefaultCategoryAliases()[job.Category]; ok && aliased != job.Category {
		if err := c.store.Job().UpdateCategory(ctx, job.ID, aliased); err != nil {
			c.logger.Error("Job analysis category fix failed", map[string]interface{}{
				"job_id": jobID.String(),
				"error":  err.Error(),
			})
		}
	}
}
