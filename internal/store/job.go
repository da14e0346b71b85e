package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aijobs-utils/internal/store/model"
)

type Job interface {
	InitialMigration() error
	Create(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Job, error)
	List(ctx context.Context, limit int) (model.JobList, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, category string) error
	Count(ctx context.Context) (int64, error)
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Job{})
}

func (s *JobStore) Create(ctx context.Context, job *model.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	return s.db.WithContext(ctx).Create(job).Error
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	result := s.db.WithContext(ctx).Preload("Company").First(&job, "id = ?", id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &job, nil
}

// GetByPaymentID returns (nil, nil) when no job references the payment id
func (s *JobStore) GetByPaymentID(ctx context.Context, paymentID string) (*model.Job, error) {
	var job model.Job
	result := s.db.WithContext(ctx).Preload("Company").First(&job, "payment_id = ?", paymentID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &job, nil
}

// List returns jobs in creation order. A limit of zero or below returns every
// row, which the batch classifier uses for "all" runs.
func (s *JobStore) List(ctx context.Context, limit int) (model.JobList, error) {
	var jobs model.JobList
	query := s.db.WithContext(ctx).Order("created_at")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *JobStore) UpdateCategory(ctx context.Context, id uuid.UUID, category string) error {
	result := s.db.WithContext(ctx).Model(&model.Job{}).Where("id = ?", id).Update("category", category)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *JobStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Job{}).Count(&count).Error
	return count, err
}
