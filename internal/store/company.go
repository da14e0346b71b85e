package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aijobs-utils/internal/store/model"
)

type Company interface {
	InitialMigration() error
	Create(ctx context.Context, company *model.Company) error
	GetByName(ctx context.Context, name string) (*model.Company, error)
}

type CompanyStore struct {
	db *gorm.DB
}

// Make sure we conform to Company interface
var _ Company = (*CompanyStore)(nil)

func NewCompanyStore(db *gorm.DB) Company {
	return &CompanyStore{db: db}
}

func (s *CompanyStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Company{})
}

func (s *CompanyStore) Create(ctx context.Context, company *model.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	return s.db.WithContext(ctx).Create(company).Error
}

// GetByName resolves a company by exact name match, returning (nil, nil) on
// no match. Matching is byte-for-byte after the caller's trimming; no case
// folding or punctuation normalization.
func (s *CompanyStore) GetByName(ctx context.Context, name string) (*model.Company, error) {
	var company model.Company
	result := s.db.WithContext(ctx).First(&company, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &company, nil
}
