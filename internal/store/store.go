package store

import (
	"gorm.io/gorm"
)

type Store interface {
	Job() Job
	Company() Company
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db      *gorm.DB
	job     Job
	company Company
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:      db,
		job:     NewJobStore(db),
		company: NewCompanyStore(db),
	}
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Company() Company {
	return s.company
}

func (s *DataStore) InitialMigration() error {
	if err := s.company.InitialMigration(); err != nil {
		return err
	}
	return s.job.InitialMigration()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
