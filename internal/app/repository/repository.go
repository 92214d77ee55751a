package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"clinic-backend/internal/app/ds"
	"clinic-backend/internal/app/tariff"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Department{},
		&ds.MedicalService{},
		&ds.FactorSetting{},
		&ds.ServiceComponent{},
		&ds.SharedService{},
		&ds.ServiceTemplate{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// InTx выполняет fn в одной транзакции БД; методы репозитория, вызванные
// через полученный Store, работают в её рамках
func (r *Repository) InTx(fn func(tariff.Store) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}
