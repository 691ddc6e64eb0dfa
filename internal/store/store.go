package store

import (
	"context"
	"errors"

	"recomm/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrRecordNotFound = errors.New("store: record not found")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// Open connects to postgres when databaseURL is set, otherwise to the sqlite
// file at dbPath.
func Open(databaseURL, dbPath string) (*Store, error) {
	var dial gorm.Dialector
	if databaseURL != "" {
		dial = postgres.Open(databaseURL)
	} else {
		dial = sqlite.Open(dbPath)
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

func (s *Store) AutoMigrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(
		&domain.User{},
		&domain.Friendship{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.Message{},
		&domain.PendingNotification{},
	)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}
