// Package store persists the dev backend's records with GORM on SQLite or
// PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/models"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("record already exists")
	// ErrInvalid is returned when a write would break a record invariant.
	ErrInvalid = errors.New("invalid record")
)

// Store is the GORM-backed persistence of the dev backend.
type Store struct {
	db *gorm.DB
}

// Open connects to driver ("sqlite" or "postgres") at dsn.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if driver != "postgres" {
		// SQLite serialises writers; one connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// New migrates the schema and returns a Store over db.
func New(db *gorm.DB) (*Store, error) {
	err := db.AutoMigrate(
		&models.ProductRecord{},
		&models.ServiceRecord{},
		&models.ServiceInputRecord{},
		&models.ClientRecord{},
		&models.OrderRecord{},
		&models.OrderProductRecord{},
		&models.OrderServiceRecord{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}

func list[T any](ctx context.Context, db *gorm.DB, query ...any) ([]T, error) {
	records := []T{}
	tx := db.WithContext(ctx).Order("id")
	if len(query) > 0 {
		tx = tx.Where(query[0], query[1:]...)
	}
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func find[T any](ctx context.Context, db *gorm.DB, id int64) (*T, error) {
	var record T
	if err := db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func update[T any](ctx context.Context, db *gorm.DB, id int64, fields map[string]any) (*T, error) {
	if _, err := find[T](ctx, db, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, translate(err)
		}
	}
	return find[T](ctx, db, id)
}

func remove[T any](ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
