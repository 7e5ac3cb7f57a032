package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"plate-server/internal/entity"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const queryTimeout = 5 * time.Second

var ErrUnknownDriver = errors.New("unknown database driver")

type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Store owns the connection pool shared by every repository.
type Store struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	driver  string
	auditor auditor
}

// Open connects to the configured backend and brings its schema up to date.
func Open(ctx context.Context, opts Options) (*Store, error) {
	gormCfg := &gorm.Config{
		Logger: logger.New(log.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var (
		db  *gorm.DB
		err error
	)
	switch opts.Driver {
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(opts.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	case DriverPostgres:
		log.Info("Starting database migration...")
		if err := migrateUp(opts.DSN); err != nil {
			return nil, err
		}
		log.Info("Database migration finished successfully.")

		pool, err := sql.Open("postgres", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db, err = gorm.Open(postgres.New(postgres.Config{Conn: pool}), gormCfg)
		if err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("open gorm postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}

	s, err := newStore(db, opts.Driver)
	if err != nil {
		return nil, err
	}
	s.configurePool(opts)

	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}

	if opts.Driver == DriverSQLite {
		if err := db.WithContext(ctx).AutoMigrate(&entity.User{}, &entity.Tenant{}); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	log.WithField("driver", opts.Driver).Info("Successfully connected to the database.")
	return s, nil
}

// NewStore wraps an already opened gorm handle. The schema is assumed to exist.
func NewStore(db *gorm.DB, driver string) (*Store, error) {
	return newStore(db, driver)
}

func newStore(db *gorm.DB, driver string) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve sql db handle: %w", err)
	}
	return &Store{
		db:      db,
		sqlDB:   sqlDB,
		driver:  driver,
		auditor: auditor{now: time.Now},
	}, nil
}

func (s *Store) configurePool(opts Options) {
	if opts.MaxOpenConns > 0 {
		s.sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		s.sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		s.sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime > 0 {
		s.sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func (s *Store) Driver() string {
	return s.driver
}

// SetClock replaces the time source used for audit columns.
func (s *Store) SetClock(now func() time.Time) {
	s.auditor.now = now
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

type txKey struct{}

// WithinTx runs fn in a single transaction. Repositories called with the
// context passed to fn join it. Nested calls reuse the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}
