package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/JBE10/lifeops/config"
	"github.com/JBE10/lifeops/models"
)

// Store owns the database handle. It is opened once at start-up, shared by
// all requests and closed at shutdown.
type Store struct {
	db *gorm.DB
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects using cfg, retrying while the database comes up.
func Open(cfg config.DBConfig, log *zap.Logger) (*Store, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}

	for i := 0; i < retries; i++ {
		var gdb *gorm.DB
		gdb, err = gorm.Open(dialector, &gorm.Config{
			Logger: gormLogger,
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
			TranslateError: true,
		})
		if err == nil {
			err = configurePool(gdb, cfg.Driver)
		}
		if err == nil {
			log.Info("database_connected", zap.String("driver", cfg.Driver))
			return New(gdb), nil
		}

		log.Warn("database_connect_retry",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", retries),
			zap.Error(err),
		)
		if i < retries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", retries, err)
}

// OpenSQLite opens a file-backed SQLite store with the cgo-free driver.
func OpenSQLite(path string) (*Store, error) {
	gdb, err := gorm.Open(sqliteDialector(path), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}
	return New(gdb), nil
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		return sqliteDialector(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func sqliteDialector(path string) gorm.Dialector {
	return gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite",
		DSN:        path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
	})
}

func configurePool(gdb *gorm.DB, driver string) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		return err
	}
	if driver == "postgres" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return nil
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(models.All()...)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ForOwner returns the only handle through which owned records are read or
// written; every query it issues is filtered by ownerID.
func (s *Store) ForOwner(ownerID string) *OwnerScope {
	return &OwnerScope{db: s.db, ownerID: ownerID}
}

type OwnerScope struct {
	db      *gorm.DB
	ownerID string
}

func (o *OwnerScope) OwnerID() string {
	return o.ownerID
}

// Transaction runs fn against a scope bound to a single database transaction.
func (o *OwnerScope) Transaction(ctx context.Context, fn func(tx *OwnerScope) error) error {
	return o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OwnerScope{db: tx, ownerID: o.ownerID})
	})
}

func (o *OwnerScope) query(ctx context.Context) *gorm.DB {
	return o.db.WithContext(ctx).Where("owner_id = ?", o.ownerID)
}
