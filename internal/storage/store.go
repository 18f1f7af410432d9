package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akeren/college-forms/internal/log"
	"gorm.io/gorm"
)

// State is the lifecycle state of a Store's connection pool.
type State int32

const (
	// Disconnected is the initial state and the state after Close.
	Disconnected State = iota
	// Connecting is held while the first connection is being established.
	Connecting
	// Connected allows queries.
	Connected
	// Failed is terminal for the attempt; the store is never reconnected.
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

var (
	ErrNotConnected     = errors.New("storage: not connected")
	ErrAlreadyConnected = errors.New("storage: connect called more than once")
)

type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Store owns the process-wide connection pool. It is safe for concurrent use;
// the pool itself is shared by every request.
type Store struct {
	mu      sync.RWMutex
	state   State
	db      *gorm.DB
	lastErr error
	logger  *log.Logger
}

func New(logger *log.Logger) *Store {
	return &Store{state: Disconnected, logger: logger}
}

// Connect opens the pool and pings it once. A failure moves the store to
// Failed, where it stays; callers decide whether that is fatal.
func (s *Store) Connect(dialector gorm.Dialector, pool PoolConfig) error {
	s.mu.Lock()
	if s.state != Disconnected {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w (state=%s)", ErrAlreadyConnected, state)
	}
	s.state = Connecting
	s.mu.Unlock()

	db, err := s.open(dialector, pool)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = Failed
		s.lastErr = err
		s.logger.Error("Database connection failed", "driver", dialector.Name(), "error", err)
		return err
	}

	s.db = db
	s.state = Connected
	s.logger.Info("Database connection established successfully", "driver", dialector.Name())
	return nil
}

func (s *Store) open(dialector gorm.Dialector, pool PoolConfig) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return gdb, nil
}

// Conn returns a context-bound session, or ErrNotConnected (wrapping the
// connect failure, if any) when the store cannot serve queries.
func (s *Store) Conn(ctx context.Context) (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != Connected {
		if s.lastErr != nil {
			return nil, fmt.Errorf("%w (state=%s): %w", ErrNotConnected, s.state, s.lastErr)
		}
		return nil, fmt.Errorf("%w (state=%s)", ErrNotConnected, s.state)
	}

	return s.db.WithContext(ctx), nil
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SQLDB exposes the underlying pool for tools that need database/sql,
// such as the migration runner.
func (s *Store) SQLDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != Connected {
		return nil, fmt.Errorf("%w (state=%s)", ErrNotConnected, s.state)
	}
	return s.db.DB()
}

func (s *Store) AutoMigrate(models ...any) error {
	db, err := s.Conn(context.Background())
	if err != nil {
		s.logger.Error("Cannot migrate: database is not connected", "error", err)
		return fmt.Errorf("cannot migrate: %w", err)
	}

	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	s.logger.Info("Database migration completed successfully")
	return nil
}

// Close releases the pool. Closing a store that never connected is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Connected {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		s.logger.Error("Failed to get SQL DB instance", "error", err)
		return err
	}

	s.state = Disconnected
	s.db = nil

	if err := sqlDB.Close(); err != nil {
		s.logger.Error("Failed to close database", "error", err)
		return err
	}

	s.logger.Info("Database closed successfully")
	return nil
}
