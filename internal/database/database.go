package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/OCAP2/hazardtrack/internal/dispatcher"
	"github.com/OCAP2/hazardtrack/internal/model"
	"github.com/OCAP2/hazardtrack/internal/model/convert"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Supported database kinds.
const (
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// ErrSessionNotFound is returned when loading a session that was never recorded.
var ErrSessionNotFound = errors.New("session not found")

// Manager handles database connections and operations.
type Manager struct {
	DB      *gorm.DB
	SqlDB   *sql.DB
	IsValid bool
	Logger  zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		IsValid: false,
		Logger:  log,
	}
}

// Open connects to a sqlite file (or memory when dsn is empty) or a postgres DSN.
func (m *Manager) Open(kind, dsn string) error {
	var err error

	switch kind {
	case KindSQLite:
		m.DB, err = m.GetSqliteDB(dsn)
	case KindPostgres:
		m.DB, err = m.GetPostgresDB(dsn)
	default:
		return fmt.Errorf("unknown database kind %q", kind)
	}
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("opening %s database: %w", kind, err)
	}

	// test connection
	m.SqlDB, err = m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = m.SqlDB.Ping(); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to validate connection: %w", err)
	}

	if kind == KindPostgres {
		m.SqlDB.SetMaxOpenConns(10)
	}

	m.IsValid = true
	m.Logger.Info().Str("kind", kind).Msg("Connected to database")
	return nil
}

// GetPostgresDB returns a connection to the Postgres database.
func (m *Manager) GetPostgresDB(dsn string) (*gorm.DB, error) {
	m.Logger.Debug().Msg("Connecting to Postgres DB")

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        10000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// GetSqliteDB returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func (m *Manager) GetSqliteDB(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if path == "" {
		// every pooled connection would otherwise get its own empty memory database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		m.Logger.Info().Msg("Using local SQLite DB in memory")
	} else {
		m.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA cache_size = -32000;",
		"PRAGMA temp_store = MEMORY;",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// Migrate creates or updates the recorded-session tables.
func (m *Manager) Migrate() error {
	m.Logger.Info().Msg("Migrating schema")
	if err := m.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	m.IsValid = false
	return m.SqlDB.Close()
}

// EnsureSession returns the named session, creating it with the given epoch if missing.
func (m *Manager) EnsureSession(ctx context.Context, name string, epoch time.Time) (model.Session, error) {
	session := model.Session{Name: name, Epoch: epoch}
	err := m.DB.WithContext(ctx).
		Where(model.Session{Name: name}).
		FirstOrCreate(&session).Error
	if err != nil {
		return model.Session{}, fmt.Errorf("ensuring session %s: %w", name, err)
	}
	return session, nil
}

// Append stores events at the end of the session's command stream.
func (m *Manager) Append(ctx context.Context, session model.Session, events ...dispatcher.Event) error {
	if len(events) == 0 {
		return nil
	}

	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last sql.NullInt64
		err := tx.Model(&model.RecordedCommand{}).
			Where("session_id = ?", session.ID).
			Select("MAX(seq)").
			Scan(&last).Error
		if err != nil {
			return fmt.Errorf("reading last sequence: %w", err)
		}

		next := uint(1)
		if last.Valid {
			next = uint(last.Int64) + 1
		}

		rows := make([]model.RecordedCommand, 0, len(events))
		for i, e := range events {
			r, err := convert.EventToRecord(session.ID, next+uint(i), e)
			if err != nil {
				return err
			}
			rows = append(rows, r)
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return fmt.Errorf("inserting commands: %w", err)
		}
		return nil
	})
}

// Load returns the session and its commands in recorded order.
func (m *Manager) Load(ctx context.Context, name string) (model.Session, []dispatcher.Event, error) {
	var session model.Session
	err := m.DB.WithContext(ctx).Where("name = ?", name).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Session{}, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}
	if err != nil {
		return model.Session{}, nil, fmt.Errorf("loading session %s: %w", name, err)
	}

	var rows []model.RecordedCommand
	err = m.DB.WithContext(ctx).
		Where("session_id = ?", session.ID).
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return model.Session{}, nil, fmt.Errorf("loading commands of %s: %w", name, err)
	}

	events := make([]dispatcher.Event, 0, len(rows))
	for _, r := range rows {
		e, err := convert.RecordToEvent(r)
		if err != nil {
			return model.Session{}, nil, err
		}
		events = append(events, e)
	}
	return session, events, nil
}
