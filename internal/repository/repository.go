package repository

import (
	"context"
	"fmt"
	"net/url"

	"neftit_waitlist/pkg/logger"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db     *sqlx.DB
	driver string
	sb     squirrel.StatementBuilderType
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Driver() string {
	return r.driver
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

type Config struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	// Path is the database file used by the sqlite driver.
	Path    string `mapstructure:"path"`
	Migrate bool   `mapstructure:"migrate"`
}

func placeholderFor(driver string) squirrel.PlaceholderFormat {
	if driver == DriverSQLite {
		return squirrel.Question
	}
	return squirrel.Dollar
}

func New(ctx context.Context, cfg Config) (*Repository, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPgx
	}

	dsn, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger().Info("Connected to database successfully", zap.String("driver", driver))

	r := &Repository{
		db:     db,
		driver: driver,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(placeholderFor(driver)),
	}

	if cfg.Migrate {
		if err := r.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	return r, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return "", errors.New("sqlite driver requires database.path")
		}
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", c.Path), nil
	case "", DriverPgx, DriverPostgres:
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
			Path:     c.Name,
			RawQuery: "sslmode=" + sslMode,
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}
