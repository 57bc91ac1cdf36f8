package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang/glog"
	_ "github.com/lib/pq"                                // Postgres driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/shortlinks/pkg/ports"
)

// Options configures the store's connection pool.
type Options struct {
	DatabaseURL string
	// MaxConns bounds the pool; callers wait for a free connection when it is exhausted.
	MaxConns   int
	Production bool
}

// Store is a database/sql backed link repository. It owns its pool.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects, pings and migrates. An empty DatabaseURL yields a Store
// whose every operation fails with domain.ErrStorageUnavailable.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.DatabaseURL == "" {
		glog.Warning("DATABASE_URL is not set; storage operations will fail")
		return &Store{}, nil
	}

	d := dialectFor(opts.DatabaseURL)
	db, err := sql.Open(d.driver, d.dsn(opts.DatabaseURL, opts.Production))
	if err != nil {
		return nil, err
	}

	if d.singleConn {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else if opts.MaxConns > 0 {
		db.SetMaxOpenConns(opts.MaxConns)
		db.SetMaxIdleConns(opts.MaxConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if d.name == "sqlite" {
		_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;")
		_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL;")
	}

	if err := migrate(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, err
	}

	glog.Infof("store opened (driver=%s)", d.driver)
	return &Store{db: db, dialect: d}, nil
}

func migrate(ctx context.Context, db *sql.DB, d dialect) error {
	_, err := db.ExecContext(ctx, d.schema)
	return err
}

func (s *Store) conn(op string) (*sql.DB, error) {
	if s.db == nil {
		return nil, translate(op, errNoDatabaseURL)
	}
	return s.db, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats reports pool usage. ok is false when no database is configured.
func (s *Store) Stats() (stats sql.DBStats, ok bool) {
	if s.db == nil {
		return sql.DBStats{}, false
	}
	return s.db.Stats(), true
}

// Driver names the database/sql driver in use.
func (s *Store) Driver() string {
	return s.dialect.driver
}

func (s *Store) Insert(ctx context.Context, code, url string, createdAt time.Time) (*domain.Link, error) {
	db, err := s.conn("insert")
	if err != nil {
		return nil, err
	}

	query := s.dialect.rebind(`INSERT INTO links (code, url, clicks, created_at) VALUES (?, ?, 0, ?)`)
	if _, err := db.ExecContext(ctx, query, code, url, createdAt); err != nil {
		return nil, translate("insert", err)
	}

	return &domain.Link{
		Code:      code,
		URL:       url,
		CreatedAt: createdAt,
	}, nil
}

func (s *Store) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	db, err := s.conn("findByCode")
	if err != nil {
		return nil, err
	}

	query := s.dialect.rebind(`SELECT code, url, clicks, last_clicked, created_at FROM links WHERE code = ?`)

	var link domain.Link
	var lastClicked sql.NullTime
	err = db.QueryRowContext(ctx, query, code).Scan(
		&link.Code, &link.URL, &link.Clicks, &lastClicked, &link.CreatedAt,
	)
	if err != nil {
		return nil, translate("findByCode", err)
	}

	link.CreatedAt = link.CreatedAt.UTC()
	link.LastClicked = nullTime(lastClicked)
	return &link, nil
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Link, error) {
	db, err := s.conn("listAll")
	if err != nil {
		return nil, err
	}

	query := `SELECT code, url, clicks, last_clicked, created_at FROM links ORDER BY created_at DESC, code ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, translate("listAll", err)
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		var l domain.Link
		var lastClicked sql.NullTime
		if err := rows.Scan(&l.Code, &l.URL, &l.Clicks, &lastClicked, &l.CreatedAt); err != nil {
			return nil, translate("listAll", err)
		}
		l.CreatedAt = l.CreatedAt.UTC()
		l.LastClicked = nullTime(lastClicked)
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("listAll", err)
	}

	return links, nil
}

func (s *Store) DeleteByCode(ctx context.Context, code string) (string, error) {
	db, err := s.conn("deleteByCode")
	if err != nil {
		return "", err
	}

	query := s.dialect.rebind(`DELETE FROM links WHERE code = ? RETURNING code`)

	var removed string
	if err := db.QueryRowContext(ctx, query, code).Scan(&removed); err != nil {
		return "", translate("deleteByCode", err)
	}
	return removed, nil
}

// IncrementClicks bumps the counter inside the database so concurrent
// redirects of one code never lose an update.
func (s *Store) IncrementClicks(ctx context.Context, code string, at time.Time) (int64, error) {
	db, err := s.conn("incrementClicks")
	if err != nil {
		return 0, err
	}

	query := s.dialect.rebind(`UPDATE links SET clicks = clicks + 1, last_clicked = ? WHERE code = ? RETURNING clicks`)

	var clicks int64
	if err := db.QueryRowContext(ctx, query, at, code).Scan(&clicks); err != nil {
		return 0, translate("incrementClicks", err)
	}
	return clicks, nil
}

// Restore inserts a link with its counters, as written by an export.
// An existing code fails with domain.ErrDuplicateCode.
func (s *Store) Restore(ctx context.Context, link domain.Link) error {
	db, err := s.conn("restore")
	if err != nil {
		return err
	}

	var lastClicked sql.NullTime
	if link.LastClicked != nil {
		lastClicked = sql.NullTime{Time: link.LastClicked.UTC(), Valid: true}
	}

	query := s.dialect.rebind(`INSERT INTO links (code, url, clicks, last_clicked, created_at) VALUES (?, ?, ?, ?, ?)`)
	_, err = db.ExecContext(ctx, query, link.Code, link.URL, link.Clicks, lastClicked, link.CreatedAt.UTC())
	return translate("restore", err)
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// Ensure interface compliance
var _ ports.LinkRepository = (*Store)(nil)
