package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Render is one recorded render run.
type Render struct {
	// ID is the run ID assigned by the resolver.
	ID string `json:"id"`

	// TemplatePath is the template the render was driven by.
	TemplatePath string `json:"template_path"`

	// OutputPath is where the environment file was written.
	OutputPath string `json:"output_path"`

	// KeyCount is the number of resolved keys.
	KeyCount int `json:"key_count"`

	// Checksum is the hex SHA-256 of the emitted content.
	Checksum string `json:"checksum"`

	// RenderedAt is when the render completed.
	RenderedAt time.Time `json:"rendered_at"`
}

// Checksum returns the hex SHA-256 of emitted content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Store is the SQLite-backed render history.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the history database at path and
// brings the schema up to date.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history database path is required")
	}

	// modernc's driver takes pragmas as _pragma=name(value) pairs;
	// mattn-style _journal_mode params are silently ignored.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// migrate runs the embedded schema migrations.
func (s *Store) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Record inserts one render row.
func (s *Store) Record(ctx context.Context, r *Render) error {
	query := `
		INSERT INTO renders (id, template_path, output_path, key_count, checksum, rendered_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.TemplatePath,
		r.OutputPath,
		r.KeyCount,
		r.Checksum,
		r.RenderedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record render: %w", err)
	}

	return nil
}

// List returns the most recent renders, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*Render, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, template_path, output_path, key_count, checksum, rendered_at
		FROM renders
		ORDER BY rendered_at DESC, id
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list renders: %w", err)
	}
	defer rows.Close()

	var renders []*Render
	for rows.Next() {
		var r Render
		if err := rows.Scan(&r.ID, &r.TemplatePath, &r.OutputPath, &r.KeyCount, &r.Checksum, &r.RenderedAt); err != nil {
			return nil, fmt.Errorf("failed to scan render: %w", err)
		}
		renders = append(renders, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate renders: %w", err)
	}

	return renders, nil
}

// Last returns the most recent render for an output path, or nil when
// the path has never been rendered.
func (s *Store) Last(ctx context.Context, outputPath string) (*Render, error) {
	query := `
		SELECT id, template_path, output_path, key_count, checksum, rendered_at
		FROM renders
		WHERE output_path = ?
		ORDER BY rendered_at DESC, id
		LIMIT 1
	`

	var r Render
	err := s.db.QueryRowContext(ctx, query, outputPath).
		Scan(&r.ID, &r.TemplatePath, &r.OutputPath, &r.KeyCount, &r.Checksum, &r.RenderedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last render: %w", err)
	}

	return &r, nil
}
