// Package postgres stores menu documents in PostgreSQL.
//
// Each document is one row: the full wire JSON in a JSONB column, next to
// the columns List filters and sorts on. The schema is applied from
// embedded migrations when the store is opened.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tsawler/menudoc/model"
	"github.com/tsawler/menudoc/store"
)

const table = "menu_documents"

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a store.Store backed by a pgx connection pool
type Store struct {
	pool *pgxpool.Pool
	now  store.Clock
	qb   sq.StatementBuilderType
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the clock used for UpdatedAt
func WithClock(c store.Clock) Option {
	return func(s *Store) { s.now = c }
}

// Open applies pending migrations and connects a pool to dsn
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	if err := Migrate(dsn); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}

	s := &Store{
		pool: pool,
		now:  time.Now,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Migrate brings the schema at dsn up to date. It opens its own
// database/sql connection through the pgx stdlib driver.
func Migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("postgres: sql.Open: %w", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{MigrationsTable: "menudoc_schema_migrations"})
	if err != nil {
		return fmt.Errorf("postgres: migrate driver: %w", err)
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("postgres: migrations source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Load(ctx context.Context, id string) (*model.Document, error) {
	query, args, err := s.qb.Select("body").From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	var body []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("load %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("postgres: load %s: %w", id, err)
	}
	return decode(body)
}

func (s *Store) Save(ctx context.Context, doc *model.Document) (*model.Document, error) {
	out, err := store.Prepare(doc, s.now())
	if err != nil {
		return nil, err
	}
	body, err := out.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("postgres: encoding %s: %w", out.ID, err)
	}

	query, args, err := s.qb.Insert(table).
		Columns("id", "name", "category", "status", "section_count", "body", "updated_at").
		Values(out.ID, out.Name, out.Category, string(out.Status), len(out.Sections), body, out.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			section_count = EXCLUDED.section_count,
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("postgres: save %s: %w", out.ID, err)
	}
	return decode(body)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	query, args, err := s.qb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: delete %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *Store) List(ctx context.Context, status model.Status) ([]store.Summary, error) {
	b := s.qb.Select("id", "name", "category", "status", "section_count", "updated_at").
		From(table).
		OrderBy("updated_at DESC", "id")
	if status != "" {
		b = b.Where(sq.Eq{"status": string(status)})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}
	defer rows.Close()

	out := []store.Summary{}
	for rows.Next() {
		var (
			sum store.Summary
			st  string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Category, &st, &sum.Sections, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: list: %w", err)
		}
		sum.Status = model.Status(st)
		sum.UpdatedAt = sum.UpdatedAt.UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}
	return out, nil
}

// truncate removes every document. Used by tests.
func (s *Store) truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE "+table)
	return err
}

func decode(body []byte) (*model.Document, error) {
	var d model.Document
	if err := d.UnmarshalJSON(body); err != nil {
		return nil, fmt.Errorf("postgres: decoding document: %w", err)
	}
	return &d, nil
}

var _ store.Store = (*Store)(nil)
