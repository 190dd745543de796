package template

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careprint/careprint/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the PostgreSQL template repository. Queries run on
// the tenant-scoped connection carried in the context when present,
// falling back to the shared pool.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const templateCols = `id, code, name, version, active, layout, created_at, updated_at, deleted_at`

func (r *repoPG) scanTemplate(row pgx.Row) (*Template, error) {
	var t Template
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Version, &t.Active, &t.Layout,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &t, err
}

func (r *repoPG) Create(ctx context.Context, t *Template) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO document_template (id, code, name, version, active, layout)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Code, t.Name, t.Version, t.Active, t.Layout)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrCodeTaken
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	return r.scanTemplate(r.conn(ctx).QueryRow(ctx,
		`SELECT `+templateCols+` FROM document_template WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Template, error) {
	return r.scanTemplate(r.conn(ctx).QueryRow(ctx,
		`SELECT `+templateCols+` FROM document_template WHERE code = $1 AND deleted_at IS NULL`, code))
}

// Update replaces the mutable fields in one statement; last write wins.
func (r *repoPG) Update(ctx context.Context, t *Template) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE document_template
		SET name=$2, version=$3, active=$4, layout=$5, updated_at=NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		t.ID, t.Name, t.Version, t.Active, t.Layout)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE document_template SET deleted_at=NOW(), active=false
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Template, int, error) {
	filter := `deleted_at IS NULL`
	if activeOnly {
		filter += ` AND active`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM document_template WHERE `+filter).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+templateCols+` FROM document_template WHERE `+filter+
			` ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Template
	for rows.Next() {
		t, err := r.scanTemplate(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}
