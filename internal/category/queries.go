package category

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Category is a physician specialty grouping. Deleted categories are kept
// with a deleted_at timestamp so historical references stay intact.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
	DeletedAt   pgtype.Timestamptz
}

const categoryColumns = `id, name, description, created_at, updated_at, deleted_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	return c, err
}

const create = `
INSERT INTO physician_categories (name, description)
VALUES ($1, $2)
RETURNING ` + categoryColumns

type CreateParams struct {
	Name        string
	Description pgtype.Text
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, create, arg.Name, arg.Description))
}

const getByID = `
SELECT ` + categoryColumns + `
FROM physician_categories
WHERE id = $1 AND deleted_at IS NULL
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, getByID, id))
}

const list = `
SELECT ` + categoryColumns + `
FROM physician_categories
WHERE deleted_at IS NULL
ORDER BY name
`

func (q *Queries) List(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		item, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const update = `
UPDATE physician_categories
SET name = $2, description = $3, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + categoryColumns

type UpdateParams struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, update, arg.ID, arg.Name, arg.Description))
}

const softDelete = `
UPDATE physician_categories
SET deleted_at = now()
WHERE id = $1 AND deleted_at IS NULL
`

func (q *Queries) SoftDelete(ctx context.Context, id uuid.UUID) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, softDelete, id)
}

const existsByName = `
SELECT EXISTS (
	SELECT 1 FROM physician_categories
	WHERE name = $1 AND deleted_at IS NULL AND id != $2
)
`

type ExistsByNameParams struct {
	Name      string
	ExcludeID uuid.UUID
}

func (q *Queries) ExistsByName(ctx context.Context, arg ExistsByNameParams) (bool, error) {
	row := q.db.QueryRow(ctx, existsByName, arg.Name, arg.ExcludeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
