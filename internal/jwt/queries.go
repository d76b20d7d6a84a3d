package jwt

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

type RefreshToken struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	IsActive       bool
	ExpirationDate pgtype.Timestamptz
	CreatedAt      pgtype.Timestamptz
}

const create = `
INSERT INTO refresh_tokens (user_id, expiration_date)
VALUES ($1, $2)
RETURNING id, user_id, is_active, expiration_date, created_at
`

type CreateParams struct {
	UserID         uuid.UUID
	ExpirationDate pgtype.Timestamptz
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (RefreshToken, error) {
	row := q.db.QueryRow(ctx, create, arg.UserID, arg.ExpirationDate)
	var t RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.IsActive, &t.ExpirationDate, &t.CreatedAt)
	return t, err
}

const getByID = `
SELECT id, user_id, is_active, expiration_date, created_at
FROM refresh_tokens
WHERE id = $1
`

func (q *Queries) GetRefreshTokenByID(ctx context.Context, id uuid.UUID) (RefreshToken, error) {
	row := q.db.QueryRow(ctx, getByID, id)
	var t RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.IsActive, &t.ExpirationDate, &t.CreatedAt)
	return t, err
}

const inactivate = `
UPDATE refresh_tokens
SET is_active = false
WHERE id = $1
`

func (q *Queries) Inactivate(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, inactivate, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteExpired = `
DELETE FROM refresh_tokens
WHERE expiration_date < now()
`

func (q *Queries) Delete(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteExpired)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
