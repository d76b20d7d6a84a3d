package questionnaire

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

type Questionnaire struct {
	ID          uuid.UUID
	Title       string
	Description pgtype.Text
	UserRole    string
	IsActive    bool
	OrderIndex  int32
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

const questionnaireColumns = `id, title, description, user_role, is_active, order_index, created_at, updated_at`

func scanQuestionnaire(row pgx.Row) (Questionnaire, error) {
	var qn Questionnaire
	err := row.Scan(
		&qn.ID, &qn.Title, &qn.Description, &qn.UserRole, &qn.IsActive,
		&qn.OrderIndex, &qn.CreatedAt, &qn.UpdatedAt,
	)
	return qn, err
}

const create = `
INSERT INTO questionnaires (title, description, user_role, is_active, order_index)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + questionnaireColumns

type CreateParams struct {
	Title       string
	Description pgtype.Text
	UserRole    string
	IsActive    bool
	OrderIndex  int32
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Questionnaire, error) {
	row := q.db.QueryRow(ctx, create, arg.Title, arg.Description, arg.UserRole, arg.IsActive, arg.OrderIndex)
	return scanQuestionnaire(row)
}

const getByID = `
SELECT ` + questionnaireColumns + `
FROM questionnaires
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Questionnaire, error) {
	return scanQuestionnaire(q.db.QueryRow(ctx, getByID, id))
}

const getLatest = `
SELECT ` + questionnaireColumns + `
FROM questionnaires
WHERE is_active = TRUE AND user_role = $1
ORDER BY created_at DESC
LIMIT 1
`

func (q *Queries) GetLatest(ctx context.Context, userRole string) (Questionnaire, error) {
	return scanQuestionnaire(q.db.QueryRow(ctx, getLatest, userRole))
}

const list = `
SELECT ` + questionnaireColumns + `
FROM questionnaires
ORDER BY order_index, created_at
`

func (q *Queries) List(ctx context.Context) ([]Questionnaire, error) {
	rows, err := q.db.Query(ctx, list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Questionnaire
	for rows.Next() {
		qn, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, qn)
	}
	return items, rows.Err()
}

const update = `
UPDATE questionnaires
SET title = $2, description = $3, user_role = $4, is_active = $5, order_index = $6, updated_at = now()
WHERE id = $1
RETURNING ` + questionnaireColumns

type UpdateParams struct {
	ID          uuid.UUID
	Title       string
	Description pgtype.Text
	UserRole    string
	IsActive    bool
	OrderIndex  int32
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Questionnaire, error) {
	row := q.db.QueryRow(ctx, update, arg.ID, arg.Title, arg.Description, arg.UserRole, arg.IsActive, arg.OrderIndex)
	return scanQuestionnaire(row)
}

const deleteByID = `
DELETE FROM questionnaires
WHERE id = $1
`

func (q *Queries) Delete(ctx context.Context, id uuid.UUID) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, deleteByID, id)
}

const exists = `
SELECT EXISTS (SELECT 1 FROM questionnaires WHERE id = $1)
`

func (q *Queries) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, exists, id)
	var ok bool
	err := row.Scan(&ok)
	return ok, err
}
