package question

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

type QuestionType string

const (
	TypeText           QuestionType = "text"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeRating         QuestionType = "rating"
	TypeCheckbox       QuestionType = "checkbox"
)

type Question struct {
	ID                   uuid.UUID
	QuestionnaireID      uuid.UUID
	Title                string
	Description          pgtype.Text
	UserType             string
	Type                 QuestionType
	Required             bool
	Metadata             []byte
	OrderIndex           int32
	DependsOnQuestionID  pgtype.UUID
	DependsOnAnswerValue pgtype.Text
	CreatedAt            pgtype.Timestamptz
	UpdatedAt            pgtype.Timestamptz
}

const questionColumns = `id, questionnaire_id, title, description, user_type, type, required, metadata, order_index, depends_on_question_id, depends_on_answer_value, created_at, updated_at`

func scanQuestion(row pgx.Row) (Question, error) {
	var q Question
	err := row.Scan(
		&q.ID, &q.QuestionnaireID, &q.Title, &q.Description, &q.UserType, &q.Type,
		&q.Required, &q.Metadata, &q.OrderIndex, &q.DependsOnQuestionID,
		&q.DependsOnAnswerValue, &q.CreatedAt, &q.UpdatedAt,
	)
	return q, err
}

const create = `
INSERT INTO questions (questionnaire_id, title, description, user_type, type, required, metadata, order_index, depends_on_question_id, depends_on_answer_value)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + questionColumns

type CreateParams struct {
	QuestionnaireID      uuid.UUID
	Title                string
	Description          pgtype.Text
	UserType             string
	Type                 QuestionType
	Required             bool
	Metadata             []byte
	OrderIndex           int32
	DependsOnQuestionID  pgtype.UUID
	DependsOnAnswerValue pgtype.Text
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Question, error) {
	row := q.db.QueryRow(ctx, create,
		arg.QuestionnaireID, arg.Title, arg.Description, arg.UserType, arg.Type,
		arg.Required, arg.Metadata, arg.OrderIndex, arg.DependsOnQuestionID, arg.DependsOnAnswerValue,
	)
	return scanQuestion(row)
}

const update = `
UPDATE questions
SET title = $2,
    description = $3,
    user_type = $4,
    required = $5,
    metadata = $6,
    order_index = $7,
    depends_on_question_id = $8,
    depends_on_answer_value = $9,
    updated_at = now()
WHERE id = $1
RETURNING ` + questionColumns

type UpdateParams struct {
	ID                   uuid.UUID
	Title                string
	Description          pgtype.Text
	UserType             string
	Required             bool
	Metadata             []byte
	OrderIndex           int32
	DependsOnQuestionID  pgtype.UUID
	DependsOnAnswerValue pgtype.Text
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Question, error) {
	row := q.db.QueryRow(ctx, update,
		arg.ID, arg.Title, arg.Description, arg.UserType, arg.Required,
		arg.Metadata, arg.OrderIndex, arg.DependsOnQuestionID, arg.DependsOnAnswerValue,
	)
	return scanQuestion(row)
}

const deleteByID = `
DELETE FROM questions
WHERE id = $1
`

func (q *Queries) Delete(ctx context.Context, id uuid.UUID) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, deleteByID, id)
}

const getByID = `
SELECT ` + questionColumns + `
FROM questions
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Question, error) {
	return scanQuestion(q.db.QueryRow(ctx, getByID, id))
}

const listByQuestionnaireID = `
SELECT ` + questionColumns + `
FROM questions
WHERE questionnaire_id = $1
ORDER BY order_index, created_at
`

func (q *Queries) ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]Question, error) {
	rows, err := q.db.Query(ctx, listByQuestionnaireID, questionnaireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		item, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
