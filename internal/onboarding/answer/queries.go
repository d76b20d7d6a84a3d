package answer

import (
	"context"

	"CareSync/healthcare-backend/internal/onboarding/question"

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

type Answer struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	QuestionID uuid.UUID
	Value      string
	CreatedAt  pgtype.Timestamptz
}

const create = `
INSERT INTO answers (user_id, question_id, value)
VALUES ($1, $2, $3)
RETURNING id, user_id, question_id, value, created_at
`

type CreateParams struct {
	UserID     uuid.UUID
	QuestionID uuid.UUID
	Value      string
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Answer, error) {
	row := q.db.QueryRow(ctx, create, arg.UserID, arg.QuestionID, arg.Value)
	var a Answer
	err := row.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.Value, &a.CreatedAt)
	return a, err
}

const deleteByUserAndQuestionIDs = `
DELETE FROM answers
WHERE user_id = $1 AND question_id = ANY($2)
`

type DeleteByUserAndQuestionIDsParams struct {
	UserID      uuid.UUID
	QuestionIDs []uuid.UUID
}

func (q *Queries) DeleteByUserAndQuestionIDs(ctx context.Context, arg DeleteByUserAndQuestionIDsParams) error {
	_, err := q.db.Exec(ctx, deleteByUserAndQuestionIDs, arg.UserID, arg.QuestionIDs)
	return err
}

const listByUserAndQuestionnaireID = `
SELECT a.id, a.user_id, a.question_id, a.value, a.created_at,
       q.title, q.type, q.order_index
FROM answers a
JOIN questions q ON q.id = a.question_id
WHERE a.user_id = $1 AND q.questionnaire_id = $2
ORDER BY q.order_index, q.created_at
`

type ListByUserAndQuestionnaireIDParams struct {
	UserID          uuid.UUID
	QuestionnaireID uuid.UUID
}

type ListByUserAndQuestionnaireIDRow struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	QuestionID    uuid.UUID
	Value         string
	CreatedAt     pgtype.Timestamptz
	QuestionTitle string
	QuestionType  question.QuestionType
	OrderIndex    int32
}

func (q *Queries) ListByUserAndQuestionnaireID(ctx context.Context, arg ListByUserAndQuestionnaireIDParams) ([]ListByUserAndQuestionnaireIDRow, error) {
	rows, err := q.db.Query(ctx, listByUserAndQuestionnaireID, arg.UserID, arg.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListByUserAndQuestionnaireIDRow
	for rows.Next() {
		var item ListByUserAndQuestionnaireIDRow
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.QuestionID, &item.Value, &item.CreatedAt,
			&item.QuestionTitle, &item.QuestionType, &item.OrderIndex,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const listByQuestionnaireID = `
SELECT a.id, a.user_id, u.full_name, a.question_id, q.title, a.value, a.created_at
FROM answers a
JOIN questions q ON q.id = a.question_id
JOIN users u ON u.id = a.user_id
WHERE q.questionnaire_id = $1
ORDER BY u.full_name, q.order_index, q.created_at
`

type ListByQuestionnaireIDRow struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	UserName      string
	QuestionID    uuid.UUID
	QuestionTitle string
	Value         string
	CreatedAt     pgtype.Timestamptz
}

func (q *Queries) ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]ListByQuestionnaireIDRow, error) {
	rows, err := q.db.Query(ctx, listByQuestionnaireID, questionnaireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListByQuestionnaireIDRow
	for rows.Next() {
		var item ListByQuestionnaireIDRow
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.UserName, &item.QuestionID,
			&item.QuestionTitle, &item.Value, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
