package rating

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

type Rating struct {
	ID          uuid.UUID
	PatientID   uuid.UUID
	PhysicianID uuid.UUID
	Score       int32
	Comment     pgtype.Text
	CreatedAt   pgtype.Timestamptz
}

const create = `
INSERT INTO ratings (patient_id, physician_id, score, comment)
VALUES ($1, $2, $3, $4)
RETURNING id, patient_id, physician_id, score, comment, created_at
`

type CreateParams struct {
	PatientID   uuid.UUID
	PhysicianID uuid.UUID
	Score       int32
	Comment     pgtype.Text
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Rating, error) {
	row := q.db.QueryRow(ctx, create, arg.PatientID, arg.PhysicianID, arg.Score, arg.Comment)
	var r Rating
	err := row.Scan(&r.ID, &r.PatientID, &r.PhysicianID, &r.Score, &r.Comment, &r.CreatedAt)
	return r, err
}

const existsByPatientAndPhysician = `
SELECT EXISTS (
	SELECT 1 FROM ratings WHERE patient_id = $1 AND physician_id = $2
)
`

type ExistsByPatientAndPhysicianParams struct {
	PatientID   uuid.UUID
	PhysicianID uuid.UUID
}

func (q *Queries) ExistsByPatientAndPhysician(ctx context.Context, arg ExistsByPatientAndPhysicianParams) (bool, error) {
	row := q.db.QueryRow(ctx, existsByPatientAndPhysician, arg.PatientID, arg.PhysicianID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getSummaryByPhysicianID = `
SELECT COALESCE(AVG(score), 0)::float8, COUNT(*)
FROM ratings
WHERE physician_id = $1
`

type GetSummaryByPhysicianIDRow struct {
	Average float64
	Count   int64
}

func (q *Queries) GetSummaryByPhysicianID(ctx context.Context, physicianID uuid.UUID) (GetSummaryByPhysicianIDRow, error) {
	row := q.db.QueryRow(ctx, getSummaryByPhysicianID, physicianID)
	var summary GetSummaryByPhysicianIDRow
	err := row.Scan(&summary.Average, &summary.Count)
	return summary, err
}

const listByPhysicianID = `
SELECT id, patient_id, physician_id, score, comment, created_at
FROM ratings
WHERE physician_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListByPhysicianID(ctx context.Context, physicianID uuid.UUID) ([]Rating, error) {
	rows, err := q.db.Query(ctx, listByPhysicianID, physicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.PatientID, &r.PhysicianID, &r.Score, &r.Comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
