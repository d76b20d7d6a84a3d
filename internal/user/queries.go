package user

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

type Role string

const (
	RolePatient   Role = "PATIENT"
	RolePhysician Role = "PHYSICIAN"
	RoleAdmin     Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID
	Phone     string
	FullName  string
	Role      Role
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

const create = `
INSERT INTO users (phone, full_name, role)
VALUES ($1, $2, $3)
RETURNING id, phone, full_name, role, created_at, updated_at
`

type CreateParams struct {
	Phone    string
	FullName string
	Role     Role
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (User, error) {
	row := q.db.QueryRow(ctx, create, arg.Phone, arg.FullName, arg.Role)
	var u User
	err := row.Scan(&u.ID, &u.Phone, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getByID = `
SELECT id, phone, full_name, role, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Phone, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getByPhone = `
SELECT id, phone, full_name, role, created_at, updated_at
FROM users
WHERE phone = $1
`

func (q *Queries) GetByPhone(ctx context.Context, phone string) (User, error) {
	row := q.db.QueryRow(ctx, getByPhone, phone)
	var u User
	err := row.Scan(&u.ID, &u.Phone, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const existsByID = `
SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)
`

func (q *Queries) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, existsByID, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const existsByIDAndRole = `
SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = $2)
`

type ExistsByIDAndRoleParams struct {
	ID   uuid.UUID
	Role Role
}

func (q *Queries) ExistsByIDAndRole(ctx context.Context, arg ExistsByIDAndRoleParams) (bool, error) {
	row := q.db.QueryRow(ctx, existsByIDAndRole, arg.ID, arg.Role)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const existsByPhone = `
SELECT EXISTS (SELECT 1 FROM users WHERE phone = $1)
`

func (q *Queries) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	row := q.db.QueryRow(ctx, existsByPhone, phone)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
