package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tisk/backend/internal/model"
)

func (db *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL CONSTRAINT users_email_key UNIQUE,
			login TEXT NOT NULL CONSTRAINT users_login_key UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'USER',
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			phone_number TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login_at TIMESTAMPTZ
		)
	`
	_, err := db.Pool.Exec(ctx, query)
	return err
}

const accountColumns = `
	id, email, login, password_hash, first_name, last_name,
	role, status, phone_number, department, position,
	created_at, updated_at, last_login_at
`

func scanAccount(row pgx.Row) (*model.Account, error) {
	var acct model.Account
	err := row.Scan(
		&acct.ID,
		&acct.Email,
		&acct.Login,
		&acct.PasswordHash,
		&acct.FirstName,
		&acct.LastName,
		&acct.Role,
		&acct.Status,
		&acct.PhoneNumber,
		&acct.Department,
		&acct.Position,
		&acct.CreatedAt,
		&acct.UpdatedAt,
		&acct.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (db *Postgres) CreateAccount(ctx context.Context, acct *model.Account) (*model.Account, error) {
	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}
	query := `
		INSERT INTO users (
			id, email, login, password_hash, first_name, last_name,
			role, status, phone_number, department, position,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING ` + accountColumns
	created, err := scanAccount(db.Pool.QueryRow(ctx, query,
		acct.ID,
		acct.Email,
		acct.Login,
		acct.PasswordHash,
		acct.FirstName,
		acct.LastName,
		acct.Role,
		acct.Status,
		acct.PhoneNumber,
		acct.Department,
		acct.Position,
	))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return created, nil
}

func (db *Postgres) UpdateAccount(ctx context.Context, acct *model.Account) (*model.Account, error) {
	query := `
		UPDATE users SET
			email = $2,
			login = $3,
			password_hash = $4,
			first_name = $5,
			last_name = $6,
			role = $7,
			status = $8,
			phone_number = $9,
			department = $10,
			position = $11,
			last_login_at = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns
	updated, err := scanAccount(db.Pool.QueryRow(ctx, query,
		acct.ID,
		acct.Email,
		acct.Login,
		acct.PasswordHash,
		acct.FirstName,
		acct.LastName,
		acct.Role,
		acct.Status,
		acct.PhoneNumber,
		acct.Department,
		acct.Position,
		acct.LastLoginAt,
	))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return updated, nil
}

func (db *Postgres) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE email = $1`
	return scanAccount(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (db *Postgres) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)`, login).Scan(&exists)
	return exists, err
}
