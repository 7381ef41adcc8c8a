package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("account not found")
	ErrAlreadyExist = errors.New("account already exists")
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, a *Account) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, google_id, picture, created_at)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),NULLIF($6,''),NOW())
	`, a.ID, a.Name, a.Email, a.PasswordHash, a.GoogleID, a.Picture)
	if err != nil {
		// UNIQUE on email
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, COALESCE(password_hash,''), COALESCE(google_id,''), COALESCE(picture,''), created_at
		FROM users WHERE id=$1
	`, id)
	var a Account
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.GoogleID, &a.Picture, &a.CreatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, COALESCE(password_hash,''), COALESCE(google_id,''), COALESCE(picture,''), created_at
		FROM users WHERE email=$1
	`, email)
	var a Account
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.GoogleID, &a.Picture, &a.CreatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}
