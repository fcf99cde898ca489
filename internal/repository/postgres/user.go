package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/interview-assistant/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Pool
}

func NewUserRepository(db *Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`

	err := r.db.QueryOne(ctx, query, []any{email},
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (email, password_hash)
			  VALUES ($1, $2)
			  RETURNING id, email, password_hash, created_at`

	var saved model.User
	err := r.db.QueryOne(ctx, query, []any{user.Email, user.PasswordHash},
		&saved.ID, &saved.Email, &saved.PasswordHash, &saved.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}
