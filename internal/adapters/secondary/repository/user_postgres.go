package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
)

// Codes avatar tels que stockés (colonne smallint de la table users).
const (
	avatarTypeNone         = 0
	avatarTypeGravatar     = 1
	avatarTypeExternalLink = 2
)

// sqlUser est le DTO tampon entre la base et le domaine.
type sqlUser struct {
	ID         string
	Username   string
	Email      string
	AvatarType int16
	AvatarURL  *string
}

type UserPostgresRepo struct {
	db *pgxpool.Pool
}

func NewUserPostgresRepo(pool *pgxpool.Pool) *UserPostgresRepo {
	return &UserPostgresRepo{db: pool}
}

func (r *UserPostgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT id, username, email, avatar_type, avatar_url FROM users WHERE id = $1`

	var u sqlUser
	err := r.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.Username, &u.Email, &u.AvatarType, &u.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound // Traduction technique -> Domaine
		}
		return nil, fmt.Errorf("db: get user by id: %w", err)
	}
	return userToDomain(&u), nil
}

func userToDomain(u *sqlUser) *domain.User {
	user := &domain.User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
	switch u.AvatarType {
	case avatarTypeGravatar:
		user.AvatarType = domain.AvatarTypeGravatar
	case avatarTypeExternalLink:
		user.AvatarType = domain.AvatarTypeExternalLink
	default:
		user.AvatarType = domain.AvatarTypeNone
	}
	if u.AvatarURL != nil {
		user.AvatarURL = *u.AvatarURL
	}
	return user
}
