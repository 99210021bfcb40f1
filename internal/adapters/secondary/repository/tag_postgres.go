package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
)

type TagPostgresRepo struct {
	db *pgxpool.Pool
}

func NewTagPostgresRepo(pool *pgxpool.Pool) *TagPostgresRepo {
	return &TagPostgresRepo{db: pool}
}

func (r *TagPostgresRepo) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	q := `SELECT id, title, follower_count FROM tags WHERE id = $1`

	var t domain.Tag
	err := r.db.QueryRow(ctx, q, id).Scan(&t.ID, &t.Title, &t.FollowerCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, fmt.Errorf("db: get tag by id: %w", err)
	}
	return &t, nil
}
