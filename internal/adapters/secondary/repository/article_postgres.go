package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
)

type ArticlePostgresRepo struct {
	db *pgxpool.Pool
}

func NewArticlePostgresRepo(pool *pgxpool.Pool) *ArticlePostgresRepo {
	return &ArticlePostgresRepo{db: pool}
}

// GetByID renvoie l'article avec ses timestamps BRUTS (ms-epoch, comme en
// base). La matérialisation en time.Time appartient au core, pas au store.
func (r *ArticlePostgresRepo) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	q := `
		SELECT id, author_id, title, create_time_ms, update_time_ms, latest_comment_time_ms
		FROM articles WHERE id = $1
	`

	var a domain.Article
	err := r.db.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.AuthorID, &a.Title,
		&a.CreateTimeMs, &a.UpdateTimeMs, &a.LatestCommentTimeMs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("db: get article by id: %w", err)
	}
	return &a, nil
}
