package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/ports"
)

// ThumbnailSizeToken est le paramètre de taille gravatar (140px, comme partout
// sur la plateforme).
const ThumbnailSizeToken = "140"

type followQueryService struct {
	edges    ports.FollowRepository
	users    ports.UserRepository
	tags     ports.TagRepository
	articles ports.ArticleRepository
	avatars  ports.AvatarService
}

// NewFollowQueryService câble le moteur de requêtes. Aucun état partagé :
// toutes les opérations sont sûres en concurrence.
func NewFollowQueryService(
	edges ports.FollowRepository,
	users ports.UserRepository,
	tags ports.TagRepository,
	articles ports.ArticleRepository,
	avatars ports.AvatarService,
) ports.FollowQueryService {
	return &followQueryService{
		edges:    edges,
		users:    users,
		tags:     tags,
		articles: articles,
		avatars:  avatars,
	}
}

func (s *followQueryService) IsFollowing(ctx context.Context, followerID, followingID string) bool {
	ok, err := s.edges.Exists(ctx, followerID, followingID)
	if err != nil {
		// Fail-soft : le caller ne distingue pas "pas suivi" de "store en
		// panne". Suffisant pour de l'affichage, à ne PAS réutiliser pour du
		// contrôle d'accès.
		slog.Error("follow existence check failed",
			"follower_id", followerID, "following_id", followingID, "error", err)
		return false
	}
	return ok
}

// ListFollowings est LA primitive : les quatre requêtes matérialisées
// (users/tags/articles suivis, followers) se construisent dessus ou sur sa
// symétrique ListFollowers.
func (s *followQueryService) ListFollowings(ctx context.Context, followerID string, kind domain.FollowingType, page domain.PageRequest) (domain.Page[domain.FollowEdge], error) {
	if err := page.Validate(); err != nil {
		return emptyPage[domain.FollowEdge](), err
	}

	filter := ports.EdgeFilter{FollowerID: &followerID, Type: &kind}
	edges, total, err := s.edges.Scan(ctx, filter, page)
	if err != nil {
		slog.Error("listing followings failed",
			"follower_id", followerID, "type", kind.String(), "error", err)
		return emptyPage[domain.FollowEdge](), nil
	}
	return domain.Page[domain.FollowEdge]{Items: edges, Total: total}, nil
}

func (s *followQueryService) ListFollowers(ctx context.Context, followingID string, kind domain.FollowingType, page domain.PageRequest) (domain.Page[domain.FollowEdge], error) {
	if err := page.Validate(); err != nil {
		return emptyPage[domain.FollowEdge](), err
	}

	filter := ports.EdgeFilter{FollowingID: &followingID, Type: &kind}
	edges, total, err := s.edges.Scan(ctx, filter, page)
	if err != nil {
		slog.Error("listing followers failed",
			"following_id", followingID, "type", kind.String(), "error", err)
		return emptyPage[domain.FollowEdge](), nil
	}
	return domain.Page[domain.FollowEdge]{Items: edges, Total: total}, nil
}

func (s *followQueryService) GetFollowingUsers(ctx context.Context, followerID string, page domain.PageRequest) (domain.Page[domain.User], error) {
	followings, err := s.ListFollowings(ctx, followerID, domain.FollowingTypeUser, page)
	if err != nil {
		return emptyPage[domain.User](), err
	}

	ret := domain.Page[domain.User]{
		Items: make([]domain.User, 0, len(followings.Items)),
		Total: followings.Total,
	}
	for _, edge := range followings.Items {
		user, err := s.users.GetByID(ctx, edge.FollowingID)
		if errors.Is(err, domain.ErrUserNotFound) {
			// Edge orphelin : la cible a été supprimée après la création de
			// l'edge. On skip SANS toucher Total.
			slog.Warn("following user no longer exists", "user_id", edge.FollowingID)
			continue
		}
		if err != nil {
			slog.Error("resolving following user failed",
				"follower_id", followerID, "user_id", edge.FollowingID, "error", err)
			return emptyPage[domain.User](), nil
		}
		s.fillThumbnailURL(user)
		ret.Items = append(ret.Items, *user)
	}
	return ret, nil
}

func (s *followQueryService) GetFollowingTags(ctx context.Context, followerID string, page domain.PageRequest) (domain.Page[domain.Tag], error) {
	followings, err := s.ListFollowings(ctx, followerID, domain.FollowingTypeTag, page)
	if err != nil {
		return emptyPage[domain.Tag](), err
	}

	ret := domain.Page[domain.Tag]{
		Items: make([]domain.Tag, 0, len(followings.Items)),
		Total: followings.Total,
	}
	for _, edge := range followings.Items {
		tag, err := s.tags.GetByID(ctx, edge.FollowingID)
		if errors.Is(err, domain.ErrTagNotFound) {
			slog.Warn("following tag no longer exists", "tag_id", edge.FollowingID)
			continue
		}
		if err != nil {
			slog.Error("resolving following tag failed",
				"follower_id", followerID, "tag_id", edge.FollowingID, "error", err)
			return emptyPage[domain.Tag](), nil
		}
		ret.Items = append(ret.Items, *tag)
	}
	return ret, nil
}

func (s *followQueryService) GetFollowingArticles(ctx context.Context, followerID string, page domain.PageRequest) (domain.Page[domain.Article], error) {
	followings, err := s.ListFollowings(ctx, followerID, domain.FollowingTypeArticle, page)
	if err != nil {
		return emptyPage[domain.Article](), err
	}

	ret := domain.Page[domain.Article]{
		Items: make([]domain.Article, 0, len(followings.Items)),
		Total: followings.Total,
	}
	for _, edge := range followings.Items {
		article, err := s.articles.GetByID(ctx, edge.FollowingID)
		if errors.Is(err, domain.ErrArticleNotFound) {
			slog.Warn("following article no longer exists", "article_id", edge.FollowingID)
			continue
		}
		if err != nil {
			slog.Error("resolving following article failed",
				"follower_id", followerID, "article_id", edge.FollowingID, "error", err)
			return emptyPage[domain.Article](), nil
		}
		// Dernier point avant sérialisation : on matérialise les ms-epoch en
		// time.Time pour la couche de présentation.
		coerceArticleTimes(article)
		ret.Items = append(ret.Items, *article)
	}
	return ret, nil
}

func (s *followQueryService) GetFollowerUsers(ctx context.Context, followingID string, page domain.PageRequest) (domain.Page[domain.User], error) {
	followers, err := s.ListFollowers(ctx, followingID, domain.FollowingTypeUser, page)
	if err != nil {
		return emptyPage[domain.User](), err
	}

	ret := domain.Page[domain.User]{
		Items: make([]domain.User, 0, len(followers.Items)),
		Total: followers.Total,
	}
	for _, edge := range followers.Items {
		// Direction inverse : le pivot est la cible, on résout le follower.
		user, err := s.users.GetByID(ctx, edge.FollowerID)
		if errors.Is(err, domain.ErrUserNotFound) {
			slog.Warn("follower user no longer exists", "user_id", edge.FollowerID)
			continue
		}
		if err != nil {
			slog.Error("resolving follower user failed",
				"following_id", followingID, "user_id", edge.FollowerID, "error", err)
			return emptyPage[domain.User](), nil
		}
		s.fillThumbnailURL(user)
		ret.Items = append(ret.Items, *user)
	}
	return ret, nil
}

// --- HELPERS ---

// fillThumbnailURL applique la règle d'avatar de la plateforme :
// gravatar => URL dérivée de l'email, lien externe => URL stockée telle
// quelle, sinon pas de thumbnail.
func (s *followQueryService) fillThumbnailURL(u *domain.User) {
	switch u.AvatarType {
	case domain.AvatarTypeGravatar:
		u.ThumbnailURL = s.avatars.GravatarURL(u.Email, ThumbnailSizeToken)
	case domain.AvatarTypeExternalLink:
		u.ThumbnailURL = u.AvatarURL
	}
}

func coerceArticleTimes(a *domain.Article) {
	a.CreatedAt = time.UnixMilli(a.CreateTimeMs).UTC()
	a.UpdatedAt = time.UnixMilli(a.UpdateTimeMs).UTC()
	a.LatestCommentAt = time.UnixMilli(a.LatestCommentTimeMs).UTC()
}

// emptyPage garantit qu'un résultat dégradé sérialise en liste vide, pas null.
func emptyPage[T any]() domain.Page[T] {
	return domain.Page[T]{Items: []T{}}
}
