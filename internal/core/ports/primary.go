package ports

import (
	"context"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
)

// FollowQueryService est le port Driving (API de lecture du graphe de suivi).
//
// Contrat d'erreur : une panne du store est absorbée (log + résultat dégradé :
// false pour IsFollowing, page vide Total=0 pour les requêtes paginées).
// La seule erreur remontée au caller est domain.ErrInvalidPage.
type FollowQueryService interface {
	// IsFollowing teste l'existence d'un edge (follower, following), tous
	// types confondus. false couvre aussi "lookup failed" — assumé.
	IsFollowing(ctx context.Context, followerID, followingID string) bool

	// ListFollowings liste les edges sortants d'un follower pour un type
	// donné, triés par ID décroissant (plus récent d'abord).
	ListFollowings(ctx context.Context, followerID string, kind domain.FollowingType, page domain.PageRequest) (domain.Page[domain.FollowEdge], error)

	// ListFollowers est le symétrique : edges entrants d'une cible.
	ListFollowers(ctx context.Context, followingID string, kind domain.FollowingType, page domain.PageRequest) (domain.Page[domain.FollowEdge], error)

	GetFollowingUsers(ctx context.Context, followerID string, page domain.PageRequest) (domain.Page[domain.User], error)
	GetFollowingTags(ctx context.Context, followerID string, page domain.PageRequest) (domain.Page[domain.Tag], error)
	GetFollowingArticles(ctx context.Context, followerID string, page domain.PageRequest) (domain.Page[domain.Article], error)
	GetFollowerUsers(ctx context.Context, followingID string, page domain.PageRequest) (domain.Page[domain.User], error)
}
