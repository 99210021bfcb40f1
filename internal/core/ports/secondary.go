package ports

import (
	"context"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
)

// --- DRIVEN (ce dont le service a besoin) ---

// EdgeFilter est une conjonction d'égalités sur le edge store.
// Le service fournit toujours exactement deux prédicats : le pivot
// (FollowerID ou FollowingID) et le type.
type EdgeFilter struct {
	FollowerID  *string
	FollowingID *string
	Type        *domain.FollowingType
}

// FollowRepository est le edge store (lecture seule ici).
type FollowRepository interface {
	// Exists teste l'existence d'un edge pour la paire, tous types confondus.
	Exists(ctx context.Context, followerID, followingID string) (bool, error)

	// Scan renvoie la page demandée triée par ID décroissant, plus le nombre
	// TOTAL d'edges qui matchent le filtre (pas seulement la page).
	Scan(ctx context.Context, filter EdgeFilter, page domain.PageRequest) ([]domain.FollowEdge, int64, error)
}

// Les trois resolvers sont volontairement des ports séparés : trois stores
// indépendants, trois formes différentes. Absence = erreur sentinelle
// (domain.Err*NotFound), jamais traitée comme une panne.

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type TagRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tag, error)
}

type ArticleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Article, error)
}

// AvatarService construit l'URL gravatar d'un email pour un size token fixe.
type AvatarService interface {
	GravatarURL(email, size string) string
}

// FollowCache est piloté par l'adapter events : le service d'écriture des
// edges publie follow.created / follow.removed, on invalide la paire.
type FollowCache interface {
	InvalidatePair(ctx context.Context, followerID, followingID string) error
}
