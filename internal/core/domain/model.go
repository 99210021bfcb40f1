package domain

import (
	"errors"
	"fmt"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrArticleNotFound   = errors.New("article not found")
	ErrInvalidPage       = errors.New("page number and page size must be >= 1")
	ErrUnknownFollowType = errors.New("unknown following type")
)

// FollowingType discrimine le store visé par FollowingID (user, tag ou article).
type FollowingType int

const (
	FollowingTypeUser FollowingType = iota
	FollowingTypeTag
	FollowingTypeArticle
)

func (t FollowingType) String() string {
	switch t {
	case FollowingTypeUser:
		return "user"
	case FollowingTypeTag:
		return "tag"
	case FollowingTypeArticle:
		return "article"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseFollowingType fait l'aller-retour inverse de String (format stocké et format events)
func ParseFollowingType(s string) (FollowingType, error) {
	switch s {
	case "user":
		return FollowingTypeUser, nil
	case "tag":
		return FollowingTypeTag, nil
	case "article":
		return FollowingTypeArticle, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFollowType, s)
	}
}

// FollowEdge représente une relation dirigée follower -> following.
// L'ID est opaque et strictement croissant : c'est le SEUL critère de tri
// (plus grand = plus récent), donc pas de tie-break sur timestamp.
// Le service d'écriture garantit au plus un edge par triple
// (FollowerID, FollowingID, FollowingType) ; ici on est en lecture seule.
type FollowEdge struct {
	ID            int64
	FollowerID    string
	FollowingID   string
	FollowingType FollowingType
}
