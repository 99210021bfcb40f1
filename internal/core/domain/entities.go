package domain

import "time"

// AvatarType pilote la règle de construction du thumbnail.
type AvatarType int

const (
	AvatarTypeNone AvatarType = iota
	AvatarTypeGravatar
	AvatarTypeExternalLink
)

// User est la projection minimale d'un utilisateur lue par ce service.
// ThumbnailURL est dérivé à la résolution, jamais stocké.
type User struct {
	ID         string
	Username   string
	Email      string
	AvatarType AvatarType
	AvatarURL  string

	ThumbnailURL string
}

type Tag struct {
	ID            string
	Title         string
	FollowerCount int64
}

// Article porte ses timestamps sous deux formes : les entiers ms-epoch tels
// que stockés, et les time.Time dérivés remplis juste avant la sérialisation
// (même logique que User.ThumbnailURL : stocké vs dérivé).
type Article struct {
	ID       string
	AuthorID string
	Title    string

	CreateTimeMs        int64
	UpdateTimeMs        int64
	LatestCommentTimeMs int64

	CreatedAt       time.Time
	UpdatedAt       time.Time
	LatestCommentAt time.Time
}
