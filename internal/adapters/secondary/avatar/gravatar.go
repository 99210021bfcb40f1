package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const gravatarBaseURL = "https://secure.gravatar.com/avatar/"

// GravatarService dérive l'URL du thumbnail depuis l'email, selon le protocole
// gravatar : md5 de l'email trimé + minuscules, taille en query string.
type GravatarService struct{}

func NewGravatarService() *GravatarService {
	return &GravatarService{}
}

func (s *GravatarService) GravatarURL(email, size string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return gravatarBaseURL + hex.EncodeToString(sum[:]) + "?s=" + size
}
