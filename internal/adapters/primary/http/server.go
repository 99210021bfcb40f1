package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/ports"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 20
)

// Server est l'adapter Driving HTTP : un mapping fin requête -> port, zéro
// logique métier. La présentation (templates, sessions) vit ailleurs.
type Server struct {
	service ports.FollowQueryService
}

func NewServer(service ports.FollowQueryService) *Server {
	return &Server{service: service}
}

// Handler assemble les routes + middlewares (CORS, tracing, request-id).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/v1/follows/check", s.handleCheck)
	mux.HandleFunc("GET /api/v1/users/{id}/followings/users", s.handleFollowingUsers)
	mux.HandleFunc("GET /api/v1/users/{id}/followings/tags", s.handleFollowingTags)
	mux.HandleFunc("GET /api/v1/users/{id}/followings/articles", s.handleFollowingArticles)
	mux.HandleFunc("GET /api/v1/users/{id}/followers", s.handleFollowerUsers)

	var handler http.Handler = mux
	handler = requestID(handler)
	handler = cors.Default().Handler(handler)
	return otelhttp.NewHandler(handler, "follow-service")
}

// --- HANDLERS ---

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	followerID := r.URL.Query().Get("follower_id")
	followingID := r.URL.Query().Get("following_id")
	if followerID == "" || followingID == "" {
		writeError(w, http.StatusBadRequest, "follower_id and following_id are required")
		return
	}

	following := s.service.IsFollowing(r.Context(), followerID, followingID)
	writeJSON(w, http.StatusOK, map[string]bool{"following": following})
}

func (s *Server) handleFollowingUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.GetFollowingUsers(r.Context(), r.PathValue("id"), page)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writePage(w, result, userToResponse)
}

func (s *Server) handleFollowingTags(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.GetFollowingTags(r.Context(), r.PathValue("id"), page)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writePage(w, result, tagToResponse)
}

func (s *Server) handleFollowingArticles(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.GetFollowingArticles(r.Context(), r.PathValue("id"), page)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writePage(w, result, articleToResponse)
}

func (s *Server) handleFollowerUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.GetFollowerUsers(r.Context(), r.PathValue("id"), page)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writePage(w, result, userToResponse)
}

// --- DTOs (on ne sérialise jamais l'entité domaine brute : l'email ne sort pas) ---

type userResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type tagResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	FollowerCount int64  `json:"follower_count"`
}

type articleResponse struct {
	ID              string    `json:"id"`
	AuthorID        string    `json:"author_id"`
	Title           string    `json:"title"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	LatestCommentAt time.Time `json:"latest_comment_at"`
}

type pageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func userToResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, ThumbnailURL: u.ThumbnailURL}
}

func tagToResponse(t domain.Tag) tagResponse {
	return tagResponse{ID: t.ID, Title: t.Title, FollowerCount: t.FollowerCount}
}

func articleToResponse(a domain.Article) articleResponse {
	return articleResponse{
		ID:              a.ID,
		AuthorID:        a.AuthorID,
		Title:           a.Title,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		LatestCommentAt: a.LatestCommentAt,
	}
}

// --- HELPERS ---

func parsePage(r *http.Request) (domain.PageRequest, error) {
	page := domain.PageRequest{Number: defaultPageNumber, Size: defaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PageRequest{}, domain.ErrInvalidPage
		}
		page.Number = n
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PageRequest{}, domain.ErrInvalidPage
		}
		page.Size = n
	}
	return page, page.Validate()
}

func writePage[T, R any](w http.ResponseWriter, page domain.Page[T], toResponse func(T) R) {
	items := make([]R, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, toResponse(item))
	}
	writeJSON(w, http.StatusOK, pageResponse[R]{Items: items, Total: page.Total})
}

func writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidPage) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Le core absorbe les pannes de store : une autre erreur ici est un bug.
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("writing response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestID attache un id de corrélation à chaque requête pour les logs.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		slog.Debug("http request", "request_id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
