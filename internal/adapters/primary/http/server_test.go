package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
)

type stubService struct {
	following bool
	users     domain.Page[domain.User]
	tags      domain.Page[domain.Tag]
	articles  domain.Page[domain.Article]

	lastPivot string
	lastPage  domain.PageRequest
}

func (s *stubService) IsFollowing(_ context.Context, followerID, followingID string) bool {
	return s.following
}

func (s *stubService) ListFollowings(_ context.Context, followerID string, _ domain.FollowingType, page domain.PageRequest) (domain.Page[domain.FollowEdge], error) {
	return domain.Page[domain.FollowEdge]{Items: []domain.FollowEdge{}}, nil
}

func (s *stubService) ListFollowers(_ context.Context, followingID string, _ domain.FollowingType, page domain.PageRequest) (domain.Page[domain.FollowEdge], error) {
	return domain.Page[domain.FollowEdge]{Items: []domain.FollowEdge{}}, nil
}

func (s *stubService) GetFollowingUsers(_ context.Context, followerID string, page domain.PageRequest) (domain.Page[domain.User], error) {
	s.lastPivot, s.lastPage = followerID, page
	return s.users, nil
}

func (s *stubService) GetFollowingTags(_ context.Context, followerID string, page domain.PageRequest) (domain.Page[domain.Tag], error) {
	s.lastPivot, s.lastPage = followerID, page
	return s.tags, nil
}

func (s *stubService) GetFollowingArticles(_ context.Context, followerID string, page domain.PageRequest) (domain.Page[domain.Article], error) {
	s.lastPivot, s.lastPage = followerID, page
	return s.articles, nil
}

func (s *stubService) GetFollowerUsers(_ context.Context, followingID string, page domain.PageRequest) (domain.Page[domain.User], error) {
	s.lastPivot, s.lastPage = followingID, page
	return s.users, nil
}

func doRequest(t *testing.T, svc *stubService, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	NewServer(svc).Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, &stubService{}, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCheck(t *testing.T) {
	t.Run("returns the predicate", func(t *testing.T) {
		rec := doRequest(t, &stubService{following: true}, "/api/v1/follows/check?follower_id=u1&following_id=u2")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.True(t, body["following"])
	})

	t.Run("missing ids rejected", func(t *testing.T) {
		rec := doRequest(t, &stubService{}, "/api/v1/follows/check?follower_id=u1")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleFollowingUsers(t *testing.T) {
	svc := &stubService{users: domain.Page[domain.User]{
		Items: []domain.User{{
			ID:           "u2",
			Username:     "grace",
			Email:        "secret@example.com",
			ThumbnailURL: "https://secure.gravatar.com/avatar/x?s=140",
		}},
		Total: 5,
	}}

	rec := doRequest(t, svc, "/api/v1/users/u1/followings/users?page=2&size=10")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u1", svc.lastPivot)
	require.Equal(t, domain.PageRequest{Number: 2, Size: 10}, svc.lastPage)

	var body pageResponse[userResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int64(5), body.Total)
	require.Len(t, body.Items, 1)
	require.Equal(t, "grace", body.Items[0].Username)

	// L'email ne sort jamais de ce service.
	require.NotContains(t, rec.Body.String(), "secret@example.com")
}

func TestHandleFollowingArticles(t *testing.T) {
	created := time.UnixMilli(1717400000000).UTC()
	svc := &stubService{articles: domain.Page[domain.Article]{
		Items: []domain.Article{{ID: "a1", AuthorID: "u9", Title: "hello", CreatedAt: created, UpdatedAt: created, LatestCommentAt: created}},
		Total: 1,
	}}

	rec := doRequest(t, svc, "/api/v1/users/u1/followings/articles")
	require.Equal(t, http.StatusOK, rec.Code)
	// Page par défaut quand rien n'est fourni
	require.Equal(t, domain.PageRequest{Number: 1, Size: 20}, svc.lastPage)

	var body pageResponse[articleResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, created, body.Items[0].CreatedAt)
}

func TestParsePageErrors(t *testing.T) {
	for _, target := range []string{
		"/api/v1/users/u1/followings/users?page=abc",
		"/api/v1/users/u1/followings/users?size=x",
		"/api/v1/users/u1/followings/users?page=0",
		"/api/v1/users/u1/followers?size=-1",
	} {
		rec := doRequest(t, &stubService{}, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestEmptyPageSerializesAsList(t *testing.T) {
	svc := &stubService{tags: domain.Page[domain.Tag]{Items: []domain.Tag{}}}

	rec := doRequest(t, svc, "/api/v1/users/u1/followings/tags")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":[],"total":0}`, rec.Body.String())
}
