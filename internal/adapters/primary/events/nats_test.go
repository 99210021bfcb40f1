package events

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	pairs [][2]string
}

func (f *fakeCache) InvalidatePair(_ context.Context, followerID, followingID string) error {
	f.pairs = append(f.pairs, [2]string{followerID, followingID})
	return nil
}

func TestHandleFollowChanged(t *testing.T) {
	t.Run("invalidates the pair", func(t *testing.T) {
		cache := &fakeCache{}
		h := NewEventHandler(cache)

		h.HandleFollowChanged(&nats.Msg{
			Subject: SubjectFollowCreated,
			Data:    []byte(`{"follower_id":"u1","following_id":"t9","type":"tag"}`),
		})

		require.Equal(t, [][2]string{{"u1", "t9"}}, cache.pairs)
	})

	t.Run("ignores malformed payload", func(t *testing.T) {
		cache := &fakeCache{}
		h := NewEventHandler(cache)

		h.HandleFollowChanged(&nats.Msg{Subject: SubjectFollowRemoved, Data: []byte(`not json`)})
		h.HandleFollowChanged(&nats.Msg{Subject: SubjectFollowRemoved, Data: []byte(`{"type":"tag"}`)})

		require.Empty(t, cache.pairs)
	})
}
