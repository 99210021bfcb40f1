package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/ports"
)

// Sujets publiés par le service de mutation des edges.
const (
	SubjectFollowCreated = "follow.created"
	SubjectFollowRemoved = "follow.removed"
)

// FollowEvent est le contrat implicite avec le service d'écriture.
type FollowEvent struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
	Type        string `json:"type"`
}

// EventHandler invalide le cache sur mutation du graphe. On ne matérialise
// rien ici : la création/suppression d'edges reste hors de ce service.
type EventHandler struct {
	cache ports.FollowCache
}

func NewEventHandler(cache ports.FollowCache) *EventHandler {
	return &EventHandler{cache: cache}
}

func (h *EventHandler) HandleFollowChanged(msg *nats.Msg) {
	// Extraction du contexte de trace injecté par le publisher dans les
	// headers NATS.
	ctx := context.Background()
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(msg.Header))

	tracer := otel.Tracer("follow-service")
	ctx, span := tracer.Start(ctx, "invalidate_follow_cache", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event FollowEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		slog.Error("invalid follow event payload", "subject", msg.Subject, "error", err)
		return
	}
	if event.FollowerID == "" || event.FollowingID == "" {
		slog.Error("follow event missing ids", "subject", msg.Subject)
		return
	}

	if err := h.cache.InvalidatePair(ctx, event.FollowerID, event.FollowingID); err != nil {
		span.RecordError(err)
		slog.Error("follow cache invalidation failed",
			"follower_id", event.FollowerID, "following_id", event.FollowingID, "error", err)
		return
	}
	slog.Debug("follow cache invalidated",
		"subject", msg.Subject, "follower_id", event.FollowerID, "following_id", event.FollowingID)
}
