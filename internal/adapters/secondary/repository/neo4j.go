package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/ports"
)

// FollowNeo4jRepo lit le graphe de suivi écrit par le service de mutation.
// Modèle : (a:Entity {id})-[r:FOLLOWS {id, type}]->(b:Entity {id}), où r.id
// est l'identifiant monotone attribué à la création de l'edge et r.type vaut
// "user" | "tag" | "article".
type FollowNeo4jRepo struct {
	driver neo4j.DriverWithContext
}

func NewFollowNeo4jRepo(driver neo4j.DriverWithContext) *FollowNeo4jRepo {
	return &FollowNeo4jRepo{driver: driver}
}

// EnsureSchema crée les index pour que les lookups restent O(1) (idempotent).
func (r *FollowNeo4jRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		queries := []string{
			`CREATE CONSTRAINT entity_id_unique IF NOT EXISTS FOR (e:Entity) REQUIRE e.id IS UNIQUE`,
			`CREATE INDEX follow_edge_id IF NOT EXISTS FOR ()-[r:FOLLOWS]-() ON (r.id)`,
			`CREATE INDEX follow_edge_type IF NOT EXISTS FOR ()-[r:FOLLOWS]-() ON (r.type)`,
		}
		for _, q := range queries {
			if _, err := tx.Run(ctx, q, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Exists teste la paire sans contrainte de type (le prédicat isFollowing est
// type-agnostique).
func (r *FollowNeo4jRepo) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (a:Entity {id: $followerId})-[r:FOLLOWS]->(b:Entity {id: $followingId})
			RETURN count(r) > 0 AS exists
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"followerId":  followerID,
			"followingId": followingID,
		})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			exists, _ := res.Record().Get("exists")
			return exists.(bool), nil
		}
		return false, res.Err()
	})
	if err != nil {
		return false, fmt.Errorf("neo4j: exists: %w", err)
	}
	return result.(bool), nil
}

// Scan exécute le filtre conjonctif, trié par r.id décroissant, et renvoie la
// page + le count total dans la MÊME transaction (page et total cohérents).
func (r *FollowNeo4jRepo) Scan(ctx context.Context, filter ports.EdgeFilter, page domain.PageRequest) ([]domain.FollowEdge, int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	match := `MATCH (a:Entity)-[r:FOLLOWS]->(b:Entity)`
	var conds []string
	params := map[string]any{}
	if filter.FollowerID != nil {
		conds = append(conds, "a.id = $followerId")
		params["followerId"] = *filter.FollowerID
	}
	if filter.FollowingID != nil {
		conds = append(conds, "b.id = $followingId")
		params["followingId"] = *filter.FollowingID
	}
	if filter.Type != nil {
		conds = append(conds, "r.type = $type")
		params["type"] = filter.Type.String()
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	type scanResult struct {
		edges []domain.FollowEdge
		total int64
	}

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		countRes, err := tx.Run(ctx, match+where+" RETURN count(r) AS total", params)
		if err != nil {
			return nil, err
		}
		var total int64
		if countRes.Next(ctx) {
			v, _ := countRes.Record().Get("total")
			total = v.(int64)
		}
		if err := countRes.Err(); err != nil {
			return nil, err
		}

		listParams := make(map[string]any, len(params)+2)
		for k, v := range params {
			listParams[k] = v
		}
		listParams["offset"] = page.Offset()
		listParams["limit"] = page.Size

		listQuery := match + where + `
			RETURN r.id AS id, a.id AS followerId, b.id AS followingId, r.type AS type
			ORDER BY r.id DESC
			SKIP $offset LIMIT $limit
		`
		res, err := tx.Run(ctx, listQuery, listParams)
		if err != nil {
			return nil, err
		}

		var edges []domain.FollowEdge
		for res.Next(ctx) {
			rec := res.Record()
			edge, err := recordToEdge(rec)
			if err != nil {
				return nil, err
			}
			edges = append(edges, edge)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return scanResult{edges: edges, total: total}, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("neo4j: scan: %w", err)
	}

	sr := result.(scanResult)
	return sr.edges, sr.total, nil
}

func recordToEdge(rec *neo4j.Record) (domain.FollowEdge, error) {
	id, ok := recordInt64(rec, "id")
	if !ok {
		return domain.FollowEdge{}, fmt.Errorf("neo4j: edge without id property")
	}
	followerID, _ := rec.Get("followerId")
	followingID, _ := rec.Get("followingId")
	rawType, _ := rec.Get("type")

	kind, err := domain.ParseFollowingType(asString(rawType))
	if err != nil {
		return domain.FollowEdge{}, err
	}
	return domain.FollowEdge{
		ID:            id,
		FollowerID:    asString(followerID),
		FollowingID:   asString(followingID),
		FollowingType: kind,
	}, nil
}

func recordInt64(rec *neo4j.Record, key string) (int64, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0, false
	}
	i, ok := v.(int64)
	return i, ok
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
