package audit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// RedisStreamSink publica cada registro en un stream de Redis (XADD) para consumidores externos.
type RedisStreamSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamSink construye el sink. maxLen acota el stream de forma aproximada (0 = sin límite).
func NewRedisStreamSink(client *redis.Client, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

// NewRedisClient crea el cliente a partir de la dirección configurada.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Name identifica el sink en métricas.
func (s *RedisStreamSink) Name() string { return "redis" }

// Write agrega el registro al stream.
func (s *RedisStreamSink) Write(ctx context.Context, e entity.AuditEntry) error {
	if err := s.client.XAdd(ctx, s.args(e)).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

func (s *RedisStreamSink) args(e entity.AuditEntry) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: s.maxLen > 0,
		Values: streamValues(e),
	}
}

func streamValues(e entity.AuditEntry) map[string]interface{} {
	return map[string]interface{}{
		"id":         e.ID,
		"type":       e.Type,
		"action":     e.Action,
		"details":    e.Details,
		"actor_id":   e.ActorID,
		"actor_name": e.ActorName,
		"timestamp":  e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// Close cierra el cliente.
func (s *RedisStreamSink) Close() error { return s.client.Close() }
