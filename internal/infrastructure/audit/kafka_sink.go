package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// KafkaSink publica cada registro como un mensaje JSON en un topic de Kafka.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink construye el sink con un writer síncrono sobre los brokers dados.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}}
}

// Name identifica el sink en métricas.
func (s *KafkaSink) Name() string { return "kafka" }

// Write publica el registro.
func (s *KafkaSink) Write(ctx context.Context, e entity.AuditEntry) error {
	msg, err := kafkaMessage(e)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar bitácora en %s: %w", s.writer.Topic, err)
	}
	return nil
}

// auditEvent forma JSON estable del registro.
type auditEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Timestamp time.Time `json:"timestamp"`
}

// kafkaMessage usa el tipo como key para que los registros de un mismo tipo caigan en la misma partición.
func kafkaMessage(e entity.AuditEntry) (kafka.Message, error) {
	data, err := json.Marshal(auditEvent{
		ID:        e.ID,
		Type:      e.Type,
		Action:    e.Action,
		Details:   e.Details,
		ActorID:   e.ActorID,
		ActorName: e.ActorName,
		Timestamp: e.Timestamp,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal audit entry: %w", err)
	}
	return kafka.Message{
		Key:   []byte(e.Type),
		Value: data,
		Headers: []kafka.Header{
			{Key: "audit-action", Value: []byte(e.Action)},
		},
		Time: e.Timestamp,
	}, nil
}

// Close cierra el writer.
func (s *KafkaSink) Close() error { return s.writer.Close() }
