package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

func sampleEntry() entity.AuditEntry {
	return entity.AuditEntry{
		ID:        "a-1",
		Type:      entity.AuditTypeSale,
		Action:    "commit",
		Details:   "Venta V-1 total 5000",
		ActorID:   "u-1",
		ActorName: "Cajero",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestStreamValues(t *testing.T) {
	v := streamValues(sampleEntry())
	assert.Equal(t, "a-1", v["id"])
	assert.Equal(t, "sale", v["type"])
	assert.Equal(t, "2024-03-01T10:00:00Z", v["timestamp"])

	s := &RedisStreamSink{stream: "retail:audit", maxLen: 1000}
	args := s.args(sampleEntry())
	assert.Equal(t, "retail:audit", args.Stream)
	assert.True(t, args.Approx)

	unbounded := &RedisStreamSink{stream: "x"}
	assert.False(t, unbounded.args(sampleEntry()).Approx)
}

func TestKafkaMessage(t *testing.T) {
	msg, err := kafkaMessage(sampleEntry())
	require.NoError(t, err)
	assert.Equal(t, "sale", string(msg.Key))

	var ev auditEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, "commit", ev.Action)
	assert.Equal(t, "u-1", ev.ActorID)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "commit", string(msg.Headers[0].Value))
}
