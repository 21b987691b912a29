package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalize(t *testing.T) {
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := bson.M{
		"createdAt": primitive.NewDateTimeFromTime(when),
		"reps":      int32(10),
		"weight":    42.5,
		"nested":    bson.D{{Key: "order", Value: int32(0)}},
		"tags":      primitive.A{"a", int32(1)},
	}

	out := normalize(in).(map[string]any)
	assert.Equal(t, when, out["createdAt"])
	assert.Equal(t, int64(10), out["reps"])
	assert.Equal(t, 42.5, out["weight"])
	assert.Equal(t, map[string]any{"order": int64(0)}, out["nested"])
	assert.Equal(t, []any{"a", int64(1)}, out["tags"])
}
