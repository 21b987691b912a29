package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCollectionPath(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantParent string
		wantName   string
		wantErr    bool
	}{
		{"top_level", "users", "", "users", false},
		{"nested", "users/u1/programs", "users/u1", "programs", false},
		{"deep", Join("users", "u1", "programs", "p1", "weeks"), "users/u1/programs/p1", "weeks", false},
		{"document_path", "users/u1", "", "", true},
		{"empty", "", "", "", true},
		{"empty_segment", "users//programs", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, name, err := SplitCollectionPath(tt.path)
			if tt.wantErr {
				assert.True(t, IsInvalidPath(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantParent, parent)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestSplitDocPath(t *testing.T) {
	coll, id, err := SplitDocPath("users/u1/programs/p1")
	require.NoError(t, err)
	assert.Equal(t, "users/u1/programs", coll)
	assert.Equal(t, "p1", id)

	_, _, err = SplitDocPath("users/u1/programs")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestDecode(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	doc := Document{
		ID:   "w1",
		Path: "users/u1/programs/p1",
		Data: map[string]any{
			"name":      "Program",
			"count":     int64(3),
			"weight":    50.5,
			"done":      true,
			"createdAt": created,
		},
	}
	var out struct {
		Name      string    `json:"name"`
		Count     int       `json:"count"`
		Weight    float64   `json:"weight"`
		Done      bool      `json:"done"`
		CreatedAt time.Time `json:"createdAt"`
	}
	require.NoError(t, Decode(doc, &out))
	assert.Equal(t, "Program", out.Name)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, 50.5, out.Weight)
	assert.True(t, out.Done)
	assert.True(t, created.Equal(out.CreatedAt))
}
