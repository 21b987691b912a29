package memory

import (
	"context"
	"testing"

	"alcyxob/fitness-testkit/internal/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddListKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		id, err := s.Add(ctx, "users/u1/programs", map[string]any{"name": name})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	docs, err := s.List(ctx, "users/u1/programs")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, d := range docs {
		assert.Equal(t, ids[i], d.ID)
		assert.Equal(t, "users/u1/programs/"+ids[i], d.Path)
	}
	assert.Equal(t, "a", docs[0].Data["name"])
}

func TestStore_ListIsNotRecursive(t *testing.T) {
	ctx := context.Background()
	s := New()

	uid, err := s.Add(ctx, "users", map[string]any{"email": "x@example.com"})
	require.NoError(t, err)
	_, err = s.Add(ctx, docstore.Join("users", uid, "programs"), map[string]any{"name": "p"})
	require.NoError(t, err)

	docs, err := s.List(ctx, "users")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, s.Delete(ctx, docs[0].Path))
	assert.Equal(t, 0, s.Len("users"))
	assert.Equal(t, 1, s.Len(docstore.Join("users", uid, "programs")))
}

func TestStore_Find(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.Add(ctx, "accounts", map[string]any{"email": "a@example.com"})
	_, _ = s.Add(ctx, "accounts", map[string]any{"email": "b@example.com"})

	docs, err := s.Find(ctx, "accounts", "email", "b@example.com")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b@example.com", docs[0].Data["email"])

	docs, err = s.Find(ctx, "accounts", "email", "missing@example.com")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_DeleteMissingIsNoop(t *testing.T) {
	s := New()
	assert.NoError(t, s.Delete(context.Background(), "users/nope"))
}

func TestStore_InvalidPaths(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Add(ctx, "users/u1", nil)
	assert.ErrorIs(t, err, docstore.ErrInvalidPath)
	_, err = s.List(ctx, "")
	assert.ErrorIs(t, err, docstore.ErrInvalidPath)
	assert.ErrorIs(t, s.Delete(ctx, "users"), docstore.ErrInvalidPath)
}

func TestStore_Closed(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Close(ctx))
	_, err := s.Add(ctx, "users", map[string]any{})
	assert.ErrorIs(t, err, docstore.ErrClosed)
}
