package prefs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBucket is an objectAPI backed by a map.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte)}
}

func (b *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	data, ok := b.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (b *fakeBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	bucket := newFakeBucket()
	s := newS3Store(bucket, "prefs-bucket", "/ci/prefs/", zap.NewNop())
	exerciseStore(t, s)

	require.NoError(t, s.SetString(context.Background(), "theme_mode", "dark"))
	assert.Equal(t, []byte("dark"), bucket.objects["ci/prefs/theme_mode"])
}

func TestS3Store_GetError(t *testing.T) {
	bucket := newFakeBucket()
	bucket.getErr = errors.New("access denied")
	s := newS3Store(bucket, "prefs-bucket", "prefs", zap.NewNop())

	_, ok, err := s.GetString(context.Background(), "theme_mode")
	assert.Error(t, err)
	assert.False(t, ok)
}
