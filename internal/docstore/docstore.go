// Package docstore abstracts the hierarchical document database the test
// harness seeds. Collection paths alternate collection and document ids and
// always have an odd number of segments, e.g. "users/u1/programs".
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

var (
	ErrInvalidPath = StoreError("invalid document path")
	ErrClosed      = StoreError("store closed")
)

// StoreError helps distinguish document-store errors.
type StoreError string

func (e StoreError) Error() string {
	return string(e)
}

// Document is a stored document read back from a collection.
type Document struct {
	ID   string
	Path string // Full document path, collection path + "/" + ID
	Data map[string]any
}

// Store is implemented by every document backend.
type Store interface {
	// Add creates a document with a generated id in collectionPath.
	Add(ctx context.Context, collectionPath string, fields map[string]any) (string, error)
	// List returns every document directly inside collectionPath.
	// Subcollections are not included.
	List(ctx context.Context, collectionPath string) ([]Document, error)
	// Find returns the documents of collectionPath whose field equals value.
	Find(ctx context.Context, collectionPath, field string, value any) ([]Document, error)
	// Delete removes one document. Deleting a missing document is not an error,
	// and subcollections of the document are left in place.
	Delete(ctx context.Context, docPath string) error
	Close(ctx context.Context) error
}

// Join builds a path from alternating collection names and document ids.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// SplitCollectionPath returns the parent document path ("" for a top-level
// collection) and the collection name.
func SplitCollectionPath(collectionPath string) (parent, name string, err error) {
	segs, err := segments(collectionPath)
	if err != nil {
		return "", "", err
	}
	if len(segs)%2 != 1 {
		return "", "", fmt.Errorf("%w: %q is not a collection path", ErrInvalidPath, collectionPath)
	}
	return strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1], nil
}

// SplitDocPath returns the collection path and the id of a document path.
func SplitDocPath(docPath string) (collectionPath, id string, err error) {
	segs, err := segments(docPath)
	if err != nil {
		return "", "", err
	}
	if len(segs)%2 != 0 {
		return "", "", fmt.Errorf("%w: %q is not a document path", ErrInvalidPath, docPath)
	}
	return strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1], nil
}

func segments(p string) ([]string, error) {
	if strings.TrimSpace(p) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segs := strings.Split(p, "/")
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, p)
		}
	}
	return segs, nil
}

// Decode copies doc's fields into out, matching on json tag names.
// Numeric widths are converted, so int64 or int32 values from a backend
// decode into int fields.
func Decode(doc Document, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(doc.Data); err != nil {
		return fmt.Errorf("decode %s: %w", doc.Path, err)
	}
	return nil
}

// IsInvalidPath reports whether err came from path validation.
func IsInvalidPath(err error) bool {
	return errors.Is(err, ErrInvalidPath)
}
