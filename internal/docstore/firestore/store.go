// Package firestore implements docstore.Store on Cloud Firestore. It is only
// ever pointed at the Firestore emulator by the test harness.
package firestore

import (
	"context"
	"fmt"

	"alcyxob/fitness-testkit/internal/docstore"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// EmulatorHostEnv is read by the Firestore client when it is constructed.
const EmulatorHostEnv = "FIRESTORE_EMULATOR_HOST"

// Store implements docstore.Store with a Firestore client.
type Store struct {
	client *firestore.Client
	logger *zap.Logger
}

// Open creates a Firestore client for projectID. With EmulatorHostEnv set
// the client talks to the emulator and needs no credentials.
func Open(ctx context.Context, projectID string, logger *zap.Logger, opts ...option.ClientOption) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Store{client: client, logger: logger}, nil
}

func (s *Store) collection(collectionPath string) (*firestore.CollectionRef, error) {
	if _, _, err := docstore.SplitCollectionPath(collectionPath); err != nil {
		return nil, err
	}
	ref := s.client.Collection(collectionPath)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", docstore.ErrInvalidPath, collectionPath)
	}
	return ref, nil
}

func (s *Store) Add(ctx context.Context, collectionPath string, fields map[string]any) (string, error) {
	coll, err := s.collection(collectionPath)
	if err != nil {
		return "", err
	}
	ref, _, err := coll.Add(ctx, fields)
	if err != nil {
		return "", err
	}
	s.logger.Debug("document added", zap.String("collection", collectionPath), zap.String("id", ref.ID))
	return ref.ID, nil
}

func (s *Store) List(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	coll, err := s.collection(collectionPath)
	if err != nil {
		return nil, err
	}
	snaps, err := coll.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return toDocuments(collectionPath, snaps), nil
}

func (s *Store) Find(ctx context.Context, collectionPath, field string, value any) ([]docstore.Document, error) {
	coll, err := s.collection(collectionPath)
	if err != nil {
		return nil, err
	}
	snaps, err := coll.Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return toDocuments(collectionPath, snaps), nil
}

func (s *Store) Delete(ctx context.Context, docPath string) error {
	if _, _, err := docstore.SplitDocPath(docPath); err != nil {
		return err
	}
	ref := s.client.Doc(docPath)
	if ref == nil {
		return fmt.Errorf("%w: %q", docstore.ErrInvalidPath, docPath)
	}
	_, err := ref.Delete(ctx)
	return err
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

func toDocuments(collectionPath string, snaps []*firestore.DocumentSnapshot) []docstore.Document {
	docs := make([]docstore.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, docstore.Document{
			ID:   snap.Ref.ID,
			Path: docstore.Join(collectionPath, snap.Ref.ID),
			Data: snap.Data(),
		})
	}
	return docs
}

var _ docstore.Store = (*Store)(nil)
