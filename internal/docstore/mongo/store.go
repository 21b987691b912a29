package mongo

import (
	"context"

	"alcyxob/fitness-testkit/internal/docstore"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// parentField stores the path of the parent document. A collection path
// "users/u1/programs" lives in the mongo collection "programs" with
// _parent "users/u1"; top-level collections use an empty parent.
const parentField = "_parent"

// hierarchyCollections are the collections written by the program seeder.
var hierarchyCollections = []string{"programs", "weeks", "workouts", "exercises", "sets"}

// Store implements docstore.Store on a MongoDB database.
type Store struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewStore wraps db. The caller owns the client and disconnects it.
func NewStore(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) collection(collectionPath string) (*mongo.Collection, string, error) {
	parent, name, err := docstore.SplitCollectionPath(collectionPath)
	if err != nil {
		return nil, "", err
	}
	return s.db.Collection(name), parent, nil
}

// Add inserts fields as a new document with a uuid string id.
func (s *Store) Add(ctx context.Context, collectionPath string, fields map[string]any) (string, error) {
	coll, parent, err := s.collection(collectionPath)
	if err != nil {
		return "", err
	}
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	id := uuid.NewString()
	doc["_id"] = id
	doc[parentField] = parent

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	s.logger.Debug("document added", zap.String("collection", collectionPath), zap.String("id", id))
	return id, nil
}

func (s *Store) List(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	return s.find(ctx, collectionPath, bson.M{})
}

func (s *Store) Find(ctx context.Context, collectionPath, field string, value any) ([]docstore.Document, error) {
	return s.find(ctx, collectionPath, bson.M{field: value})
}

func (s *Store) find(ctx context.Context, collectionPath string, filter bson.M) ([]docstore.Document, error) {
	coll, parent, err := s.collection(collectionPath)
	if err != nil {
		return nil, err
	}
	filter[parentField] = parent

	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err = cursor.All(ctx, &raw); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	docs := make([]docstore.Document, 0, len(raw))
	for _, m := range raw {
		id, _ := m["_id"].(string)
		delete(m, "_id")
		delete(m, parentField)
		docs = append(docs, docstore.Document{
			ID:   id,
			Path: docstore.Join(collectionPath, id),
			Data: normalize(m).(map[string]any),
		})
	}
	return docs, nil
}

// Delete removes one document; a missing document is not an error.
func (s *Store) Delete(ctx context.Context, docPath string) error {
	collectionPath, id, err := docstore.SplitDocPath(docPath)
	if err != nil {
		return err
	}
	coll, parent, err := s.collection(collectionPath)
	if err != nil {
		return err
	}
	_, err = coll.DeleteOne(ctx, bson.M{"_id": id, parentField: parent})
	return err
}

// Close is a no-op; the connector that created the client disconnects it.
func (s *Store) Close(context.Context) error {
	return nil
}

// normalize converts driver-specific values into the plain Go types the
// other backends return.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case int32:
		return int64(t)
	default:
		return v
	}
}

// EnsureHierarchyIndexes creates the _parent indexes every list walks on,
// plus a unique email index on the local accounts collection.
// Call this once during startup.
func EnsureHierarchyIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, name := range append([]string{"users"}, hierarchyCollections...) {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: parentField, Value: 1}},
			Options: options.Index(),
		})
		if err != nil {
			logger.Warn("failed to create parent index", zap.String("collection", name), zap.Error(err))
		}
	}
	_, err := db.Collection("accounts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: parentField, Value: 1}, {Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Warn("failed to create account email index", zap.Error(err))
	}
}

var _ docstore.Store = (*Store)(nil)
