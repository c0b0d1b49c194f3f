package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

const (
	collectionVisits   = "user_history"
	collectionCounters = "counters"
)

// VisitStore keeps visit history in MongoDB. Numeric ids come from a
// counters document so they match the relational backend's shape.
type VisitStore struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

// NewVisitStore returns a VisitStore over the history and counters collections of db.
func NewVisitStore(db *mongo.Database) *VisitStore {
	return &VisitStore{
		col:      db.Collection(collectionVisits),
		counters: db.Collection(collectionCounters),
	}
}

func (s *VisitStore) nextID(ctx context.Context) (uint, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionVisits},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return uint(doc.Seq), nil
}

// Find loads a visit by id.
func (s *VisitStore) Find(ctx context.Context, id uint) (*domain.PublicationVisit, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.PublicationVisit
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List matches filters by their column name, which is also the bson field name.
func (s *VisitStore) List(ctx context.Context, filters ...ports.Filter) ([]domain.PublicationVisit, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	for _, f := range filters {
		filter[f.Column] = f.Value
	}

	cur, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	visits := []domain.PublicationVisit{}
	if err := cur.All(ctx, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// Add assigns the next id and inserts v.
func (s *VisitStore) Add(ctx context.Context, v *domain.PublicationVisit) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := s.nextID(ctx)
	if err != nil {
		return err
	}
	v.ID = id
	if v.VisitedAt.IsZero() {
		v.VisitedAt = time.Now().UTC()
	}
	_, err = s.col.InsertOne(ctx, v)
	return err
}

// Save replaces the stored document of v.
func (s *VisitStore) Save(ctx context.Context, v *domain.PublicationVisit) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Remove deletes v by id.
func (s *VisitStore) Remove(ctx context.Context, v *domain.PublicationVisit) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.col.DeleteOne(ctx, bson.M{"_id": v.ID})
	return err
}

// EnsureIndexes creates the lookup index on the visits collection.
func (s *VisitStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "visited_at", Value: -1}}},
		{Keys: bson.D{{Key: "publication_id", Value: 1}}},
	})
	return err
}
