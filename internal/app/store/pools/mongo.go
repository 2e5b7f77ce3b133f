package poolstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"github.com/suvana/suvana/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)

// MongoStore persists pools and memberships in MongoDB.
type MongoStore struct {
	db          *mongo.Database
	pools       *mongo.Collection
	memberships *mongo.Collection
}

// NewMongo binds the store to the "pools" and "memberships" collections.
func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{
		db:          db,
		pools:       db.Collection("pools"),
		memberships: db.Collection("memberships"),
	}
}

func (s *MongoStore) Kind() string { return "mongo" }

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *MongoStore) List(ctx context.Context) ([]models.Pool, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.pools.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Pool{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Pool, error) {
	var p models.Pool
	if err := s.pools.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Pool{}, notFound(err)
	}
	return p, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.pools.CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) Create(ctx context.Context, p models.Pool) (models.Pool, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UserPosition = nil
	p.LastContribution = nil
	if _, err := s.pools.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Pool{}, ErrDuplicateID
		}
		return models.Pool{}, err
	}
	return p, nil
}

// Join increments only while participants < size, so concurrent joins
// cannot overfill a pool.
func (s *MongoStore) Join(ctx context.Context, id string) (models.Pool, error) {
	filter := bson.M{
		"_id":   id,
		"$expr": bson.M{"$lt": bson.A{"$participants", "$size"}},
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"participants": bson.M{"$add": bson.A{"$participants", 1}},
			"collected":    bson.M{"$round": bson.A{bson.M{"$add": bson.A{"$collected", "$share_amount"}}, 6}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Pool
	err := s.pools.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Pool{}, err
	}
	// Either the pool is missing or it is full.
	existing, gerr := s.Get(ctx, id)
	if gerr != nil {
		return models.Pool{}, gerr
	}
	return existing, ErrPoolFull
}

func (s *MongoStore) Contribute(ctx context.Context, id string, amount float64) (models.Pool, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"collected": bson.M{"$round": bson.A{bson.M{"$add": bson.A{"$collected", amount}}, 6}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Pool
	if err := s.pools.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p); err != nil {
		return models.Pool{}, notFound(err)
	}
	return p, nil
}

func (s *MongoStore) AdvanceDue(ctx context.Context, now time.Time) (int, error) {
	cur, err := s.pools.Find(ctx, bson.M{
		"status":      models.StatusActive,
		"next_payout": bson.M{"$lte": now},
	})
	if err != nil {
		return 0, err
	}
	var due []models.Pool
	if err := cur.All(ctx, &due); err != nil {
		return 0, err
	}

	n := 0
	for _, p := range due {
		next, changed := p.AdvanceCycle(now)
		if !changed {
			continue
		}
		// Match on the cycle we read so a concurrent advance is not applied twice.
		res, err := s.pools.UpdateOne(ctx,
			bson.M{"_id": p.ID, "current_cycle": p.CurrentCycle, "status": p.Status},
			bson.M{"$set": bson.M{
				"current_cycle": next.CurrentCycle,
				"next_payout":   next.NextPayout,
				"status":        next.Status,
			}},
		)
		if err != nil {
			return n, err
		}
		n += int(res.ModifiedCount)
	}
	return n, nil
}

func (s *MongoStore) Membership(ctx context.Context, address string) (models.Membership, error) {
	var m models.Membership
	if err := s.memberships.FindOne(ctx, bson.M{"address": foldAddress(address)}).Decode(&m); err != nil {
		return models.Membership{}, notFound(err)
	}
	return m, nil
}

func (s *MongoStore) SetMembership(ctx context.Context, m models.Membership) (models.Membership, error) {
	m.Address = foldAddress(m.Address)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}

	set := bson.M{
		"pool_id":   m.PoolID,
		"position":  m.Position,
		"joined_at": m.JoinedAt,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": m.ID},
	}
	if m.LastContribution != nil {
		set["last_contribution"] = *m.LastContribution
	} else {
		update["$unset"] = bson.M{"last_contribution": ""}
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Membership
	if err := s.memberships.FindOneAndUpdate(ctx, bson.M{"address": m.Address}, update, opts).Decode(&out); err != nil {
		return models.Membership{}, err
	}
	return out, nil
}

func (s *MongoStore) RecordContribution(ctx context.Context, address string, at time.Time) error {
	res, err := s.memberships.UpdateOne(ctx,
		bson.M{"address": foldAddress(address)},
		bson.M{"$set": bson.M{"last_contribution": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
