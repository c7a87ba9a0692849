package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tazhibayda/profile-service/internal/domain"
)

func (s *Store) EnsureProfileIndexes(ctx context.Context) error {
	// one profile per account; the upsert relies on this to turn the
	// find-or-create race into a retriable duplicate-key error
	_, err := s.colProfiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user"),
	})
	return err
}

func (s *Store) FindProfileByUser(ctx context.Context, owner primitive.ObjectID) (*domain.Profile, error) {
	var p domain.Profile
	err := s.colProfiles.FindOne(ctx, bson.M{"user": owner}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &p, err
}

// UpsertProfile merges in into the owner's profile, creating the document on
// first write. Reports whether a new profile was created. An insert that
// loses the create race falls back to the update path once.
func (s *Store) UpsertProfile(ctx context.Context, owner primitive.ObjectID, in domain.ProfileInput) (*domain.Profile, bool, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.profile.upsert",
		tracer.Tag("user_id", owner.Hex()),
	)
	defer sp.Finish()

	for attempt := 0; attempt < 2; attempt++ {
		p, err := s.FindProfileByUser(ctx, owner)
		if err != nil {
			sp.SetTag("error", err)
			return nil, false, err
		}

		if p == nil {
			now := time.Now().UTC()
			np := &domain.Profile{
				User:       owner,
				Skills:     []string{},
				Experience: []domain.Experience{},
				Education:  []domain.Education{},
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			in.Apply(np)
			res, err := s.colProfiles.InsertOne(ctx, np)
			if IsDup(err) {
				continue // someone else created it; merge instead
			}
			if err != nil {
				sp.SetTag("error", err)
				return nil, false, err
			}
			if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
				np.ID = oid
			}
			return np, true, nil
		}

		in.Apply(p)
		p.UpdatedAt = time.Now().UTC()
		if err := s.replaceProfile(ctx, p); err != nil {
			sp.SetTag("error", err)
			return nil, false, err
		}
		return p, false, nil
	}
	return nil, false, ErrDuplicate
}

func (s *Store) replaceProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.colProfiles.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	return err
}

// SaveProfile persists a profile mutated in memory (sub-collection edits).
func (s *Store) SaveProfile(ctx context.Context, p *domain.Profile) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.profile.save",
		tracer.Tag("user_id", p.User.Hex()),
	)
	defer sp.Finish()

	p.UpdatedAt = time.Now().UTC()
	err := s.replaceProfile(ctx, p)
	if err != nil {
		sp.SetTag("error", err)
	}
	return err
}

func (s *Store) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	cur, err := s.colProfiles.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Profile
	for cur.Next(ctx) {
		var p domain.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

func (s *Store) DeleteProfileByUser(ctx context.Context, owner primitive.ObjectID) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.profile.delete",
		tracer.Tag("user_id", owner.Hex()),
	)
	defer sp.Finish()

	_, err := s.colProfiles.DeleteOne(ctx, bson.M{"user": owner})
	if err != nil {
		sp.SetTag("error", err)
	}
	return err
}
