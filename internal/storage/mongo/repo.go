package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"movie_review/internal/domain"
)

// reviewDoc is the stored document shape.
type reviewDoc struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	Title           *string       `bson:"title"`
	Content         *string       `bson:"content"`
	ImageURL        *string       `bson:"image_url"`
	MetaDescription *string       `bson:"meta_description"`
	FocusKeyword    *string       `bson:"focus_keyword"`
	SEOTags         []string      `bson:"seo_tags"`
	CreatedAt       time.Time     `bson:"created_at"`
}

func (d reviewDoc) toDomain() domain.Review {
	tags := d.SEOTags
	if tags == nil {
		tags = []string{}
	}
	return domain.Review{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Content:         d.Content,
		ImageURL:        d.ImageURL,
		MetaDescription: d.MetaDescription,
		FocusKeyword:    d.FocusKeyword,
		SEOTags:         tags,
		CreatedAt:       d.CreatedAt.UTC(),
	}
}

type Repo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri, database, collection string) (*Repo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return New(client, database, collection), nil
}

func New(client *mongo.Client, database, collection string) *Repo {
	return &Repo{client: client, coll: client.Database(database).Collection(collection)}
}

// EnsureIndexes creates the created_at index used by the daily count. Safe to rerun.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetName("created_at_1"),
	})
	return err
}

func (r *Repo) Close(ctx context.Context) error { return r.client.Disconnect(ctx) }

func (r *Repo) Ping(ctx context.Context) error { return r.client.Ping(ctx, readpref.Primary()) }

func (r *Repo) InsertReview(ctx context.Context, nr domain.NewReview) (string, error) {
	tags := nr.SEOTags
	if tags == nil {
		tags = []string{}
	}
	res, err := r.coll.InsertOne(ctx, reviewDoc{
		Title:           nr.Title,
		Content:         nr.Content,
		ImageURL:        nr.ImageURL,
		MetaDescription: nr.MetaDescription,
		FocusKeyword:    nr.FocusKeyword,
		SEOTags:         tags,
		CreatedAt:       nr.CreatedAt.UTC(),
	})
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *Repo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": from.UTC(), "$lt": to.UTC()},
	})
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return domain.Review{}, err
	}
	var d reviewDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	return d.toDomain(), nil
}

// ListReviews returns every review in natural (store) order.
func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
