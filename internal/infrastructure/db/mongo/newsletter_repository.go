package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

const newsletterCollection = "newsletters"

type NewsletterRepository struct {
	col *mongo.Collection
}

func NewNewsletterRepository(db *mongo.Database) *NewsletterRepository {
	return &NewsletterRepository{col: db.Collection(newsletterCollection)}
}

type mongoSubscriber struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	SubscribedAt time.Time          `bson:"subscribedAt"`
}

func (d mongoSubscriber) toDomain() *domain.Subscriber {
	return &domain.Subscriber{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		SubscribedAt: d.SubscribedAt.UTC(),
	}
}

// Create inserts a subscriber; a unique-index violation maps to
// domain.ErrEmailSubscribed.
func (r *NewsletterRepository) Create(ctx context.Context, s *domain.Subscriber) (*domain.Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSubscriber{
		Email:        domain.NormalizeEmail(s.Email),
		SubscribedAt: s.SubscribedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailSubscribed
		}
		return nil, fmt.Errorf("insert subscriber: %w", err)
	}
	doc.ID = insertedID(res)
	return doc.toDomain(), nil
}

func (r *NewsletterRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoSubscriber
	err := r.col.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *NewsletterRepository) List(ctx context.Context) ([]*domain.Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, newestFirst("subscribedAt"))
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	var docs []mongoSubscriber
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode subscribers: %w", err)
	}

	out := make([]*domain.Subscriber, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *NewsletterRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrSubscriberNotFound)
}

// EnsureIndexes creates the unique email index that backs subscription uniqueness.
func (r *NewsletterRepository) EnsureIndexes(ctx context.Context) error {
	return ensureUniqueIndex(ctx, r.col, "email")
}
