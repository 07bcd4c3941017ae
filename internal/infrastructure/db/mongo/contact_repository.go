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

const contactCollection = "contactforms"

// ContactRepository stores contact form submissions. Documents are never updated.
type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection(contactCollection)}
}

type mongoSubmission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FullName    string             `bson:"fullName"`
	Email       string             `bson:"email"`
	Mobile      string             `bson:"mobile"`
	City        string             `bson:"city"`
	SubmittedAt time.Time          `bson:"submittedAt"`
}

func (d mongoSubmission) toDomain() *domain.ContactSubmission {
	return &domain.ContactSubmission{
		ID:          d.ID.Hex(),
		FullName:    d.FullName,
		Email:       d.Email,
		Mobile:      d.Mobile,
		City:        d.City,
		SubmittedAt: d.SubmittedAt.UTC(),
	}
}

func (r *ContactRepository) Create(ctx context.Context, s *domain.ContactSubmission) (*domain.ContactSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSubmission{
		FullName:    s.FullName,
		Email:       s.Email,
		Mobile:      s.Mobile,
		City:        s.City,
		SubmittedAt: s.SubmittedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert contact submission: %w", err)
	}
	doc.ID = insertedID(res)
	return doc.toDomain(), nil
}

func (r *ContactRepository) List(ctx context.Context) ([]*domain.ContactSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, newestFirst("submittedAt"))
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	var docs []mongoSubmission
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contact submissions: %w", err)
	}

	out := make([]*domain.ContactSubmission, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoSubmission
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("find contact submission: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrSubmissionNotFound)
}
