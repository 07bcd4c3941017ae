package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
)

const clientsCollection = "clients"

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(clientsCollection)}
}

type mongoClient struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Image       string             `bson:"image"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Designation string             `bson:"designation"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d mongoClient) toDomain() *domain.Client {
	return &domain.Client{
		ID:          d.ID.Hex(),
		Image:       d.Image,
		Name:        d.Name,
		Description: d.Description,
		Designation: d.Designation,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoClient{
		Image:       c.Image,
		Name:        c.Name,
		Description: c.Description,
		Designation: c.Designation,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	doc.ID = insertedID(res)
	return doc.toDomain(), nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, newestFirst("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	var docs []mongoClient
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}

	out := make([]*domain.Client, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoClient
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) Update(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": patch.UpdatedAt}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Designation != nil {
		set["designation"] = *patch.Designation
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoClient
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("update client: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrClientNotFound)
}
