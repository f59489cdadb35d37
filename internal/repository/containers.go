package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// ContainerDocument is a container type as stored in MongoDB.
type ContainerDocument struct {
	ID          int       `bson:"_id" json:"id"`
	Name        string    `bson:"name,omitempty" json:"name,omitempty"`
	InnerWidth  float64   `bson:"inner_width" json:"inner_width"`
	InnerDepth  float64   `bson:"inner_depth" json:"inner_depth"`
	InnerHeight float64   `bson:"inner_height" json:"inner_height"`
	MaxWeight   float64   `bson:"max_weight,omitempty" json:"max_weight,omitempty"`
	OwnWeight   float64   `bson:"own_weight,omitempty" json:"own_weight,omitempty"`
	Version     int       `bson:"version" json:"version"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
	UpdatedBy   string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// NewContainerDocument converts a model container into a document.
func NewContainerDocument(c model.Container) *ContainerDocument {
	return &ContainerDocument{
		ID:          c.ID,
		Name:        c.Name,
		InnerWidth:  c.InnerWidth,
		InnerDepth:  c.InnerDepth,
		InnerHeight: c.InnerHeight,
		MaxWeight:   c.MaxWeight,
		OwnWeight:   c.OwnWeight,
	}
}

// Model converts the document back into the engine type.
func (d ContainerDocument) Model() model.Container {
	return model.Container{
		ID:          d.ID,
		Name:        d.Name,
		InnerWidth:  d.InnerWidth,
		InnerDepth:  d.InnerDepth,
		InnerHeight: d.InnerHeight,
		MaxWeight:   d.MaxWeight,
		OwnWeight:   d.OwnWeight,
	}
}

// ContainerRepository stores container types.
type ContainerRepository struct {
	collection *mongo.Collection
}

// NewContainerRepository creates a container repository.
func NewContainerRepository(db *MongoDB) *ContainerRepository {
	return &ContainerRepository{collection: db.Containers}
}

// Get returns one container type or ErrNotFound.
func (r *ContainerRepository) Get(ctx context.Context, id int) (*ContainerDocument, error) {
	var doc ContainerDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetMany returns the container types with the given ids, in id order.
func (r *ContainerRepository) GetMany(ctx context.Context, ids []int) ([]ContainerDocument, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, 0)
}

// List returns container types ordered by id.
func (r *ContainerRepository) List(ctx context.Context, limit int) ([]ContainerDocument, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *ContainerRepository) find(ctx context.Context, filter bson.M, limit int) ([]ContainerDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	docs := []ContainerDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Create inserts a new container type, failing with ErrDuplicate when the id is taken.
func (r *ContainerRepository) Create(ctx context.Context, doc *ContainerDocument) error {
	now := time.Now().UTC()
	doc.Version = 1
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces the dimensions of an existing container type and bumps its version.
func (r *ContainerRepository) Update(ctx context.Context, doc *ContainerDocument) (*ContainerDocument, error) {
	update := bson.M{
		"$set": bson.M{
			"name":         doc.Name,
			"inner_width":  doc.InnerWidth,
			"inner_depth":  doc.InnerDepth,
			"inner_height": doc.InnerHeight,
			"max_weight":   doc.MaxWeight,
			"own_weight":   doc.OwnWeight,
			"updated_at":   time.Now().UTC(),
			"updated_by":   doc.UpdatedBy,
		},
		"$inc": bson.M{"version": 1},
	}

	var updated ContainerDocument
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": doc.ID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a container type.
func (r *ContainerRepository) Delete(ctx context.Context, id int) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
