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

// ItemDocument is an item type as stored in MongoDB, keyed by SKU.
type ItemDocument struct {
	SKU            string    `bson:"_id" json:"sku"`
	Name           string    `bson:"name,omitempty" json:"name,omitempty"`
	Width          float64   `bson:"width" json:"width"`
	Depth          float64   `bson:"depth" json:"depth"`
	Height         float64   `bson:"height" json:"height"`
	KeepUpright    bool      `bson:"keep_upright" json:"keep_upright"`
	SideMargin     float64   `bson:"side_margin,omitempty" json:"side_margin,omitempty"`
	FrontMargin    float64   `bson:"front_margin,omitempty" json:"front_margin,omitempty"`
	TopMargin      float64   `bson:"top_margin,omitempty" json:"top_margin,omitempty"`
	GapXY          float64   `bson:"gap_xy,omitempty" json:"gap_xy,omitempty"`
	GapZ           float64   `bson:"gap_z,omitempty" json:"gap_z,omitempty"`
	MaxStackLayers int       `bson:"max_stack_layers,omitempty" json:"max_stack_layers,omitempty"`
	UnitWeight     float64   `bson:"unit_weight,omitempty" json:"unit_weight,omitempty"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
	UpdatedBy      string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// NewItemDocument converts a model item into a document.
func NewItemDocument(i model.Item) *ItemDocument {
	return &ItemDocument{
		SKU:            i.SKU,
		Name:           i.Name,
		Width:          i.Width,
		Depth:          i.Depth,
		Height:         i.Height,
		KeepUpright:    i.KeepUpright,
		SideMargin:     i.SideMargin,
		FrontMargin:    i.FrontMargin,
		TopMargin:      i.TopMargin,
		GapXY:          i.GapXY,
		GapZ:           i.GapZ,
		MaxStackLayers: i.MaxStackLayers,
		UnitWeight:     i.UnitWeight,
	}
}

// Model converts the document back into the engine type.
func (d ItemDocument) Model() model.Item {
	return model.Item{
		SKU:            d.SKU,
		Name:           d.Name,
		Width:          d.Width,
		Depth:          d.Depth,
		Height:         d.Height,
		KeepUpright:    d.KeepUpright,
		SideMargin:     d.SideMargin,
		FrontMargin:    d.FrontMargin,
		TopMargin:      d.TopMargin,
		GapXY:          d.GapXY,
		GapZ:           d.GapZ,
		MaxStackLayers: d.MaxStackLayers,
		UnitWeight:     d.UnitWeight,
	}
}

// ItemRepository stores item types.
type ItemRepository struct {
	collection *mongo.Collection
}

// NewItemRepository creates an item repository.
func NewItemRepository(db *MongoDB) *ItemRepository {
	return &ItemRepository{collection: db.Items}
}

// Get returns one item type or ErrNotFound.
func (r *ItemRepository) Get(ctx context.Context, sku string) (*ItemDocument, error) {
	var doc ItemDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": sku}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns item types ordered by SKU.
func (r *ItemRepository) List(ctx context.Context, limit int) ([]ItemDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	docs := []ItemDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Upsert creates or replaces an item type. It reports whether a new document was created.
func (r *ItemRepository) Upsert(ctx context.Context, doc *ItemDocument) (bool, error) {
	doc.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.SKU}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// Delete removes an item type.
func (r *ItemRepository) Delete(ctx context.Context, sku string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": sku})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
