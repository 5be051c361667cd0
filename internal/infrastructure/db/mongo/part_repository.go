package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

const collectionParts = "parts"

type PartRepository struct {
	col *mongo.Collection
}

func NewPartRepository(db *mongo.Database) *PartRepository {
	return &PartRepository{col: db.Collection(collectionParts)}
}

var _ ports.PartRepository = (*PartRepository)(nil)

type partDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description,omitempty"`
	Category      string             `bson:"category"`
	Price         float64            `bson:"price"`
	ImageURL      string             `bson:"imageUrl,omitempty"`
	CarMake       string             `bson:"carMake"`
	CarModel      string             `bson:"carModel"`
	CarYear       int                `bson:"carYear,omitempty"`
	IsFeatured    bool               `bson:"isFeatured"`
	Status        string             `bson:"status"`
	MerchantID    primitive.ObjectID `bson:"merchantId"`
	MerchantName  string             `bson:"merchantName"`
	MerchantPhone string             `bson:"merchantPhone"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d *partDoc) toDomain() *domain.Part {
	return &domain.Part{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		Category:      d.Category,
		Price:         d.Price,
		ImageURL:      d.ImageURL,
		CarMake:       d.CarMake,
		CarModel:      d.CarModel,
		CarYear:       d.CarYear,
		IsFeatured:    d.IsFeatured,
		Status:        domain.PartStatus(d.Status),
		MerchantID:    d.MerchantID.Hex(),
		MerchantName:  d.MerchantName,
		MerchantPhone: d.MerchantPhone,
		CreatedAt:     d.CreatedAt,
	}
}

func (r *PartRepository) Create(ctx context.Context, p *domain.Part) error {
	merchantID, ok := parseID(p.MerchantID)
	if !ok {
		return fmt.Errorf("create part: invalid merchant id %q", p.MerchantID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := partDoc{
		ID:            primitive.NewObjectID(),
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		ImageURL:      p.ImageURL,
		CarMake:       p.CarMake,
		CarModel:      p.CarModel,
		CarYear:       p.CarYear,
		IsFeatured:    p.IsFeatured,
		Status:        string(p.Status),
		MerchantID:    merchantID,
		MerchantName:  p.MerchantName,
		MerchantPhone: p.MerchantPhone,
		CreatedAt:     p.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert part: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *PartRepository) FindByID(ctx context.Context, id string) (*domain.Part, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrPartNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc partDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPartNotFound
		}
		return nil, fmt.Errorf("find part: %w", err)
	}
	return doc.toDomain(), nil
}

// ownedFilter matches the part only when merchantID owns it.
func ownedFilter(id, merchantID string) (bson.M, bool) {
	oid, ok := parseID(id)
	if !ok {
		return nil, false
	}
	mid, ok := parseID(merchantID)
	if !ok {
		return nil, false
	}
	return bson.M{"_id": oid, "merchantId": mid}, true
}

func changesToSet(c ports.PartChanges) bson.M {
	set := bson.M{}
	if c.Name != nil {
		set["name"] = *c.Name
	}
	if c.Description != nil {
		set["description"] = *c.Description
	}
	if c.Category != nil {
		set["category"] = *c.Category
	}
	if c.Price != nil {
		set["price"] = *c.Price
	}
	if c.ImageURL != nil {
		set["imageUrl"] = *c.ImageURL
	}
	if c.CarMake != nil {
		set["carMake"] = *c.CarMake
	}
	if c.CarModel != nil {
		set["carModel"] = *c.CarModel
	}
	if c.CarYear != nil {
		set["carYear"] = *c.CarYear
	}
	if c.IsFeatured != nil {
		set["isFeatured"] = *c.IsFeatured
	}
	if c.Status != nil {
		set["status"] = string(*c.Status)
	}
	return set
}

func (r *PartRepository) Update(ctx context.Context, id, merchantID string, c ports.PartChanges) (*domain.Part, error) {
	filter, ok := ownedFilter(id, merchantID)
	if !ok {
		return nil, domain.ErrPartNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc partDoc
	err := r.col.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": changesToSet(c)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPartNotFound
		}
		return nil, fmt.Errorf("update part: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PartRepository) Delete(ctx context.Context, id, merchantID string) error {
	filter, ok := ownedFilter(id, merchantID)
	if !ok {
		return domain.ErrPartNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete part: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPartNotFound
	}
	return nil
}

// substring builds a case-insensitive "contains" match. User input is quoted
// so it is never interpreted as a pattern.
func substring(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func listFilter(f ports.PartFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Search != "" {
		rx := substring(f.Search)
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"carMake": rx},
			bson.M{"carModel": rx},
		}
	}
	if f.CarMake != "" {
		filter["carMake"] = substring(f.CarMake)
	}
	if f.CarModel != "" {
		filter["carModel"] = substring(f.CarModel)
	}
	if f.CarYear != 0 {
		filter["carYear"] = f.CarYear
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	return filter
}

func (r *PartRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Part, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find parts: %w", err)
	}
	var docs []partDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode parts: %w", err)
	}

	parts := make([]*domain.Part, len(docs))
	for i := range docs {
		parts[i] = docs[i].toDomain()
	}
	return parts, nil
}

func (r *PartRepository) List(ctx context.Context, f ports.PartFilter) ([]*domain.Part, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "isFeatured", Value: -1},
		{Key: "createdAt", Value: -1},
	})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	return r.find(ctx, listFilter(f), opts)
}

func (r *PartRepository) ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Part, error) {
	mid, ok := parseID(merchantID)
	if !ok {
		return []*domain.Part{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"merchantId": mid}, opts)
}

func (r *PartRepository) Count(ctx context.Context, merchantID string) (int64, error) {
	filter := bson.M{}
	if merchantID != "" {
		mid, ok := parseID(merchantID)
		if !ok {
			return 0, nil
		}
		filter["merchantId"] = mid
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count parts: %w", err)
	}
	return n, nil
}

func (r *PartRepository) DeleteByMerchant(ctx context.Context, merchantID string) (int64, error) {
	mid, ok := parseID(merchantID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"merchantId": mid})
	if err != nil {
		return 0, fmt.Errorf("delete merchant parts: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the indexes backing the public listing and the
// merchant dashboard.
func (r *PartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "isFeatured", Value: -1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "merchantId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
