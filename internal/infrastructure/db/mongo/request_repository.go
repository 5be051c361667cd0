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

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

const collectionRequests = "requests"

// RequestRepository implements ports.RequestRepository using MongoDB.
type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

var _ ports.RequestRepository = (*RequestRepository)(nil)

type requestDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CustomerName  string             `bson:"customerName"`
	CustomerPhone string             `bson:"customerPhone"`
	PartName      string             `bson:"partName"`
	CarMake       string             `bson:"carMake"`
	CarModel      string             `bson:"carModel"`
	CarYear       int                `bson:"carYear,omitempty"`
	Notes         string             `bson:"notes,omitempty"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d *requestDoc) toDomain() *domain.Request {
	return &domain.Request{
		ID:            d.ID.Hex(),
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		PartName:      d.PartName,
		CarMake:       d.CarMake,
		CarModel:      d.CarModel,
		CarYear:       d.CarYear,
		Notes:         d.Notes,
		Status:        domain.RequestStatus(d.Status),
		CreatedAt:     d.CreatedAt,
	}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := requestDoc{
		ID:            primitive.NewObjectID(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PartName:      req.PartName,
		CarMake:       req.CarMake,
		CarModel:      req.CarModel,
		CarYear:       req.CarYear,
		Notes:         req.Notes,
		Status:        string(req.Status),
		CreatedAt:     req.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	req.ID = doc.ID.Hex()
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc requestDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RequestRepository) List(ctx context.Context, limit int) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	var docs []requestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}

	reqs := make([]*domain.Request, len(docs))
	for i := range docs {
		reqs[i] = docs[i].toDomain()
	}
	return reqs, nil
}

// UpdateStatus only matches the request while it is still in from. When
// nothing matches, a second lookup tells a vanished request apart from one
// another merchant has already moved.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) (*domain.Request, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrRequestNotFound
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc requestDoc
	err := r.col.FindOneAndUpdate(updateCtx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update request status: %w", err)
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrInvalidTransition
}

func (r *RequestRepository) Count(ctx context.Context, status domain.RequestStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}

func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
