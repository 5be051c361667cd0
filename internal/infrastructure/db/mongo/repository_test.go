package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

func TestListFilter(t *testing.T) {
	f := listFilter(ports.PartFilter{
		Search:   "a.b",
		CarYear:  2015,
		Category: "engine",
		Status:   domain.PartAvailable,
	})

	if f["status"] != "available" {
		t.Fatalf("expected status filter, got %v", f["status"])
	}
	if f["carYear"] != 2015 || f["category"] != "engine" {
		t.Fatalf("unexpected exact filters: %v", f)
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 3 {
		t.Fatalf("expected $or over three fields, got %v", f["$or"])
	}
	rx := or[0].(bson.M)["name"].(primitive.Regex)
	if rx.Pattern != `a\.b` || rx.Options != "i" {
		t.Fatalf("search must be quoted and case-insensitive, got %+v", rx)
	}
	if _, ok := f["carMake"]; ok {
		t.Fatal("empty carMake must not filter")
	}
}

func TestChangesToSet(t *testing.T) {
	price := 10.5
	sold := domain.PartSold
	set := changesToSet(ports.PartChanges{Price: &price, Status: &sold})

	if len(set) != 2 || set["price"] != 10.5 || set["status"] != "sold" {
		t.Fatalf("unexpected $set: %v", set)
	}
}

func TestOwnedFilter_Malformed(t *testing.T) {
	if _, ok := ownedFilter("not-hex", primitive.NewObjectID().Hex()); ok {
		t.Fatal("malformed part id must not build a filter")
	}
	if _, ok := ownedFilter(primitive.NewObjectID().Hex(), "bad"); ok {
		t.Fatal("malformed merchant id must not build a filter")
	}
}

func TestUserRepository_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := repo.Create(context.Background(), &domain.User{Email: "a@example.com"})
		if err != domain.ErrUserExists {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "a@example.com"},
			{Key: "role", Value: "merchant"},
			{Key: "isApproved", Value: true},
			{Key: "createdAt", Value: time.Now().UTC()},
		}))

		u, err := repo.FindByEmail(context.Background(), "a@example.com")
		if err != nil {
			mt.Fatalf("FindByEmail returned error: %v", err)
		}
		if u.ID != id.Hex() || !u.IsApproved || u.Role != domain.RoleMerchant {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex()); err != domain.ErrUserNotFound {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("malformed id is not found without a query", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		if _, err := repo.FindByID(context.Background(), "xyz"); err != domain.ErrUserNotFound {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestPartRepository_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("delete not owned", func(mt *mtest.T) {
		repo := &PartRepository{col: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		if err != domain.ErrPartNotFound {
			mt.Fatalf("expected ErrPartNotFound, got %v", err)
		}
	})

	mt.Run("delete by merchant", func(mt *mtest.T) {
		repo := &PartRepository{col: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 4}})

		n, err := repo.DeleteByMerchant(context.Background(), primitive.NewObjectID().Hex())
		if err != nil {
			mt.Fatalf("DeleteByMerchant returned error: %v", err)
		}
		if n != 4 {
			mt.Fatalf("expected 4 deleted, got %d", n)
		}
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		repo := &PartRepository{col: mt.Coll}
		id, merchant := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "name", Value: "Brake pad"},
				{Key: "price", Value: 99.0},
				{Key: "status", Value: "reserved"},
				{Key: "merchantId", Value: merchant},
			}},
		})

		price := 99.0
		p, err := repo.Update(context.Background(), id.Hex(), merchant.Hex(), ports.PartChanges{Price: &price})
		if err != nil {
			mt.Fatalf("Update returned error: %v", err)
		}
		if p.Price != 99 || p.Status != domain.PartReserved || p.MerchantID != merchant.Hex() {
			mt.Fatalf("unexpected part: %+v", p)
		}
	})
}

func TestRequestRepository_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := &RequestRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		req := &domain.Request{PartName: "Radiator", Status: domain.RequestNew}
		if err := repo.Create(context.Background(), req); err != nil {
			mt.Fatalf("Create returned error: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(req.ID); err != nil {
			mt.Fatalf("expected hex object id, got %q", req.ID)
		}
	})

	mt.Run("update status missing", func(mt *mtest.T) {
		repo := &RequestRepository{col: mt.Coll}
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, "test.requests", mtest.FirstBatch),
		)

		_, err := repo.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), domain.RequestNew, domain.RequestDone)
		if err != domain.ErrRequestNotFound {
			mt.Fatalf("expected ErrRequestNotFound, got %v", err)
		}
	})

	mt.Run("update status moved by someone else", func(mt *mtest.T) {
		repo := &RequestRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, "test.requests", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "partName", Value: "Radiator"},
				{Key: "status", Value: "done"},
			}),
		)

		_, err := repo.UpdateStatus(context.Background(), id.Hex(), domain.RequestNew, domain.RequestProcessing)
		if err != domain.ErrInvalidTransition {
			mt.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	mt.Run("update status filters on the current status", func(mt *mtest.T) {
		repo := &RequestRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "status", Value: "processing"},
			}},
		})

		req, err := repo.UpdateStatus(context.Background(), id.Hex(), domain.RequestNew, domain.RequestProcessing)
		if err != nil {
			mt.Fatalf("UpdateStatus returned error: %v", err)
		}
		if req.Status != domain.RequestProcessing {
			mt.Fatalf("unexpected status %s", req.Status)
		}

		query := mt.GetStartedEvent().Command.Lookup("query").Document()
		if got := query.Lookup("status").StringValue(); got != "new" {
			mt.Fatalf("expected update filtered on status new, got %q", got)
		}
	})

	mt.Run("count pending merchants excludes the admin", func(mt *mtest.T) {
		users := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}))

		pending, notAdmin := false, false
		n, err := users.Count(context.Background(), ports.UserCountFilter{Role: domain.RoleMerchant, Approved: &pending, Admin: &notAdmin})
		if err != nil {
			mt.Fatalf("Count returned error: %v", err)
		}
		if n != 2 {
			mt.Fatalf("expected 2, got %d", n)
		}
		pipeline, err := mt.GetStartedEvent().Command.Lookup("pipeline").Array().Values()
		if err != nil || len(pipeline) == 0 {
			mt.Fatalf("expected an aggregate pipeline: %v", err)
		}
		match := pipeline[0].Document().Lookup("$match").Document()
		if _, err := match.LookupErr("isAdmin", "$ne"); err != nil {
			mt.Fatalf("expected isAdmin $ne filter, got %s", match)
		}
	})
}
