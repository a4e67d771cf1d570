package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	OrdersCollection   = "orders"
)

// EnsureIndexes creates every index the storefront relies on. Failures are
// logged and the first one is returned; later indexes are still attempted.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var firstErr error
	for _, ensure := range []func(context.Context, *mongo.Database, *zap.Logger) error{
		EnsureUserIndexes,
		EnsureProductIndexes,
		EnsureOrderIndexes,
	} {
		if err := ensure(ctx, db, log); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func EnsureUserIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return createIndex(ctx, db, log, UsersCollection, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	})
}

func EnsureProductIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	if err := createIndex(ctx, db, log, ProductsCollection, mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("slug_unique").
			SetUnique(true),
	}); err != nil {
		return err
	}

	return createIndex(ctx, db, log, ProductsCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "brand", Value: 1}},
		Options: options.Index().SetName("category_brand_index"),
	})
}

func EnsureOrderIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return createIndex(ctx, db, log, OrdersCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetName("user_index"),
	})
}

func createIndex(ctx context.Context, db *mongo.Database, log *zap.Logger, collection string, model mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	name := ""
	if model.Options != nil && model.Options.Name != nil {
		name = *model.Options.Name
	}

	log.Debug("creating index", zap.String("collection", collection), zap.String("index", name))
	if _, err := db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
		log.Warn("index creation failed",
			zap.String("collection", collection),
			zap.String("index", name),
			zap.Error(err),
		)
		return err
	}
	log.Info("index ready", zap.String("collection", collection), zap.String("index", name))
	return nil
}
