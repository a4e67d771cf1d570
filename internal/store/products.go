package store

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"amazona/internal/database"
	"amazona/internal/models"
	"amazona/internal/search"
)

type ProductRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(database.ProductsCollection), now: time.Now}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := r.now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}

	_, err := r.coll.InsertOne(ctx, p)
	return wrap(err, "insert product")
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "find product")
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, "find product by slug")
}

// FindByIDs returns the products among ids that exist, in no particular order.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find(), "find products")
}

// Update persists the editable catalogue fields of p. Reviews and the
// rating they drive are left alone.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = r.now().UTC()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":          p.Name,
		"slug":          p.Slug,
		"category":      p.Category,
		"brand":         p.Brand,
		"image":         p.Image,
		"isFeatured":    p.IsFeatured,
		"featuredImage": p.FeaturedImage,
		"price":         p.Price,
		"countInStock":  p.CountInStock,
		"description":   p.Description,
		"updatedAt":     p.UpdatedAt,
	}})
	if err != nil {
		return wrap(err, "update product")
	}
	if res.MatchedCount == 0 {
		return wrap(mongo.ErrNoDocuments, "update product")
	}
	return nil
}

// SaveReviews replaces the review list together with its aggregates.
func (r *ProductRepository) SaveReviews(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = r.now().UTC()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"reviews":    p.Reviews,
		"rating":     p.Rating,
		"numReviews": p.NumReviews,
		"updatedAt":  p.UpdatedAt,
	}})
	if err != nil {
		return wrap(err, "save reviews")
	}
	if res.MatchedCount == 0 {
		return wrap(mongo.ErrNoDocuments, "save reviews")
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return wrap(mongo.ErrNoDocuments, "delete product")
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}), "list products")
}

func (r *ProductRepository) Featured(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.M{"isFeatured": true}, opts, "list featured products")
}

func (r *ProductRepository) Latest(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"reviews": 0})
	return r.find(ctx, bson.M{}, opts, "list latest products")
}

// Search runs q and counts every match ignoring the page window.
func (r *ProductRepository) Search(ctx context.Context, q search.Query) ([]models.Product, int64, error) {
	opts := options.Find().
		SetSort(q.Sort).
		SetSkip(q.Skip).
		SetLimit(q.Limit).
		SetProjection(bson.M{"reviews": 0})

	products, err := r.find(ctx, q.Filter, opts, "search products")
	if err != nil {
		return nil, 0, err
	}

	count, err := r.coll.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, wrap(err, "count search results")
	}
	return products, count, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

func (r *ProductRepository) Brands(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "brand")
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return n, wrap(err, "count products")
}

// ReplaceAll drops the catalogue and inserts products as given.
func (r *ProductRepository) ReplaceAll(ctx context.Context, products []models.Product) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return wrap(err, "clear products")
	}
	if len(products) == 0 {
		return nil
	}

	now := r.now().UTC()
	docs := make([]interface{}, 0, len(products))
	for i := range products {
		p := &products[i]
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		if p.Reviews == nil {
			p.Reviews = []models.Review{}
		}
		p.CreatedAt = now
		p.UpdatedAt = now
		docs = append(docs, p)
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return wrap(err, "insert products")
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.M, msg string) (*models.Product, error) {
	var p models.Product
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, wrap(err, msg)
	}
	return &p, nil
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions, msg string) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap(err, msg)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, wrap(err, msg)
	}
	return products, nil
}

func (r *ProductRepository) distinct(ctx context.Context, field string) ([]string, error) {
	values, err := r.coll.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, wrap(err, "distinct "+field)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}
