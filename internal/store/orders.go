package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"amazona/internal/database"
	"amazona/internal/models"
)

type OrderRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(database.OrdersCollection), now: time.Now}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	now := r.now().UTC()
	o.ID = primitive.NewObjectID()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, o)
	return wrap(err, "insert order")
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, wrap(err, "find order")
	}
	return &o, nil
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, wrap(err, "list user orders")
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, wrap(err, "decode orders")
	}
	return orders, nil
}

// ListWithUsers returns every order with the owner's name joined in.
func (r *OrderRepository) ListWithUsers(ctx context.Context) ([]models.AdminOrder, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.UsersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "userInfo"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$userInfo"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "userInfo.password", Value: 0},
			{Key: "userInfo.email", Value: 0},
			{Key: "userInfo.isAdmin", Value: 0},
			{Key: "userInfo.createdAt", Value: 0},
			{Key: "userInfo.updatedAt", Value: 0},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrap(err, "list orders")
	}
	defer cursor.Close(ctx)

	orders := make([]models.AdminOrder, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, wrap(err, "decode orders")
	}
	return orders, nil
}

// MarkPaid flips an unpaid order to paid. An order that is already paid
// is reported as ErrNotFound so concurrent captures cannot both win.
func (r *OrderRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error) {
	now := r.now().UTC()
	return r.findAndUpdate(ctx,
		bson.M{"_id": id, "isPaid": false},
		bson.M{"$set": bson.M{
			"isPaid":        true,
			"paidAt":        now,
			"paymentResult": result,
			"updatedAt":     now,
		}},
		"mark order paid",
	)
}

// MarkDelivered flips a paid order to delivered.
func (r *OrderRepository) MarkDelivered(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	now := r.now().UTC()
	return r.findAndUpdate(ctx,
		bson.M{"_id": id, "isPaid": true},
		bson.M{"$set": bson.M{
			"isDelivered": true,
			"deliveredAt": now,
			"updatedAt":   now,
		}},
		"mark order delivered",
	)
}

func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "delete order")
	}
	if res.DeletedCount == 0 {
		return wrap(mongo.ErrNoDocuments, "delete order")
	}
	return nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return n, wrap(err, "count orders")
}

// SalesTotal sums totalPrice over every order.
func (r *OrderRepository) SalesTotal(ctx context.Context) (float64, error) {
	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "sales", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
		}}},
	})
	if err != nil {
		return 0, wrap(err, "sum sales")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Sales float64 `bson:"sales"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, wrap(err, "decode sales")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Sales, nil
}

// MonthlySales groups totalPrice by YYYY-MM of createdAt, oldest month first.
func (r *OrderRepository) MonthlySales(ctx context.Context) ([]models.SalesPoint, error) {
	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m"},
				{Key: "date", Value: "$createdAt"},
			}}}},
			{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, wrap(err, "group monthly sales")
	}
	defer cursor.Close(ctx)

	points := make([]models.SalesPoint, 0)
	if err := cursor.All(ctx, &points); err != nil {
		return nil, wrap(err, "decode monthly sales")
	}
	return points, nil
}

func (r *OrderRepository) findAndUpdate(ctx context.Context, filter, update bson.M, msg string) (*models.Order, error) {
	var o models.Order
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		return nil, wrap(err, msg)
	}
	return &o, nil
}
