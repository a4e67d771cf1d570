package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"amazona/internal/database"
	"amazona/internal/models"
)

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(database.UsersCollection), now: time.Now}
}

// Create inserts u, filling its id and timestamps. Emails are stored
// lower-cased so the unique index is case-insensitive in practice.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := r.now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = normalizeEmail(u.Email)
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, u)
	return wrap(err, "insert user")
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, wrap(err, "find user")
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u); err != nil {
		return nil, wrap(err, "find user by email")
	}
	return &u, nil
}

// Update persists the mutable fields of u and refreshes UpdatedAt.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	u.UpdatedAt = r.now().UTC()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"name":      u.Name,
		"email":     u.Email,
		"password":  u.PasswordHash,
		"isAdmin":   u.IsAdmin,
		"updatedAt": u.UpdatedAt,
	}})
	if err != nil {
		return wrap(err, "update user")
	}
	if res.MatchedCount == 0 {
		return wrap(mongo.ErrNoDocuments, "update user")
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, wrap(err, "list users")
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, wrap(err, "decode users")
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "delete user")
	}
	if res.DeletedCount == 0 {
		return wrap(mongo.ErrNoDocuments, "delete user")
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return n, wrap(err, "count users")
}

// ReplaceAll drops every user and inserts users as given.
func (r *UserRepository) ReplaceAll(ctx context.Context, users []models.User) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return wrap(err, "clear users")
	}
	if len(users) == 0 {
		return nil
	}

	now := r.now().UTC()
	docs := make([]interface{}, 0, len(users))
	for i := range users {
		u := &users[i]
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		u.Email = normalizeEmail(u.Email)
		u.CreatedAt = now
		u.UpdatedAt = now
		docs = append(docs, u)
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return wrap(err, "insert users")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
