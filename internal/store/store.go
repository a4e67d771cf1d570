// Package store is the MongoDB data access layer. Every repository method
// takes the caller's context; missing documents come back as ErrNotFound
// and unique index violations as ErrDuplicate.
package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"amazona/internal/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Store groups the repositories sharing one database handle.
type Store struct {
	Users    *UserRepository
	Products *ProductRepository
	Orders   *OrderRepository
}

func New(db *mongo.Database) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
		Orders:   NewOrderRepository(db),
	}
}

// Summary aggregates the dashboard figures across collections.
func (s *Store) Summary(ctx context.Context) (*models.Summary, error) {
	orders, err := s.Orders.Count(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.Products.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.Orders.SalesTotal(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := s.Orders.MonthlySales(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Summary{
		OrdersCount:   orders,
		ProductsCount: products,
		UsersCount:    users,
		OrdersPrice:   sales,
		SalesData:     monthly,
	}, nil
}

// wrap maps driver errors onto the package sentinels.
func wrap(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return errors.Wrap(ErrNotFound, msg)
	case mongo.IsDuplicateKeyError(err):
		return errors.Wrap(ErrDuplicate, msg)
	default:
		return errors.Wrap(err, msg)
	}
}
