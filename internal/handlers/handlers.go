// Package handlers implements the storefront, checkout and admin HTTP
// routes. Each exported method returns the gin.HandlerFunc mounted by the
// server package.
package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"amazona/internal/auth"
	"amazona/internal/cart"
	"amazona/internal/models"
	"amazona/internal/search"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	SaveReviews(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.Product, error)
	Featured(ctx context.Context, limit int64) ([]models.Product, error)
	Latest(ctx context.Context, limit int64) ([]models.Product, error)
	Search(ctx context.Context, q search.Query) ([]models.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListWithUsers(ctx context.Context) ([]models.AdminOrder, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Summarizer interface {
	Summary(ctx context.Context) (*models.Summary, error)
}

type Options struct {
	Users    UserStore
	Products ProductStore
	Orders   OrderStore
	Summary  Summarizer

	Issuer  *auth.Issuer
	Cookies cart.Cookies
	Logger  *zap.Logger

	PayPalClientID string
	GoogleAPIKey   string
	UploadDir      string

	// Ping reports database health for /healthz.
	Ping func(ctx context.Context) error
}

type Handlers struct {
	users    UserStore
	products ProductStore
	orders   OrderStore
	summary  Summarizer

	issuer  *auth.Issuer
	cookies cart.Cookies
	log     *zap.Logger

	paypalClientID string
	googleAPIKey   string
	uploads        uploadStorage

	ping func(ctx context.Context) error
}

func New(opts Options) *Handlers {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ping := opts.Ping
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}

	return &Handlers{
		users:          opts.Users,
		products:       opts.Products,
		orders:         opts.Orders,
		summary:        opts.Summary,
		issuer:         opts.Issuer,
		cookies:        opts.Cookies,
		log:            log,
		paypalClientID: opts.PayPalClientID,
		googleAPIKey:   opts.GoogleAPIKey,
		uploads:        uploadStorage{root: opts.UploadDir},
		ping:           ping,
	}
}
