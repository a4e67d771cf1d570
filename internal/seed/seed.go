// Package seed loads the sample catalogue and accounts into an empty
// database.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"amazona/internal/auth"
	"amazona/internal/models"
)

//go:embed seed.yaml
var defaultData []byte

type userRecord struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	IsAdmin  bool   `yaml:"isAdmin"`
}

type productRecord struct {
	Name          string  `yaml:"name"`
	Slug          string  `yaml:"slug"`
	Category      string  `yaml:"category"`
	Brand         string  `yaml:"brand"`
	Image         string  `yaml:"image"`
	IsFeatured    bool    `yaml:"isFeatured"`
	FeaturedImage string  `yaml:"featuredImage"`
	Price         float64 `yaml:"price"`
	Rating        float64 `yaml:"rating"`
	NumReviews    int     `yaml:"numReviews"`
	CountInStock  int     `yaml:"countInStock"`
	Description   string  `yaml:"description"`
}

type document struct {
	Users    []userRecord    `yaml:"users"`
	Products []productRecord `yaml:"products"`
}

type Data struct {
	Users    []models.User
	Products []models.Product
}

type UserWriter interface {
	ReplaceAll(ctx context.Context, users []models.User) error
}

type ProductWriter interface {
	ReplaceAll(ctx context.Context, products []models.Product) error
}

// Default returns the embedded sample data with passwords hashed.
func Default() (*Data, error) {
	return Parse(defaultData)
}

// Parse decodes a seed document. Plaintext passwords are bcrypt-hashed.
func Parse(raw []byte) (*Data, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}

	data := &Data{
		Users:    make([]models.User, 0, len(doc.Users)),
		Products: make([]models.Product, 0, len(doc.Products)),
	}

	for _, u := range doc.Users {
		if u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("seed user %q needs an email and a password", u.Name)
		}
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		data.Users = append(data.Users, models.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: hash,
			IsAdmin:      u.IsAdmin,
		})
	}

	slugs := make(map[string]struct{}, len(doc.Products))
	for _, p := range doc.Products {
		if p.Slug == "" {
			return nil, fmt.Errorf("seed product %q has no slug", p.Name)
		}
		if _, dup := slugs[p.Slug]; dup {
			return nil, fmt.Errorf("seed product slug %q is repeated", p.Slug)
		}
		slugs[p.Slug] = struct{}{}

		data.Products = append(data.Products, models.Product{
			Name:          p.Name,
			Slug:          p.Slug,
			Category:      p.Category,
			Brand:         p.Brand,
			Image:         p.Image,
			IsFeatured:    p.IsFeatured,
			FeaturedImage: p.FeaturedImage,
			Price:         p.Price,
			Rating:        p.Rating,
			NumReviews:    p.NumReviews,
			CountInStock:  p.CountInStock,
			Description:   p.Description,
			Reviews:       []models.Review{},
		})
	}

	return data, nil
}

// Run wipes users and products and inserts data.
func Run(ctx context.Context, users UserWriter, products ProductWriter, data *Data, log *zap.Logger) error {
	if err := users.ReplaceAll(ctx, data.Users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Info("users seeded", zap.Int("count", len(data.Users)))

	if err := products.ReplaceAll(ctx, data.Products); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	log.Info("products seeded", zap.Int("count", len(data.Products)))

	return nil
}
