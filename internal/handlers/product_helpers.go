package handlers

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"amazona/internal/cart"
	"amazona/internal/models"
)

// sampleProduct is the placeholder the admin "create" button inserts and
// then edits in place.
func sampleProduct(now time.Time) *models.Product {
	return &models.Product{
		Name:         "sample name",
		Slug:         fmt.Sprintf("sample-name-%d", now.UnixNano()),
		Image:        "/images/shirt1.jpg",
		Price:        0,
		Category:     "sample category",
		Brand:        "sample brand",
		CountInStock: 0,
		Rating:       0,
		NumReviews:   0,
		Description:  "sample description",
		Reviews:      []models.Review{},
	}
}

// applyReview stores review as userID's only review on p and recomputes
// the rating aggregates. It reports whether an earlier review was replaced.
func applyReview(p *models.Product, userID primitive.ObjectID, name string, rating int, comment string, now time.Time) bool {
	replaced := false
	for i := range p.Reviews {
		if p.Reviews[i].User == userID {
			p.Reviews[i].Name = name
			p.Reviews[i].Rating = rating
			p.Reviews[i].Comment = comment
			p.Reviews[i].UpdatedAt = now
			replaced = true
			break
		}
	}
	if !replaced {
		p.Reviews = append(p.Reviews, models.Review{
			ID:        primitive.NewObjectID(),
			User:      userID,
			Name:      name,
			Rating:    rating,
			Comment:   comment,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	total := 0
	for _, r := range p.Reviews {
		total += r.Rating
	}
	p.NumReviews = len(p.Reviews)
	p.Rating = 0
	if p.NumReviews > 0 {
		p.Rating = math.Round(float64(total)/float64(p.NumReviews)*10) / 10
	}
	return replaced
}

func cartItemFromProduct(p *models.Product, qty int) cart.Item {
	return cart.Item{
		ID:           p.ID.Hex(),
		Name:         p.Name,
		Slug:         p.Slug,
		Image:        p.Image,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		Quantity:     qty,
	}
}
