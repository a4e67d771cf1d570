// Package search turns storefront query-string filters into a MongoDB
// filter, sort order and page window.
package search

import (
	"errors"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultPageSize int64 = 3
	MaxPageSize     int64 = 100
	all                   = "all"
)

var ErrInvalidPrice = errors.New("price must be a min-max range")

// Sort keys accepted by the search page.
const (
	SortFeatured = "featured"
	SortLowest   = "lowest"
	SortHighest  = "highest"
	SortTopRated = "toprated"
	SortNewest   = "newest"
)

type Params struct {
	Query    string
	Category string
	Brand    string
	Price    string
	Rating   string
	Sort     string
	Page     int64
	PageSize int64
}

// Query is the database-facing form of Params.
type Query struct {
	Filter   bson.M
	Sort     bson.D
	Skip     int64
	Limit    int64
	Page     int64
	PageSize int64
}

// ParseParams reads the filters from a request's query string. Both
// "query" and "searchQuery" name the free-text filter. A page or pageSize
// that is not a positive integer falls back to its default.
func ParseParams(values url.Values) Params {
	p := Params{
		Query:    firstNonEmpty(values.Get("query"), values.Get("searchQuery")),
		Category: strings.TrimSpace(values.Get("category")),
		Brand:    strings.TrimSpace(values.Get("brand")),
		Price:    strings.TrimSpace(values.Get("price")),
		Rating:   strings.TrimSpace(values.Get("rating")),
		Sort:     strings.TrimSpace(values.Get("sort")),
		Page:     positiveInt(values.Get("page"), 1),
		PageSize: positiveInt(values.Get("pageSize"), DefaultPageSize),
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func positiveInt(raw string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func Build(p Params) (Query, error) {
	filter := bson.M{}

	if isSet(p.Query) {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(p.Query), "$options": "i"}
	}
	if isSet(p.Category) {
		filter["category"] = p.Category
	}
	if isSet(p.Brand) {
		filter["brand"] = p.Brand
	}
	if isSet(p.Price) {
		from, to, err := parsePriceRange(p.Price)
		if err != nil {
			return Query{}, err
		}
		filter["price"] = bson.M{"$gte": from, "$lte": to}
	}
	if isSet(p.Rating) {
		rating, err := strconv.ParseFloat(p.Rating, 64)
		if err != nil || math.IsNaN(rating) {
			// An unreadable rating matches nothing.
			filter["rating"] = bson.M{"$in": bson.A{}}
		} else {
			filter["rating"] = bson.M{"$gte": rating}
		}
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize
	if size < 1 {
		size = DefaultPageSize
	}

	return Query{
		Filter:   filter,
		Sort:     SortOrder(p.Sort),
		Skip:     (page - 1) * size,
		Limit:    size,
		Page:     page,
		PageSize: size,
	}, nil
}

// SortOrder maps a sort key to its field order. Unknown keys sort newest
// documents first by id.
func SortOrder(key string) bson.D {
	switch key {
	case SortFeatured:
		return bson.D{{Key: "isFeatured", Value: -1}, {Key: "_id", Value: -1}}
	case SortLowest:
		return bson.D{{Key: "price", Value: 1}}
	case SortHighest:
		return bson.D{{Key: "price", Value: -1}}
	case SortTopRated:
		return bson.D{{Key: "rating", Value: -1}}
	case SortNewest:
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: -1}}
	}
}

// Pages is the number of pages needed for count results.
func Pages(count, pageSize int64) int64 {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

func parsePriceRange(raw string) (float64, float64, error) {
	lo, hi, ok := strings.Cut(raw, "-")
	if !ok {
		return 0, 0, ErrInvalidPrice
	}
	from, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return 0, 0, ErrInvalidPrice
	}
	to, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return 0, 0, ErrInvalidPrice
	}
	return from, to, nil
}

func isSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != all
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
