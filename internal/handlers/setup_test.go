package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"amazona/internal/auth"
	"amazona/internal/middleware"
	"amazona/internal/models"
	"amazona/internal/web"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t        *testing.T
	router   *gin.Engine
	issuer   *auth.Issuer
	users    *memUsers
	products *memProducts
	orders   *memOrders
	summary  *mockSummarizer
	uploads  string
	// jar holds the cookies set by previous responses.
	jar      map[string]*http.Cookie
}

func newTestEnv(t *testing.T, products ...models.Product) *testEnv {
	t.Helper()

	env := &testEnv{
		t:        t,
		issuer:   auth.NewIssuer(testSecret, time.Hour),
		users:    newMemUsers(),
		products: newMemProducts(products...),
		orders:   newMemOrders(),
		summary:  &mockSummarizer{},
		uploads:  t.TempDir(),
		jar:      map[string]*http.Cookie{},
	}
	env.orders.users = env.users

	h := New(Options{
		Users:          env.users,
		Products:       env.products,
		Orders:         env.orders,
		Summary:        env.summary,
		Issuer:         env.issuer,
		Logger:         zap.NewNop(),
		PayPalClientID: "sb",
		GoogleAPIKey:   "maps-key",
		UploadDir:      env.uploads,
	})

	tmpl, err := web.Templates()
	require.NoError(t, err)

	log := zap.NewNop()
	isAuth := middleware.IsAuth(env.issuer, log)
	isAdmin := middleware.IsAdmin(log)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/healthz", h.Health())
	r.GET("/", h.HomePage())
	r.GET("/product/:slug", h.ProductPage())
	r.GET("/search", h.SearchPage())

	r.POST("/api/users/register", h.Register())
	r.POST("/api/users/login", h.Login())
	r.POST("/api/users/logout", h.Logout())
	r.PUT("/api/users/profile", isAuth, h.UpdateProfile())

	r.GET("/api/products", h.SearchProducts())
	r.GET("/api/products/categories", h.GetCategories())
	r.GET("/api/products/brands", h.GetBrands())
	r.GET("/api/products/slug/:slug", h.GetProductBySlug())
	r.GET("/api/products/:id", h.GetProduct())
	r.GET("/api/products/:id/reviews", h.ListReviews())
	r.POST("/api/products/:id/reviews", isAuth, h.CreateReview())

	r.POST("/api/orders", isAuth, h.CreateOrder())
	r.GET("/api/orders/history", isAuth, h.OrderHistory())
	r.GET("/api/orders/:id", isAuth, h.GetOrder())
	r.PUT("/api/orders/:id/pay", isAuth, h.PayOrder())
	r.PUT("/api/orders/:id/deliver", isAuth, isAdmin, h.DeliverOrder())

	r.GET("/api/keys/paypal", isAuth, h.PayPalClientID())
	r.GET("/api/keys/google", isAuth, h.GoogleAPIKey())

	r.GET("/api/cart", h.GetCart())
	r.POST("/api/cart/items", h.AddCartItem())
	r.DELETE("/api/cart/items/:id", h.RemoveCartItem())
	r.PUT("/api/cart/shipping", h.SaveShippingAddress())
	r.PUT("/api/cart/shipping/location", h.SaveShippingLocation())
	r.PUT("/api/cart/payment", h.SavePaymentMethod())
	r.PUT("/api/preferences/dark-mode", h.SetDarkMode())
	r.GET("/api/checkout/next", h.CheckoutNext())
	r.POST("/api/checkout/placeorder", isAuth, h.PlaceOrder())

	admin := r.Group("/api/admin", isAuth, isAdmin)
	admin.GET("/summary", h.Summary())
	admin.GET("/orders", h.ListOrders())
	admin.DELETE("/orders/:id", h.DeleteOrder())
	admin.GET("/products", h.ListProducts())
	admin.POST("/products", h.CreateProduct())
	admin.PUT("/products/:id", h.UpdateProduct())
	admin.DELETE("/products/:id", h.DeleteProduct())
	admin.POST("/upload", h.UploadImage())
	admin.GET("/users", h.ListUsers())
	admin.GET("/users/:id", h.GetUser())
	admin.PUT("/users/:id", h.UpdateUser())
	admin.DELETE("/users/:id", h.DeleteUser())

	env.router = r
	return env
}

// createUser stores a user with password "123456" and returns it with a token.
func (e *testEnv) createUser(name, email string, admin bool) (*models.User, string) {
	e.t.Helper()

	hash, err := auth.HashPassword("123456")
	require.NoError(e.t, err)

	u := &models.User{Name: name, Email: email, PasswordHash: hash, IsAdmin: admin}
	require.NoError(e.t, e.users.Create(context.Background(), u))

	token, err := e.issuer.Sign(u)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req, token)
}

func (e *testEnv) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, ck := range e.jar {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(e.jar, ck.Name)
			continue
		}
		e.jar[ck.Name] = ck
	}
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[map[string]any](t, rec)["message"].(string)
}

func testProduct(name, category string, price float64, stock int) models.Product {
	return models.Product{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Slug:         strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Category:     category,
		Brand:        "Nike",
		Image:        "/images/" + strings.ToLower(strings.ReplaceAll(name, " ", "")) + ".jpg",
		Price:        price,
		CountInStock: stock,
		Reviews:      []models.Review{},
	}
}

var testAddress = gin.H{
	"fullName":   "Jane Doe",
	"address":    "1 Main St",
	"city":       "Springfield",
	"postalCode": "12345",
	"country":    "US",
}
