package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"peram-marketplace-service/internal/adapters/broadcaster"
	"peram-marketplace-service/internal/adapters/memory"
	"peram-marketplace-service/internal/adapters/token"
	"peram-marketplace-service/internal/app"
	"peram-marketplace-service/internal/config"
	"peram-marketplace-service/internal/domain/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type APITestSuite struct {
	suite.Suite
	handler http.Handler
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()

	cfg := &config.Config{}
	cfg.Server.CORSAllowedOrigins = []string{"*"}

	repos := memory.NewStore().Repositories()
	local := broadcaster.NewLocalBroadcaster(broadcaster.LocalBroadcasterParams{Logger: logger})

	server := NewServer(ServerParams{
		Config: cfg,
		AuthService: app.NewLocalAuthService(app.LocalAuthServiceParams{
			UserRepo:   repos.Users,
			Tokens:     token.NewJWTIssuer("api-test-secret", time.Hour),
			BcryptCost: bcrypt.MinCost,
			Logger:     logger,
		}),
		UserService: app.NewUserService(app.UserServiceParams{UserRepo: repos.Users, Logger: logger}),
		CategoryService: app.NewCategoryService(app.CategoryServiceParams{
			CategoryRepo: repos.Categories,
			ProductRepo:  repos.Products,
			Logger:       logger,
		}),
		ProductService: app.NewProductService(app.ProductServiceParams{
			ProductRepo:  repos.Products,
			CategoryRepo: repos.Categories,
			BidRepo:      repos.Bids,
			Logger:       logger,
		}),
		BidService: app.NewBidService(app.BidServiceParams{
			BidRepo:     repos.Bids,
			ProductRepo: repos.Products,
			Broadcaster: local,
			Logger:      logger,
		}),
		Logger: logger,
	})
	s.handler = server.Handler()
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) do(method, path, bearer string, body any) (int, map[string]any) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

// signup registers and logs in, returning the token and user id
func (s *APITestSuite) signup(email string) (string, string) {
	code, _ := s.do(http.MethodPost, "/auth/register", "", map[string]any{"email": email, "password": "secret123"})
	s.Require().Equal(http.StatusCreated, code)

	code, body := s.do(http.MethodPost, "/auth/login", "", map[string]any{"email": email, "password": "secret123"})
	s.Require().Equal(http.StatusOK, code)
	return body["token"].(string), body["user_id"].(string)
}

func (s *APITestSuite) createCategory(token, name string) string {
	code, body := s.do(http.MethodPost, "/categories", token, map[string]any{"name": name})
	s.Require().Equal(http.StatusCreated, code)
	return body["id"].(string)
}

func (s *APITestSuite) createProduct(token, categoryID string, startingBid float64) string {
	code, body := s.do(http.MethodPost, "/products", token, map[string]any{
		"title":        "Road bike",
		"description":  "Lightly used",
		"category_id":  categoryID,
		"starting_bid": startingBid,
	})
	s.Require().Equal(http.StatusCreated, code, body)
	return body["product"].(map[string]any)["id"].(string)
}

func (s *APITestSuite) TestHealth() {
	code, body := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, code)
	s.Equal("ok", body["status"])
}

func (s *APITestSuite) TestRegister() {
	code, body := s.do(http.MethodPost, "/auth/register", "", map[string]any{})
	s.Equal(http.StatusBadRequest, code)
	s.Equal(map[string]any{
		"message": "REQUIRED FIELDS ARE MISSING",
		"cause":   "email and password are not found.",
	}, body["error"])

	code, body = s.do(http.MethodPost, "/auth/register", "", map[string]any{"email": "Jane@Example.com", "password": "secret123"})
	s.Equal(http.StatusCreated, code)
	s.Equal("User registered successfully", body["message"])
	registered := body["user"].(map[string]any)
	s.Equal("jane@example.com", registered["email"])
	s.Equal("jane", registered["name"])
	s.NotContains(registered, "password_hash")

	code, _ = s.do(http.MethodPost, "/auth/register", "", map[string]any{"email": "jane@example.com", "password": "other"})
	s.Equal(http.StatusConflict, code)
}

func (s *APITestSuite) TestLogin() {
	s.signup("sam@example.com")

	code, body := s.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "sam@example.com", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid credentials", body["error"])

	code, body = s.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "nobody@example.com", "password": "secret123"})
	s.Equal(http.StatusNotFound, code)
	s.Equal("User not found", body["error"])

	code, body = s.do(http.MethodPost, "/auth/login", "", map[string]any{"password": "secret123"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal(map[string]any{"message": "REQUIRED FIELD IS MISSING", "cause": "email is not found."}, body["error"])

	code, body = s.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "sam@example.com", "password": "secret123"})
	s.Equal(http.StatusOK, code)
	s.Equal("Login successful", body["message"])
	s.NotEmpty(body["token"])
	s.NotEmpty(body["expires_at"])
}

func (s *APITestSuite) TestProfileAndLogout() {
	token, userID := s.signup("pat@example.com")

	code, body := s.do(http.MethodGet, "/auth/profile", token, nil)
	s.Equal(http.StatusOK, code)
	s.Equal(userID, body["user"].(map[string]any)["id"])

	code, body = s.do(http.MethodGet, "/users/profile/"+userID, "", nil)
	s.Equal(http.StatusOK, code)
	s.Equal("pat@example.com", body["profile"].(map[string]any)["email"])

	code, body = s.do(http.MethodGet, "/users/profile/not-an-id", "", nil)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("User not found", body["error"])

	code, _ = s.do(http.MethodGet, "/users/profile/"+uuid.NewString(), "", nil)
	s.Equal(http.StatusNotFound, code)

	code, body = s.do(http.MethodGet, "/users/profile", token, nil)
	s.Equal(http.StatusOK, code)
	s.Equal(userID, body["profile"].(map[string]any)["id"])

	code, body = s.do(http.MethodPost, "/auth/logout", token, nil)
	s.Equal(http.StatusOK, code)
	s.Equal("Logout successful", body["message"])

	code, body = s.do(http.MethodGet, "/auth/profile", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid token", body["error"])
}

func (s *APITestSuite) TestCategories() {
	code, _ := s.do(http.MethodGet, "/categories", "", nil)
	s.Equal(http.StatusUnauthorized, code)

	token, _ := s.signup("cat@example.com")
	id := s.createCategory(token, "Bikes")

	code, body := s.do(http.MethodPost, "/categories", token, map[string]any{"name": "Bikes"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Category already exists", body["error"])

	code, body = s.do(http.MethodPost, "/categories", token, map[string]any{"name": "   "})
	s.Equal(http.StatusBadRequest, code)

	s.createCategory(token, "Books")
	code, body = s.do(http.MethodGet, "/categories", token, nil)
	s.Equal(http.StatusOK, code)
	s.Len(body["categories"], 2)

	code, body = s.do(http.MethodPut, "/categories/"+id, token, map[string]any{"description": "Two wheels"})
	s.Equal(http.StatusOK, code)
	s.Equal("Bikes", body["name"])
	s.Equal("Two wheels", body["description"])

	code, body = s.do(http.MethodPut, "/categories/xyz", token, map[string]any{"name": "x"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Category not found", body["error"])

	code, _ = s.do(http.MethodDelete, "/categories/"+uuid.NewString(), token, nil)
	s.Equal(http.StatusNotFound, code)

	code, body = s.do(http.MethodDelete, "/categories/"+id, token, nil)
	s.Equal(http.StatusOK, code)
	s.Equal("Category deleted successfully", body["message"])
}

func (s *APITestSuite) TestCategoryInUse() {
	token, _ := s.signup("seller@example.com")
	categoryID := s.createCategory(token, "Bikes")
	s.createProduct(token, categoryID, 100)

	code, _ := s.do(http.MethodDelete, "/categories/"+categoryID, token, nil)
	s.Equal(http.StatusConflict, code)
}

func (s *APITestSuite) TestProductLifecycle() {
	sellerToken, sellerID := s.signup("seller@example.com")
	buyerToken, buyerID := s.signup("buyer@example.com")
	categoryID := s.createCategory(sellerToken, "Bikes")

	code, body := s.do(http.MethodPost, "/products", sellerToken, map[string]any{"title": "Bike"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal(map[string]any{
		"message": "REQUIRED FIELDS ARE MISSING",
		"cause":   "category_id and starting_bid are not found.",
	}, body["error"])

	code, _ = s.do(http.MethodPost, "/products", "", map[string]any{})
	s.Equal(http.StatusUnauthorized, code)

	code, body = s.do(http.MethodPost, "/products/add", sellerToken, map[string]any{
		"name":           "<b>Vintage</b> lamp",
		"starting_price": 20,
		"category_id":    categoryID,
		"closing_at":     time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	s.Equal(http.StatusCreated, code)
	s.Equal("Product added successfully", body["message"])
	lamp := body["product"].(map[string]any)
	s.Equal("Vintage lamp", lamp["title"])
	s.Equal(20.0, lamp["current_bid"])
	s.Equal(sellerID, lamp["seller_id"])

	code, body = s.do(http.MethodPost, "/products", sellerToken, map[string]any{
		"title":            "Past",
		"category_id":      categoryID,
		"starting_bid":     10,
		"auction_end_time": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	})
	s.Equal(http.StatusBadRequest, code)

	productID := s.createProduct(sellerToken, categoryID, 100)

	code, body = s.do(http.MethodGet, "/products?page_size=1", "", nil)
	s.Equal(http.StatusOK, code)
	s.Len(body["products"], 1)
	s.Equal(1.0, body["page"])
	s.Equal(1.0, body["page_size"])

	code, _ = s.do(http.MethodGet, "/products?status=sold", "", nil)
	s.Equal(http.StatusBadRequest, code)

	// bidding
	code, _ = s.do(http.MethodPost, "/products/"+productID+"/bids", sellerToken, map[string]any{"amount": 150})
	s.Equal(http.StatusForbidden, code)

	code, body = s.do(http.MethodPost, "/products/"+productID+"/bids", buyerToken, map[string]any{"amount": 150})
	s.Equal(http.StatusCreated, code)
	s.Equal("Bid placed successfully", body["message"])
	s.Equal(buyerID, body["bid"].(map[string]any)["buyer_id"])

	code, _ = s.do(http.MethodPost, "/products/bid", buyerToken, map[string]any{"product_id": productID, "bid_amount": 120})
	s.Equal(http.StatusConflict, code)

	code, _ = s.do(http.MethodPost, "/products/bid", buyerToken, map[string]any{"product_id": productID, "bid_amount": -5})
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/products/bid", buyerToken, map[string]any{"product_id": productID, "bid_amount": 175})
	s.Equal(http.StatusCreated, code)

	code, body = s.do(http.MethodGet, "/products/"+productID, "", nil)
	s.Equal(http.StatusOK, code)
	s.Equal(175.0, body["product"].(map[string]any)["current_bid"])
	bids := body["bids"].([]any)
	s.Len(bids, 2)
	s.Equal(175.0, bids[0].(map[string]any)["amount"])

	code, body = s.do(http.MethodGet, "/products/"+productID+"/bids", "", nil)
	s.Equal(http.StatusOK, code)
	s.Len(body["bids"], 2)

	// seller-only edits
	code, _ = s.do(http.MethodPut, "/products/"+productID, buyerToken, map[string]any{"title": "Mine now"})
	s.Equal(http.StatusForbidden, code)

	code, body = s.do(http.MethodPut, "/products/"+productID, sellerToken, map[string]any{"title": "Road bike, 54cm"})
	s.Equal(http.StatusOK, code)
	s.Equal("Road bike, 54cm", body["product"].(map[string]any)["title"])

	code, _ = s.do(http.MethodDelete, "/products/"+productID, sellerToken, nil)
	s.Equal(http.StatusConflict, code)

	lampID := lamp["id"].(string)
	code, _ = s.do(http.MethodDelete, "/products/"+lampID, buyerToken, nil)
	s.Equal(http.StatusForbidden, code)

	code, body = s.do(http.MethodDelete, "/products/"+lampID, sellerToken, nil)
	s.Equal(http.StatusOK, code)
	s.Equal("Product deleted successfully", body["message"])

	code, body = s.do(http.MethodGet, "/products/"+lampID, "", nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Product not found", body["error"])

	code, body = s.do(http.MethodGet, "/products/bad-id", "", nil)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Product not found", body["error"])
}

func (s *APITestSuite) TestInvalidPayloads() {
	token, _ := s.signup("val@example.com")
	categoryID := s.createCategory(token, "Bikes")

	code, body := s.do(http.MethodPost, "/products", token, map[string]any{
		"title":        "Bike",
		"category_id":  categoryID,
		"starting_bid": 10,
		"images":       []string{"not a url"},
	})
	s.Equal(http.StatusBadRequest, code)
	s.Contains(body["error"], "images")

	code, body = s.do(http.MethodPost, "/products/bid", token, map[string]any{"product_id": "nope", "bid_amount": 10})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("product_id must be a valid id", body["error"])

	code, body = s.do(http.MethodPost, "/auth/register", "", `{"email":`)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("invalid request payload", body["error"])
}

func (s *APITestSuite) TestEncodedMarkupIsStripped() {
	token, _ := s.signup("markup@example.com")

	code, body := s.do(http.MethodPost, "/categories", token, map[string]any{
		"name":        "Lamps",
		"description": "&lt;script&gt;alert(1)&lt;/script&gt;Desk lamps",
	})
	s.Equal(http.StatusCreated, code)
	s.Equal("Desk lamps", body["description"])

	code, body = s.do(http.MethodPost, "/products", token, map[string]any{
		"title":        "&lt;script&gt;alert(1)&lt;/script&gt;Lamp",
		"description":  "&lt;img src=x onerror=alert(1)&gt;Lightly used",
		"category_id":  body["id"],
		"starting_bid": 10,
	})
	s.Equal(http.StatusCreated, code)
	listed := body["product"].(map[string]any)
	s.Equal("Lamp", listed["title"])
	s.Equal("Lightly used", listed["description"])
}

func (s *APITestSuite) TestOutOfRangeInput() {
	sellerToken, _ := s.signup("range-seller@example.com")
	buyerToken, _ := s.signup("range-buyer@example.com")
	categoryID := s.createCategory(sellerToken, "Tools")

	for _, startingBid := range []float64{0.001, 10.555, 1e12} {
		code, body := s.do(http.MethodPost, "/products", sellerToken, map[string]any{
			"title":        "Drill",
			"category_id":  categoryID,
			"starting_bid": startingBid,
		})
		s.Equal(http.StatusBadRequest, code, startingBid)
		s.Equal(shared.ErrInvalidStartingBid.Error(), body["error"])
	}

	productID := s.createProduct(sellerToken, categoryID, 100)
	for _, amount := range []float64{100.004, 0.001, 1e12} {
		code, body := s.do(http.MethodPost, "/products/"+productID+"/bids", buyerToken, map[string]any{"amount": amount})
		s.Equal(http.StatusBadRequest, code, amount)
		s.Equal(shared.ErrBidAmountInvalid.Error(), body["error"])
	}

	code, _ := s.do(http.MethodPost, "/products/"+productID+"/bids", buyerToken, map[string]any{"amount": 100.01})
	s.Equal(http.StatusCreated, code)

	code, body := s.do(http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "long-password@example.com",
		"password": strings.Repeat("p", 73),
	})
	s.Equal(http.StatusBadRequest, code)
	s.Equal(shared.ErrPasswordTooLong.Error(), body["error"])
}
