package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trackfolio/internal/handlers"
	"trackfolio/internal/logger"
	"trackfolio/internal/middleware"
	"trackfolio/internal/models"
	"trackfolio/internal/prices"
	"trackfolio/internal/services"
	"trackfolio/internal/validator"
)

// testApp holds the full application stack for integration tests. Prices is
// the fake market source shared by the crypto, etf, and stock services, so
// tests can script quotes without leaving the process.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Prices *scriptedSource
}

// scriptedSource is an in-process price source with per-symbol quotes and
// failures.
type scriptedSource struct {
	quotes map[string]int64
	errs   map[string]error
}

var _ prices.Source = (*scriptedSource)(nil)

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) FetchPrice(_ context.Context, symbol string) (int64, error) {
	if err, ok := s.errs[symbol]; ok {
		return 0, err
	}
	if price, ok := s.quotes[symbol]; ok {
		return price, nil
	}
	return 0, fmt.Errorf("no quote for %s", symbol)
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Portfolio{},
		&models.Investment{},
		&models.InvestmentValueHistory{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	source := &scriptedSource{quotes: map[string]int64{}, errs: map[string]error{}}

	// Services
	userService := services.NewUserService(db)
	portfolioService := services.NewPortfolioService(db)
	investmentService := services.NewInvestmentFacade(
		db,
		services.NewCryptoInvestmentService(db, source),
		services.NewEtfInvestmentService(db, source),
		services.NewStockInvestmentService(db, source),
		services.NewSavingsInvestmentService(db),
		services.NewOtherInvestmentService(db),
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/portfolio", portfolioHandler.GetPortfolio)
	protected.POST("/portfolio", portfolioHandler.CreatePortfolio)

	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.AddInvestment)
	investments.GET("", investmentHandler.ListInvestments)
	investments.POST("/sync", investmentHandler.SyncAll)
	investments.DELETE("/:id", investmentHandler.RemoveInvestment)
	investments.POST("/:id/price", investmentHandler.UpdatePrice)
	investments.PUT("/:id/value", investmentHandler.UpdateValue)
	investments.GET("/:id/value", investmentHandler.GetCurrentValue)

	return &testApp{DB: db, Router: router, Prices: source}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// createPortfolio creates the caller's portfolio and returns its ID.
func (app *testApp) createPortfolio(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/portfolio", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create portfolio failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(string)
}

// addInvestment posts an investment payload and returns its ID.
func (app *testApp) addInvestment(t *testing.T, token, body string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/investments", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add investment failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(string)
}
