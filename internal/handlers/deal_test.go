package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/dealspot/internal/apperrors"
	"github.com/example/dealspot/internal/config"
	"github.com/example/dealspot/internal/database"
	"github.com/example/dealspot/internal/handlers"
	"github.com/example/dealspot/internal/models"
	"github.com/example/dealspot/internal/routes"
	"github.com/example/dealspot/internal/trust"
	"github.com/example/dealspot/internal/utils"
)

const (
	uaDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
)

type apiResponse struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error"`
	Errors  []apperrors.FieldError `json:"errors"`
	Data    json.RawMessage        `json:"data"`
}

type fixture struct {
	app      *fiber.App
	db       *gorm.DB
	cfg      *config.Config
	user     models.User
	business models.Business
	product  models.Product
	token    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler()})
	app.Use(recover.New())
	app.Use(trust.Middleware())
	routes.Register(app, db, cfg)

	f := &fixture{app: app, db: db, cfg: cfg}

	f.user = models.User{FirstName: "Asha", Phone: "9999000001"}
	if err := db.Create(&f.user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	f.business = models.Business{
		Name:      "Corner Cafe",
		Latitude:  12.9716,
		Longitude: 77.5946,
		OwnerID:   f.user.ID,
		IsActive:  true,
	}
	if err := db.Create(&f.business).Error; err != nil {
		t.Fatalf("seed business: %v", err)
	}

	f.product = models.Product{Name: "Espresso beans", BusinessID: f.business.ID}
	if err := db.Create(&f.product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	f.token, err = utils.GenerateToken(cfg.JWTSecret, f.user.ID, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	return f
}

func (f *fixture) dealPayload() map[string]interface{} {
	start := time.Now().Add(-time.Minute)
	return map[string]interface{}{
		"name":         "Half price beans",
		"start_date":   start.UTC().Format(time.RFC3339),
		"end_date":     start.Add(time.Hour).UTC().Format(time.RFC3339),
		"product_id":   f.product.ID,
		"business_id":  f.business.ID,
		"market_price": 30.0,
		"offer_price":  15.0,
	}
}

func (f *fixture) do(t *testing.T, method, path, ua, token string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	var parsed apiResponse
	if resp.StatusCode != fiber.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	resp.Body.Close()
	return resp, parsed
}

func TestCreateDealFromDesktop(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, "POST", "/api/deals/", uaDesktop, f.token, f.dealPayload())
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, body = %+v", resp.StatusCode, body)
	}

	var deal models.Deal
	if err := json.Unmarshal(body.Data, &deal); err != nil {
		t.Fatalf("decode deal: %v", err)
	}
	if deal.UserID != f.user.ID {
		t.Errorf("deal user = %q, want authenticated user %q", deal.UserID, f.user.ID)
	}
	if deal.Latitude != f.business.Latitude || deal.Longitude != f.business.Longitude {
		t.Errorf("deal without coordinates must inherit business location, got %v,%v", deal.Latitude, deal.Longitude)
	}
}

func TestCreateDealMobileRequiresIMEI(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, "POST", "/api/deals/", uaIPhone, f.token, f.dealPayload())
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	found := false
	for _, fe := range body.Errors {
		if fe.Field == "imei" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected imei field error, got %+v", body.Errors)
	}

	payload := f.dealPayload()
	payload["imei"] = "490154203237518"
	resp, body = f.do(t, "POST", "/api/deals/", uaIPhone, f.token, payload)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status with imei = %d, body = %+v", resp.StatusCode, body)
	}
}

func TestCreateDealOfferPriceRejected(t *testing.T) {
	f := newFixture(t)

	payload := f.dealPayload()
	payload["offer_price"] = 45.0

	resp, body := f.do(t, "POST", "/api/deals/", uaDesktop, f.token, payload)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	found := false
	for _, fe := range body.Errors {
		if fe.Field == "offer_price" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected offer_price error, got %+v", body.Errors)
	}
}

func TestCreateDealMissingProduct(t *testing.T) {
	f := newFixture(t)

	payload := f.dealPayload()
	payload["product_id"] = models.NewID()

	resp, body := f.do(t, "POST", "/api/deals/", uaDesktop, f.token, payload)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %+v", resp.StatusCode, body)
	}
	if body.Success {
		t.Fatal("expected failure envelope")
	}
}

func TestQueryNearby(t *testing.T) {
	f := newFixture(t)

	if resp, body := f.do(t, "POST", "/api/deals/", uaDesktop, f.token, f.dealPayload()); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("seed deal: %d %+v", resp.StatusCode, body)
	}

	path := fmt.Sprintf("/api/deals/nearby?lng=%v&lat=%v&radius_km=5", f.business.Longitude, f.business.Latitude)
	resp, body := f.do(t, "GET", path, uaDesktop, "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body = %+v", resp.StatusCode, body)
	}

	var results []json.RawMessage
	if err := json.Unmarshal(body.Data, &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 nearby deal, got %d", len(results))
	}

	resp, _ = f.do(t, "GET", "/api/deals/nearby?lng=77.59&lat=12.97&radius_km=0", uaDesktop, "", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("zero radius status = %d, want 400", resp.StatusCode)
	}

	resp, _ = f.do(t, "GET", "/api/deals/nearby?radius_km=5", uaDesktop, "", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing coordinates status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteDealOwnership(t *testing.T) {
	f := newFixture(t)

	_, body := f.do(t, "POST", "/api/deals/", uaDesktop, f.token, f.dealPayload())
	var deal models.Deal
	if err := json.Unmarshal(body.Data, &deal); err != nil {
		t.Fatalf("decode deal: %v", err)
	}

	stranger := models.User{FirstName: "Ravi", Phone: "9999000002"}
	if err := f.db.Create(&stranger).Error; err != nil {
		t.Fatalf("seed stranger: %v", err)
	}
	strangerToken, err := utils.GenerateToken(f.cfg.JWTSecret, stranger.ID, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	resp, _ := f.do(t, "DELETE", "/api/deals/"+deal.ID, uaDesktop, strangerToken, nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("stranger delete status = %d, want 403", resp.StatusCode)
	}

	resp, _ = f.do(t, "DELETE", "/api/deals/"+deal.ID, uaDesktop, f.token, nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("owner delete status = %d, want 204", resp.StatusCode)
	}

	resp, _ = f.do(t, "DELETE", "/api/deals/"+deal.ID, uaDesktop, f.token, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", resp.StatusCode)
	}
}
