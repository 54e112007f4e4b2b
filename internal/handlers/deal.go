package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/dealspot/internal/apperrors"
	"github.com/example/dealspot/internal/middleware"
	"github.com/example/dealspot/internal/models"
	"github.com/example/dealspot/internal/repository"
	"github.com/example/dealspot/internal/trust"
	"github.com/example/dealspot/internal/utils"
	"github.com/example/dealspot/internal/validation"
)

// DealHandler sequences trust classification, schema validation, existence
// checks and repository calls for deal requests.
type DealHandler struct {
	deals  *repository.DealRepository
	lookup *repository.Lookup
}

// NewDealHandler constructs a DealHandler.
func NewDealHandler(db *gorm.DB) *DealHandler {
	return &DealHandler{
		deals:  repository.NewDealRepository(db),
		lookup: repository.NewLookup(db),
	}
}

type createDealRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	StockType         string   `json:"stock_type"`
	VideoURL          string   `json:"video_url"`
	ImageURL          string   `json:"image_url"`
	UPIAddress        string   `json:"upi_address"`
	PaymentMode       string   `json:"payment_mode"`
	DeliveryType      string   `json:"delivery_type"`
	Returnable        bool     `json:"returnable"`
	HomeDelivery      bool     `json:"home_delivery"`
	PublicPhone       bool     `json:"public_phone"`
	SellOnline        bool     `json:"sell_online"`
	MarketPrice       float64  `json:"market_price"`
	OfferPrice        float64  `json:"offer_price"`
	Quantity          int      `json:"quantity"`
	FreeDeliveryKm    float64  `json:"free_delivery_km"`
	DeliveryCostPerKm float64  `json:"delivery_cost_per_km"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	IMEI              string   `json:"imei"`
	ProductID         string   `json:"product_id"`
	BusinessID        string   `json:"business_id"`
}

// CreateDeal publishes a new deal after trust, schema and referential checks.
func (h *DealHandler) CreateDeal(c *fiber.Ctx) error {
	const op = "deals.CreateDeal"

	flags, initialized := trust.FromContext(c)
	if !initialized {
		// Fail safe: an uninitialized flag set must never weaken checks.
		return apperrors.Authorization(op, "device trust could not be established")
	}

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	payload["user_id"] = userID

	if err := validation.Validate(validation.SchemaCreateDeal, payload, flags); err != nil {
		return err
	}

	var req createDealRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if exists, err := h.lookup.UserExists(c.Context(), userID); err != nil {
		return err
	} else if !exists {
		return apperrors.DependencyMissing(op, "user", userID)
	}

	if exists, err := h.lookup.ProductExists(c.Context(), req.ProductID); err != nil {
		return err
	} else if !exists {
		return apperrors.DependencyMissing(op, "product", req.ProductID)
	}

	business, exists, err := h.lookup.BusinessByID(c.Context(), req.BusinessID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.DependencyMissing(op, "business", req.BusinessID)
	}

	startDate, _ := time.Parse(time.RFC3339, req.StartDate)
	endDate, _ := time.Parse(time.RFC3339, req.EndDate)

	deal := models.Deal{
		Name:              req.Name,
		Description:       req.Description,
		StartDate:         startDate,
		EndDate:           endDate,
		StockType:         req.StockType,
		VideoURL:          req.VideoURL,
		ImageURL:          req.ImageURL,
		UPIAddress:        req.UPIAddress,
		PaymentMode:       req.PaymentMode,
		DeliveryType:      req.DeliveryType,
		Returnable:        req.Returnable,
		HomeDelivery:      req.HomeDelivery,
		PublicPhone:       req.PublicPhone,
		SellOnline:        req.SellOnline,
		MarketPrice:       req.MarketPrice,
		OfferPrice:        req.OfferPrice,
		Quantity:          req.Quantity,
		FreeDeliveryKm:    req.FreeDeliveryKm,
		DeliveryCostPerKm: req.DeliveryCostPerKm,
		ProductID:         req.ProductID,
		BusinessID:        req.BusinessID,
		UserID:            userID,
	}

	if flags.CheckIMEI {
		deal.IMEI = req.IMEI
	}

	// A deal published without coordinates inherits its business location.
	if req.Latitude != nil && req.Longitude != nil {
		deal.Latitude = *req.Latitude
		deal.Longitude = *req.Longitude
	} else {
		deal.Latitude = business.Latitude
		deal.Longitude = business.Longitude
	}

	if err := h.deals.Create(c.Context(), &deal); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": deal})
}

// QueryNearby returns live deals within a radius of a point, nearest first.
func (h *DealHandler) QueryNearby(c *fiber.Ctx) error {
	flags, _ := trust.FromContext(c)

	lng, lngOK := parseFloatParam(c.Query("lng"))
	lat, latOK := parseFloatParam(c.Query("lat"))
	radius, radiusOK := parseFloatParam(c.Query("radius_km"))

	payload := map[string]interface{}{}
	if c.Query("lng") != "" || c.Query("lat") != "" {
		if lngOK && latOK {
			payload["coordinates"] = []interface{}{lng, lat}
		} else {
			payload["coordinates"] = []interface{}{c.Query("lng"), c.Query("lat")}
		}
	}
	if c.Query("radius_km") != "" {
		if radiusOK {
			payload["radius_km"] = radius
		} else {
			payload["radius_km"] = c.Query("radius_km")
		}
	}

	if err := validation.Validate(validation.SchemaQueryNearby, payload, flags); err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	deals, err := h.deals.FindNear(c.Context(), lng, lat, radius, time.Now(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": deals, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
	}})
}

// DeleteDeal removes a deal its creator no longer wants published.
func (h *DealHandler) DeleteDeal(c *fiber.Ctx) error {
	const op = "deals.DeleteDeal"

	flags, _ := trust.FromContext(c)
	id := c.Params("id")

	if err := validation.Validate(validation.SchemaDeleteDeal, map[string]interface{}{"id": id}, flags); err != nil {
		return err
	}

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	deal, exists, err := h.deals.FindByID(c.Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound(op, "deal not found")
	}
	if deal.UserID != userID {
		return apperrors.Authorization(op, "only the deal creator may delete it")
	}

	removed, err := h.deals.DeleteByID(c.Context(), id)
	if err != nil {
		return err
	}
	if !removed {
		// Lost a race with the sweeper or another delete.
		return apperrors.NotFound(op, "deal not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseFloatParam(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
