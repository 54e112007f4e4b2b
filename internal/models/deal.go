package models

import "time"

// Deal is a time-bounded promotional offer tied to a product and business.
// A deal is live while StartDate <= now < EndDate; once EndDate has elapsed
// it is ineligible for discovery and eventually removed by the sweeper.
type Deal struct {
	BaseModel
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `gorm:"index" json:"start_date"`
	EndDate     time.Time `gorm:"index" json:"end_date"`

	StockType string `json:"stock_type"`
	VideoURL  string `json:"video_url"`
	ImageURL  string `json:"image_url"`

	UPIAddress   string `json:"upi_address"`
	PaymentMode  string `json:"payment_mode"`
	DeliveryType string `json:"delivery_type"`
	Returnable   bool   `json:"returnable"`
	HomeDelivery bool   `json:"home_delivery"`
	PublicPhone  bool   `json:"public_phone"`
	SellOnline   bool   `json:"sell_online"`

	MarketPrice float64 `json:"market_price"`
	OfferPrice  float64 `json:"offer_price"`
	Quantity    int     `json:"quantity"`

	FreeDeliveryKm    float64 `json:"free_delivery_km"`
	DeliveryCostPerKm float64 `json:"delivery_cost_per_km"`

	Latitude  float64 `gorm:"index" json:"latitude"`
	Longitude float64 `gorm:"index" json:"longitude"`

	// IMEI is recorded only when the publishing device's trust flags
	// required device-bound verification.
	IMEI string `json:"-"`

	ProductID  string    `gorm:"type:char(24);index" json:"product_id"`
	Product    *Product  `json:"product,omitempty"`
	BusinessID string    `gorm:"type:char(24);index" json:"business_id"`
	Business   *Business `json:"business,omitempty"`
	UserID     string    `gorm:"type:char(24);index" json:"user_id"`
	User       *User     `json:"user,omitempty"`
}

// Live reports whether the deal is discoverable at the given instant.
func (d *Deal) Live(now time.Time) bool {
	return !d.StartDate.After(now) && d.EndDate.After(now)
}
