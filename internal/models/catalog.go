package models

type Category struct {
	BaseModel
	Name        string    `json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty"`
}

// Business is a registered seller storefront. Its coordinates supply the
// default location for deals published without explicit coordinates.
type Business struct {
	BaseModel
	Name         string  `json:"name"`
	AddressLine  string  `json:"address_line"`
	District     string  `json:"district"`
	ContactPhone string  `json:"contact_phone"`
	Website      string  `json:"website"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	OwnerID      string  `gorm:"type:char(24);index" json:"owner_id"`
	Owner        *User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	IsActive     bool    `json:"is_active"`
}

type Product struct {
	BaseModel
	Name             string    `json:"name"`
	ShortDescription string    `json:"short_description"`
	BasePrice        float64   `json:"base_price"`
	Currency         string    `json:"currency"`
	HeroImage        string    `json:"hero_image"`
	CategoryID       *string   `gorm:"type:char(24)" json:"category_id"`
	Category         *Category `json:"category,omitempty"`
	BusinessID       string    `gorm:"type:char(24);index" json:"business_id"`
	Business         *Business `json:"business,omitempty"`
}
