package validation

import "regexp"

// Schema names used by the deal endpoints.
const (
	SchemaCreateDeal  = "create-deal"
	SchemaDeleteDeal  = "delete-deal"
	SchemaQueryNearby = "query-deals-by-location"
)

var (
	imeiPattern = regexp.MustCompile(`^[0-9]{15}$`)
	upiPattern  = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)
)

var registry = map[string]Schema{}

func register(schema Schema) {
	registry[schema.Name] = schema
}

func init() {
	register(Schema{
		Name: SchemaCreateDeal,
		Rules: []Rule{
			{Field: "name", Type: TypeString, Required: true, MinLen: 1, MaxLen: 120},
			{Field: "description", Type: TypeString, MaxLen: 2000},
			{Field: "start_date", Type: TypeTime, Required: true},
			{Field: "end_date", Type: TypeTime, Required: true},
			{Field: "product_id", Type: TypeID, Required: true},
			{Field: "business_id", Type: TypeID, Required: true},
			{Field: "user_id", Type: TypeID, Required: true},
			{Field: "stock_type", Type: TypeString, Enum: []string{"limited", "unlimited"}},
			{Field: "video_url", Type: TypeURI},
			{Field: "image_url", Type: TypeURI},
			{Field: "upi_address", Type: TypeString, Pattern: upiPattern, PatternMsg: "must be a valid UPI address"},
			{Field: "payment_mode", Type: TypeString, Enum: []string{"cash", "upi", "both"}},
			{Field: "delivery_type", Type: TypeString, Enum: []string{"pickup", "home_delivery", "both"}},
			{Field: "returnable", Type: TypeBool},
			{Field: "home_delivery", Type: TypeBool},
			{Field: "public_phone", Type: TypeBool},
			{Field: "sell_online", Type: TypeBool},
			{Field: "market_price", Type: TypeNumber, Min: floatPtr(0)},
			{Field: "offer_price", Type: TypeNumber, Min: floatPtr(0)},
			{Field: "quantity", Type: TypeInteger, Min: floatPtr(0)},
			{Field: "free_delivery_km", Type: TypeNumber, Min: floatPtr(0)},
			{Field: "delivery_cost_per_km", Type: TypeNumber, Min: floatPtr(0)},
			{Field: "latitude", Type: TypeNumber, Min: floatPtr(-90), Max: floatPtr(90)},
			{Field: "longitude", Type: TypeNumber, Min: floatPtr(-180), Max: floatPtr(180)},
			{Field: "imei", Type: TypeString, RequiredWithIMEI: true, Pattern: imeiPattern, PatternMsg: "must be a 15-digit IMEI"},
		},
		Checks: []Check{
			{Kind: TimeAfter, Field: "end_date", Other: "start_date", Message: "must be after start_date"},
			{Kind: NumberLTE, Field: "offer_price", Other: "market_price", Message: "must not exceed market_price"},
		},
	})

	register(Schema{
		Name: SchemaDeleteDeal,
		Rules: []Rule{
			{Field: "id", Type: TypeID, Required: true},
		},
	})

	register(Schema{
		Name: SchemaQueryNearby,
		Rules: []Rule{
			{Field: "coordinates", Type: TypeCoordinates, Required: true},
			{Field: "radius_km", Type: TypeNumber, Required: true, Positive: true},
		},
	})
}
