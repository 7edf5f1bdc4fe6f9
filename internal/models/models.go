package models

// Product categories
const (
	CategoryFruits     = "fruits"
	CategoryVegetables = "vegetables"
	CategoryValueAdded = "value-added"
)

// Order statuses as they appear in the orders sheet
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusOnTheWay   = "On the way"
	StatusFulfilled  = "Fulfilled"
	StatusCancelled  = "Cancelled"
)

// ProgressStages is the fixed order-progress sequence. An order's stage index
// is its status's position in this list. Cancelled is deliberately absent: it
// is a terminal state outside the progress bar.
var ProgressStages = []string{StatusPending, StatusProcessing, StatusOnTheWay, StatusFulfilled}

// Farmer describes the grower behind a product.
type Farmer struct {
	Name           string   `json:"name"`
	Location       string   `json:"location"`
	Certifications []string `json:"certifications"`
}

// HarvestInfo describes a product's most recent harvest. The optional fields
// are empty when the sheet has nothing for them; consumers use presence checks.
type HarvestInfo struct {
	PickingDate       string `json:"picking_date"`
	BatchNumber       string `json:"batch_number"`
	StorageMethod     string `json:"storage_method"`
	FertilizersUsed   string `json:"fertilizers_used,omitempty"`
	PesticidePractice string `json:"pesticide_practice,omitempty"`
	ChemicalSafety    string `json:"chemical_safety,omitempty"`
}

// ProductSpecifics carries per-product detail from the Product Info sheet.
type ProductSpecifics struct {
	Variety             string `json:"variety"`
	SizeWeight          string `json:"size_weight"`
	ShelfLife           string `json:"shelf_life"`
	NutritionHighlights string `json:"nutrition_highlights,omitempty"`
	BestUse             string `json:"best_use,omitempty"`
	Packaging           string `json:"packaging,omitempty"`
}

// Product is the denormalized storefront view of a product, joined from the
// products, farmers, Product Info and Harvest sheets. It is rebuilt on every
// fetch and never persisted; ID is the stable join and cart key.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Price       float64          `json:"price"`
	Image       string           `json:"image"`
	InStock     bool             `json:"in_stock"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Farmer      Farmer           `json:"farmer"`
	Harvest     HarvestInfo      `json:"harvest"`
	Specifics   ProductSpecifics `json:"specifics"`
}

// SensorReading is one point of a product's soil-sensor series: five
// instantaneous metrics plus their rates of change. Baselines appear only on
// the first real reading that carries them.
type SensorReading struct {
	DateTime         string  `json:"date_time"`
	N                float64 `json:"n"`
	P                float64 `json:"p"`
	K                float64 `json:"k"`
	SoilMoisture     float64 `json:"soil_moisture"`
	Gas              float64 `json:"gas"`
	RateN            float64 `json:"rate_n"`
	RateP            float64 `json:"rate_p"`
	RateK            float64 `json:"rate_k"`
	RateSoilMoisture float64 `json:"rate_soil_moisture"`
	RateGas          float64 `json:"rate_gas"`
	BaselineN        float64 `json:"baseline_n,omitempty"`
	BaselineP        float64 `json:"baseline_p,omitempty"`
	BaselineK        float64 `json:"baseline_k,omitempty"`
	BaselineGas      float64 `json:"baseline_gas,omitempty"`
}

// CartItem is a product plus an ordered quantity in kilograms.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// PlacedOrder is the locally persisted record of a checked-out cart line.
// Status is only ever updated by merging live status from the orders sheet.
type PlacedOrder struct {
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	DateTime    string  `json:"date_time"`
	Status      string  `json:"status,omitempty"`
}
