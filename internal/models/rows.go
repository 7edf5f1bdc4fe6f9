package models

import (
	"encoding/json"
	"strconv"
)

// Cell holds a spreadsheet cell that may arrive as a JSON string or number.
// The Apps Script backend is not consistent about which one it sends.
type Cell string

func (c *Cell) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = Cell(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = Cell(n.String())
	return nil
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c Cell) String() string {
	return string(c)
}

// Float parses the cell as a number, returning 0 for empty or non-numeric
// values. Mirrors the permissive Number() coercion the sheet consumers expect.
func (c Cell) Float() float64 {
	f, err := strconv.ParseFloat(string(c), 64)
	if err != nil {
		return 0
	}
	return f
}

// The row types below mirror the spreadsheet sheets column-for-column.
// JSON keys are the exact column headers and are part of the wire contract
// with the Apps Script backend. Do not rename them.

// ProductRow is a row of the "products" sheet.
type ProductRow struct {
	ProductID Cell   `json:"Product_id"`
	Name      string `json:"Product Name"`
	Price     Cell   `json:"Price (Rs.)"`
	Stock     Cell   `json:"Stock"`
	Image     string `json:"Image"`
	Category  string `json:"Category"`
}

// FarmerRow is a row of the "farmers" sheet.
type FarmerRow struct {
	FarmerID        Cell   `json:"Farmer_id"`
	Name            string `json:"Farmer Name"`
	Product         string `json:"Product"`
	Location        string `json:"Location"`
	FarmingPractice string `json:"Farming Practice"`
	Certifications  string `json:"Certifications"`
}

// ProductInfoRow is a row of the "Product Info" sheet.
type ProductInfoRow struct {
	Product             string `json:"Product"`
	FarmerID            Cell   `json:"Farmer ID"`
	Variety             string `json:"Variety"`
	SizeWeight          string `json:"Size / Weight"`
	ShelfLife           string `json:"Shelf Life"`
	NutritionHighlights string `json:"Nutrition Highlights"`
	BestUse             string `json:"Best Use"`
	Packaging           string `json:"Packaging"`
}

// HarvestRow is a row of the "Harvest" sheet.
type HarvestRow struct {
	Product           string `json:"Product"`
	FarmerName        string `json:"Farmer Name"`
	HarvestDateTime   string `json:"Harvest_date and time"`
	BatchNo           Cell   `json:"Batch_no"`
	FertilizersUsed   string `json:"Fertilizers Used"`
	PesticidePractice string `json:"Pesticide Practice"`
	ChemicalSafety    string `json:"Chemical Safety"`
}

// OrderRow is a row of the "orders" sheet.
type OrderRow struct {
	OrderID     Cell   `json:"Order_id"`
	ProductID   Cell   `json:"Product_id"`
	Quantity    Cell   `json:"Quantity"`
	DateTime    string `json:"Date and Time"`
	Status      string `json:"Status"`
	ProcessTime Cell   `json:"Process Time"`
}

// NewOrderRow is the payload for an order-creation write. The backend assigns
// Order_id, so the column is absent here.
type NewOrderRow struct {
	ProductID   string `json:"Product_id"`
	Quantity    int    `json:"Quantity"`
	DateTime    string `json:"Date and Time"`
	Status      string `json:"Status"`
	ProcessTime string `json:"Process Time"`
}

// SensorRow is a row of the "Sensor Data" sheet. Older rows carry separate
// Date/Time columns, newer ones a combined "Date and Time". Baseline columns
// are present only on the first reading of a series, if at all.
type SensorRow struct {
	Date             string `json:"Date"`
	Time             string `json:"Time"`
	N                Cell   `json:"N"`
	P                Cell   `json:"P"`
	K                Cell   `json:"K"`
	SoilMoisture     Cell   `json:"Soil Moisture"`
	Gas              Cell   `json:"Gas"`
	DateTime         string `json:"Date and Time"`
	RateN            Cell   `json:"Changing rate N"`
	RateP            Cell   `json:"Changing rate P"`
	RateK            Cell   `json:"Changing rate K"`
	RateSoilMoisture Cell   `json:"Changing rate Soil Moisture"`
	RateGas          Cell   `json:"Changing rate Gas"`
	BaselineN        Cell   `json:"Baseline N"`
	BaselineP        Cell   `json:"Baseline P"`
	BaselineK        Cell   `json:"Baseline K"`
	BaselineGas      Cell   `json:"Baseline Gas"`
}

// ContactRow is the payload for a contact submission.
type ContactRow struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}
