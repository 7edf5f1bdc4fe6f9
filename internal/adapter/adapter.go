// Package adapter denormalizes the four independently fetched sheet row sets
// into the storefront's Product view.
package adapter

import (
	"fmt"
	"strings"
	"time"

	"purechain-store/internal/models"
)

// Fallbacks used when a product has no matching row in a side sheet. These are
// user-visible strings; change them only together with the storefront copy.
const (
	fallbackFarmerName    = "PureChain Farmer"
	fallbackLocation      = "Sri Lanka"
	fallbackCertification = "Organic Certified"
	fallbackStorageMethod = "Fresh, stored under optimal conditions"
	fallbackVariety       = "Premium Quality"
	fallbackSizeWeight    = "Standard size"
	fallbackShelfLife     = "3-7 days when refrigerated"
	fallbackImage         = "https://images.unsplash.com/photo-1542838132-92c53300491e?auto=format&fit=crop&q=80&w=400"
)

const stockSentinel = "NA"

// pickingDateLayout renders dates the storefront way (dd/mm/yyyy).
const pickingDateLayout = "02/01/2006"

// harvestLayouts are the timestamp shapes seen in the Harvest sheet.
var harvestLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// RefData holds the farmer, product-info and harvest row sets a page fetch
// populates before any products are adapted. It replaces the mutable
// module-level caches of the original storefront with an explicit value whose
// lifecycle the caller owns.
type RefData struct {
	farmers []models.FarmerRow
	info    []models.ProductInfoRow
	harvest []models.HarvestRow
}

func NewRefData() *RefData {
	return &RefData{}
}

func (r *RefData) SetFarmers(rows []models.FarmerRow) {
	r.farmers = rows
}

func (r *RefData) SetProductInfo(rows []models.ProductInfoRow) {
	r.info = rows
}

func (r *RefData) SetHarvest(rows []models.HarvestRow) {
	r.harvest = rows
}

// The side sheets key their rows by product display name, not id. That join is
// inherited from the backend schema and is fragile under renames; it lives in
// these three lookups only, so switching to an id join is a one-line change
// per table.

func (r *RefData) farmerFor(productName string) *models.FarmerRow {
	for i := range r.farmers {
		if strings.EqualFold(r.farmers[i].Product, productName) {
			return &r.farmers[i]
		}
	}
	return nil
}

func (r *RefData) infoFor(productName string) *models.ProductInfoRow {
	for i := range r.info {
		if strings.EqualFold(r.info[i].Product, productName) {
			return &r.info[i]
		}
	}
	return nil
}

func (r *RefData) harvestFor(productName string) *models.HarvestRow {
	for i := range r.harvest {
		if strings.EqualFold(r.harvest[i].Product, productName) {
			return &r.harvest[i]
		}
	}
	return nil
}

// AdaptProduct joins one raw product row against the reference row sets and
// produces the denormalized Product, applying the documented fallbacks for
// every lookup miss.
func AdaptProduct(row models.ProductRow, ref *RefData) models.Product {
	stockRaw := row.Stock.String()
	inStock := stockRaw != stockSentinel && stockRaw != "" && row.Stock.Float() > 0

	name := row.Name
	farmer := ref.farmerFor(name)
	info := ref.infoFor(name)
	harvest := ref.harvestFor(name)

	appFarmer := models.Farmer{
		Name:           fallbackFarmerName,
		Location:       fallbackLocation,
		Certifications: []string{fallbackCertification},
	}
	if farmer != nil {
		appFarmer.Name = orDefault(farmer.Name, fallbackFarmerName)
		appFarmer.Location = orDefault(farmer.Location, fallbackLocation)
		appFarmer.Certifications = splitCertifications(farmer.Certifications)
	}

	appHarvest := models.HarvestInfo{
		PickingDate:   pickingDate(harvest),
		BatchNumber:   fmt.Sprintf("BATCH-%s", row.ProductID),
		StorageMethod: fallbackStorageMethod,
	}
	if harvest != nil {
		if batch := harvest.BatchNo.String(); batch != "" {
			appHarvest.BatchNumber = batch
		}
		appHarvest.FertilizersUsed = harvest.FertilizersUsed
		appHarvest.PesticidePractice = harvest.PesticidePractice
		appHarvest.ChemicalSafety = harvest.ChemicalSafety
	}
	if farmer != nil {
		appHarvest.StorageMethod = orDefault(farmer.FarmingPractice, fallbackStorageMethod)
	}

	appSpecifics := models.ProductSpecifics{
		Variety:    fallbackVariety,
		SizeWeight: fallbackSizeWeight,
		ShelfLife:  fallbackShelfLife,
	}
	if info != nil {
		appSpecifics.Variety = orDefault(info.Variety, fallbackVariety)
		appSpecifics.SizeWeight = orDefault(info.SizeWeight, fallbackSizeWeight)
		appSpecifics.ShelfLife = orDefault(info.ShelfLife, fallbackShelfLife)
		appSpecifics.NutritionHighlights = info.NutritionHighlights
		appSpecifics.BestUse = info.BestUse
		appSpecifics.Packaging = info.Packaging
	}

	category := models.CategoryVegetables
	switch strings.ToLower(row.Category) {
	case models.CategoryFruits:
		category = models.CategoryFruits
	case models.CategoryValueAdded:
		category = models.CategoryValueAdded
	}

	description := fmt.Sprintf("Fresh organic %s sourced directly from our certified farms.", strings.ToLower(name))
	if info != nil && info.BestUse != "" {
		description = fmt.Sprintf("%s. Sourced directly from certified Sri Lankan farms.", info.BestUse)
	}

	return models.Product{
		ID:          row.ProductID.String(),
		Name:        name,
		Price:       row.Price.Float(),
		Image:       orDefault(row.Image, fallbackImage),
		InStock:     inStock,
		Category:    category,
		Description: description,
		Farmer:      appFarmer,
		Harvest:     appHarvest,
		Specifics:   appSpecifics,
	}
}

// AdaptProducts adapts a full product list, dropping rows that carry neither
// an id nor a name. Sheets routinely grow a trailing blank row.
func AdaptProducts(rows []models.ProductRow, ref *RefData) []models.Product {
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		if row.ProductID.String() == "" || row.Name == "" {
			continue
		}
		products = append(products, AdaptProduct(row, ref))
	}
	return products
}

func pickingDate(harvest *models.HarvestRow) string {
	if harvest != nil && harvest.HarvestDateTime != "" {
		for _, layout := range harvestLayouts {
			if t, err := time.Parse(layout, harvest.HarvestDateTime); err == nil {
				return t.Format(pickingDateLayout)
			}
		}
	}
	return time.Now().Format(pickingDateLayout)
}

func splitCertifications(raw string) []string {
	parts := strings.Split(raw, ",")
	certs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			certs = append(certs, trimmed)
		}
	}
	if len(certs) == 0 {
		return []string{fallbackCertification}
	}
	return certs
}

func orDefault(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}
