package service

import (
	"context"
	"sync"
	"time"

	"purechain-store/internal/adapter"
	"purechain-store/internal/gateway"
	"purechain-store/internal/models"
	"purechain-store/internal/sensor"
	"purechain-store/internal/util"

	"go.uber.org/zap"
)

// CatalogGateway is the slice of the sheet gateway the catalog reads from.
type CatalogGateway interface {
	GetAllProducts(ctx context.Context) ([]models.ProductRow, error)
	GetAllFarmers(ctx context.Context) ([]models.FarmerRow, error)
	GetProductInfo(ctx context.Context) ([]models.ProductInfoRow, error)
	GetHarvestData(ctx context.Context) ([]models.HarvestRow, error)
	GetSensorData(ctx context.Context) ([]models.SensorRow, error)
}

// RowCache caches per-sheet row sets. A nil cache disables caching.
type RowCache interface {
	GetRows(ctx context.Context, sheet string, dest interface{}) (bool, error)
	SetRows(ctx context.Context, sheet string, rows interface{}, ttl time.Duration) error
}

// CatalogService orchestrates the per-page fetch-join-adapt flow: fetch the
// product rows and the three reference row sets concurrently, populate a
// RefData, and adapt.
type CatalogService struct {
	gateway  CatalogGateway
	cache    RowCache
	cacheTTL time.Duration
	engine   *sensor.Engine
	logger   *zap.Logger
}

// NewCatalogService creates a catalog service. cache may be nil.
func NewCatalogService(gw CatalogGateway, cache RowCache, cacheTTL time.Duration, engine *sensor.Engine) *CatalogService {
	return &CatalogService{
		gateway:  gw,
		cache:    cache,
		cacheTTL: cacheTTL,
		engine:   engine,
		logger:   util.GetLogger(),
	}
}

// cachedRows serves a row set from the cache when possible, falling back to
// the fetch and writing back best-effort. Cache errors never fail the read.
func cachedRows[T any](ctx context.Context, s *CatalogService, sheet string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var rows []T
		ok, err := s.cache.GetRows(ctx, sheet, &rows)
		if err != nil {
			s.logger.Warn("Row cache read failed, falling back to gateway",
				zap.String("sheet", sheet),
				zap.Error(err))
		} else if ok {
			util.RowCacheHits.WithLabelValues(sheet).Inc()
			return rows, nil
		}
		util.RowCacheMisses.WithLabelValues(sheet).Inc()
	}

	rows, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetRows(ctx, sheet, rows, s.cacheTTL); err != nil {
			s.logger.Warn("Row cache write failed",
				zap.String("sheet", sheet),
				zap.Error(err))
		}
	}
	return rows, nil
}

// fetchRefData loads the three reference row sets concurrently and returns a
// populated RefData. All three fetches must succeed; the join adapter's cache
// population contract requires complete side tables before any adaptation.
func (s *CatalogService) fetchRefData(ctx context.Context) (*adapter.RefData, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.fetchRefData")
	defer span.End()

	var (
		wg      sync.WaitGroup
		farmers []models.FarmerRow
		info    []models.ProductInfoRow
		harvest []models.HarvestRow
		errs    [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		farmers, errs[0] = cachedRows(ctx, s, gateway.SheetFarmers, s.gateway.GetAllFarmers)
	}()
	go func() {
		defer wg.Done()
		info, errs[1] = cachedRows(ctx, s, gateway.SheetProductInfo, s.gateway.GetProductInfo)
	}()
	go func() {
		defer wg.Done()
		harvest, errs[2] = cachedRows(ctx, s, gateway.SheetHarvest, s.gateway.GetHarvestData)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	ref := adapter.NewRefData()
	ref.SetFarmers(farmers)
	ref.SetProductInfo(info)
	ref.SetHarvest(harvest)
	return ref, nil
}

// ListProducts returns the full adapted product catalog.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	var (
		wg   sync.WaitGroup
		rows []models.ProductRow
		ref  *adapter.RefData
		errs [2]error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rows, errs[0] = cachedRows(ctx, s, gateway.SheetProducts, s.gateway.GetAllProducts)
	}()
	go func() {
		defer wg.Done()
		ref, errs[1] = s.fetchRefData(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return adapter.AdaptProducts(rows, ref), nil
}

// GetProduct returns one adapted product, or nil when the id is unknown.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, nil
}

// SensorSeries returns the chartable series for a product and whether it is
// live sensor data.
func (s *CatalogService) SensorSeries(ctx context.Context, productID string) ([]models.SensorReading, bool, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SensorSeries")
	defer span.End()

	rows, err := cachedRows(ctx, s, gateway.SheetSensorData, s.gateway.GetSensorData)
	if err != nil {
		return nil, false, err
	}

	readings := sensor.AdaptRows(rows)
	series, isReal := s.engine.SeriesFor(productID, readings)
	return series, isReal, nil
}
