package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"purechain-store/internal/models"
	"purechain-store/internal/sensor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogGateway struct {
	products []models.ProductRow
	farmers  []models.FarmerRow
	info     []models.ProductInfoRow
	harvest  []models.HarvestRow
	sensor   []models.SensorRow

	productsErr error
	farmersErr  error

	fetches int32
}

func (f *fakeCatalogGateway) GetAllProducts(context.Context) ([]models.ProductRow, error) {
	atomic.AddInt32(&f.fetches, 1)
	return f.products, f.productsErr
}

func (f *fakeCatalogGateway) GetAllFarmers(context.Context) ([]models.FarmerRow, error) {
	atomic.AddInt32(&f.fetches, 1)
	return f.farmers, f.farmersErr
}

func (f *fakeCatalogGateway) GetProductInfo(context.Context) ([]models.ProductInfoRow, error) {
	atomic.AddInt32(&f.fetches, 1)
	return f.info, nil
}

func (f *fakeCatalogGateway) GetHarvestData(context.Context) ([]models.HarvestRow, error) {
	atomic.AddInt32(&f.fetches, 1)
	return f.harvest, nil
}

func (f *fakeCatalogGateway) GetSensorData(context.Context) ([]models.SensorRow, error) {
	atomic.AddInt32(&f.fetches, 1)
	return f.sensor, nil
}

// memoryCache is an in-process RowCache, storing each row set as JSON the way
// the redis-backed cache does.
type memoryCache struct {
	entries map[string][]byte
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) GetRows(_ context.Context, sheet string, dest interface{}) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.entries[sheet]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) SetRows(_ context.Context, sheet string, rows interface{}, _ time.Duration) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	m.entries[sheet] = raw
	return nil
}

func catalogFixture() *fakeCatalogGateway {
	return &fakeCatalogGateway{
		products: []models.ProductRow{
			{ProductID: "CA", Name: "Carrot", Price: "450", Stock: "12", Category: "Vegetables"},
			{ProductID: "TM", Name: "Tomato", Price: "300", Stock: "NA", Category: "Vegetables"},
		},
		farmers: []models.FarmerRow{
			{FarmerID: "1", Name: "Sunil Perera", Product: "Carrot", Location: "Nuwara Eliya"},
		},
		info: []models.ProductInfoRow{
			{Product: "Carrot", Variety: "Nantes"},
		},
		harvest: []models.HarvestRow{
			{Product: "Carrot", HarvestDateTime: "2024-05-20T06:30:00Z", BatchNo: "88"},
		},
	}
}

func TestListProductsJoinsReferenceData(t *testing.T) {
	svc := NewCatalogService(catalogFixture(), nil, 0, sensor.NewEngine("CA"))

	products, err := svc.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Sunil Perera", products[0].Farmer.Name)
	assert.Equal(t, "Nantes", products[0].Specifics.Variety)
	assert.True(t, products[0].InStock)

	// Tomato has no reference rows and gets the fallbacks.
	assert.Equal(t, "PureChain Farmer", products[1].Farmer.Name)
	assert.False(t, products[1].InStock)
}

func TestListProductsFailsWhenAnyFetchFails(t *testing.T) {
	gw := catalogFixture()
	gw.farmersErr = errors.New("sheet unreachable")
	svc := NewCatalogService(gw, nil, 0, sensor.NewEngine("CA"))

	_, err := svc.ListProducts(context.Background())

	require.Error(t, err)
}

func TestListProductsServesFromCacheOnSecondCall(t *testing.T) {
	gw := catalogFixture()
	svc := NewCatalogService(gw, newMemoryCache(), time.Minute, sensor.NewEngine("CA"))

	_, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	fetched := atomic.LoadInt32(&gw.fetches)
	assert.Equal(t, int32(4), fetched)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, fetched, atomic.LoadInt32(&gw.fetches))
	assert.Equal(t, "Sunil Perera", products[0].Farmer.Name)
}

func TestCacheReadFailureFallsBackToGateway(t *testing.T) {
	gw := catalogFixture()
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	svc := NewCatalogService(gw, cache, time.Minute, sensor.NewEngine("CA"))

	products, err := svc.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestGetProductUnknownIDIsNil(t *testing.T) {
	svc := NewCatalogService(catalogFixture(), nil, 0, sensor.NewEngine("CA"))

	product, err := svc.GetProduct(context.Background(), "ZZ")

	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestGetProductReturnsMatch(t *testing.T) {
	svc := NewCatalogService(catalogFixture(), nil, 0, sensor.NewEngine("CA"))

	product, err := svc.GetProduct(context.Background(), "TM")

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Tomato", product.Name)
}

func TestSensorSeriesRealAndSynthetic(t *testing.T) {
	gw := catalogFixture()
	gw.sensor = []models.SensorRow{
		{DateTime: "2024-01-01 08:00", N: "180", P: "55", K: "140", SoilMoisture: "62", Gas: "480"},
		{DateTime: "2024-01-01 09:00", N: "182", P: "54", K: "141", SoilMoisture: "61", Gas: "478"},
	}
	svc := NewCatalogService(gw, nil, 0, sensor.NewEngine("CA"))

	series, isReal, err := svc.SensorSeries(context.Background(), "CA")
	require.NoError(t, err)
	assert.True(t, isReal)
	require.Len(t, series, 2)
	assert.Equal(t, 180.0, series[0].N)

	synthetic, isReal, err := svc.SensorSeries(context.Background(), "TM")
	require.NoError(t, err)
	assert.False(t, isReal)
	require.Len(t, synthetic, 2)
	assert.NotEqual(t, series, synthetic)
}

var (
	_ RowCache       = (*memoryCache)(nil)
	_ CatalogGateway = (*fakeCatalogGateway)(nil)
)
