// Package gateway speaks the spreadsheet backend's query protocol. Every
// operation, writes included, is a GET with action/sheet parameters: the Apps
// Script deployment only answers doGet, and keeping writes as GETs avoids the
// CORS preflight it cannot handle.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"purechain-store/internal/models"
	"purechain-store/internal/util"

	"go.uber.org/zap"
)

// Sheet names as the backend knows them.
const (
	SheetProducts    = "products"
	SheetFarmers     = "farmers"
	SheetProductInfo = "Product Info"
	SheetHarvest     = "Harvest"
	SheetOrders      = "orders"
	SheetContact     = "contact"
	SheetSensorData  = "Sensor Data"
)

// Envelope is the response wrapper every gateway call returns.
type Envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

// Client issues read/write calls against the sheet API.
type Client struct {
	apiURL string
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a gateway client for the given Apps Script URL.
func NewClient(apiURL string) *Client {
	return &Client{
		apiURL: apiURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: util.GetLogger(),
	}
}

// get performs one gateway request and returns the envelope's data payload.
// Transport and HTTP-status failures are errors; a success=false envelope is
// not, since the backend uses it for soft misses and still ships usable data.
func (c *Client) get(ctx context.Context, params url.Values) (json.RawMessage, error) {
	action := params.Get("action")
	sheet := params.Get("sheet")

	ctx, span := util.StartSpan(ctx, "Gateway."+action)
	defer span.End()

	start := time.Now()
	defer func() {
		util.GatewayRequestDuration.WithLabelValues(action, sheet).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		util.GatewayRequestErrors.WithLabelValues(action, sheet).Inc()
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		util.GatewayRequestErrors.WithLabelValues(action, sheet).Inc()
		return nil, fmt.Errorf("gateway returned HTTP %d", resp.StatusCode)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		util.GatewayRequestErrors.WithLabelValues(action, sheet).Inc()
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if !env.Success {
		c.logger.Debug("Gateway reported non-success",
			zap.String("action", action),
			zap.String("sheet", sheet),
			zap.String("message", env.Message))
	}

	return env.Data, nil
}

// write sends a create/update as a GET carrying the JSON-serialized row in the
// data parameter.
func (c *Client) write(ctx context.Context, action, sheet string, data interface{}, extra url.Values) (json.RawMessage, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal write payload: %w", err)
	}

	params := url.Values{}
	params.Set("action", action)
	params.Set("sheet", sheet)
	params.Set("data", string(payload))
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	return c.get(ctx, params)
}

func (c *Client) getAll(ctx context.Context, sheet string, dest interface{}) error {
	params := url.Values{}
	params.Set("action", "getAll")
	params.Set("sheet", sheet)

	data, err := c.get(ctx, params)
	if err != nil {
		return err
	}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// GetAllProducts fetches every row of the products sheet.
func (c *Client) GetAllProducts(ctx context.Context) ([]models.ProductRow, error) {
	var rows []models.ProductRow
	err := c.getAll(ctx, SheetProducts, &rows)
	return rows, err
}

// GetProductByID fetches one product row. It prefers fetching all rows and
// filtering client-side; the backend's getById handler disagrees with the
// sheet about the id column name, so the direct lookup is only a fallback.
func (c *Client) GetProductByID(ctx context.Context, id string) (*models.ProductRow, error) {
	rows, err := c.GetAllProducts(ctx)
	if err == nil {
		for i := range rows {
			if rows[i].ProductID.String() == id {
				return &rows[i], nil
			}
		}
		return nil, nil
	}

	params := url.Values{}
	params.Set("action", "getById")
	params.Set("sheet", SheetProducts)
	params.Set("id", id)

	data, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var row models.ProductRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetAllFarmers fetches every row of the farmers sheet.
func (c *Client) GetAllFarmers(ctx context.Context) ([]models.FarmerRow, error) {
	var rows []models.FarmerRow
	err := c.getAll(ctx, SheetFarmers, &rows)
	return rows, err
}

// GetProductInfo fetches every row of the Product Info sheet.
func (c *Client) GetProductInfo(ctx context.Context) ([]models.ProductInfoRow, error) {
	var rows []models.ProductInfoRow
	err := c.getAll(ctx, SheetProductInfo, &rows)
	return rows, err
}

// GetHarvestData fetches every row of the Harvest sheet.
func (c *Client) GetHarvestData(ctx context.Context) ([]models.HarvestRow, error) {
	var rows []models.HarvestRow
	err := c.getAll(ctx, SheetHarvest, &rows)
	return rows, err
}

// GetSensorData fetches the raw sensor time series.
func (c *Client) GetSensorData(ctx context.Context) ([]models.SensorRow, error) {
	var rows []models.SensorRow
	err := c.getAll(ctx, SheetSensorData, &rows)
	return rows, err
}

// GetAllOrders fetches every row of the orders sheet.
func (c *Client) GetAllOrders(ctx context.Context) ([]models.OrderRow, error) {
	var rows []models.OrderRow
	err := c.getAll(ctx, SheetOrders, &rows)
	return rows, err
}

type createResult struct {
	Success bool        `json:"success"`
	ID      models.Cell `json:"id"`
}

// CreateOrder appends a new order row and returns the server-assigned order
// id, or "" when the backend did not provide one.
func (c *Client) CreateOrder(ctx context.Context, row models.NewOrderRow) (string, error) {
	if row.DateTime == "" {
		row.DateTime = time.Now().Format(time.RFC3339)
	}

	data, err := c.write(ctx, "create", SheetOrders, row, nil)
	if err != nil {
		return "", err
	}

	var result createResult
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &result); err != nil {
			c.logger.Warn("Unparseable create-order response", zap.Error(err))
			return "", nil
		}
	}
	return result.ID.String(), nil
}

// UpdateStock applies a relative stock change for a product. Checkout passes
// the negative of the ordered quantity.
func (c *Client) UpdateStock(ctx context.Context, productID string, delta int) error {
	params := url.Values{}
	params.Set("action", "updateStock")
	params.Set("productId", productID)
	params.Set("quantity", strconv.Itoa(delta))

	_, err := c.get(ctx, params)
	return err
}

// SubmitContact appends a contact row.
func (c *Client) SubmitContact(ctx context.Context, contact models.ContactRow) error {
	_, err := c.write(ctx, "create", SheetContact, contact, nil)
	return err
}
