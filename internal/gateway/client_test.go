package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"purechain-store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	params url.Values
}

// sheetServer fakes the Apps Script endpoint: one handler, everything keyed
// off query parameters.
func sheetServer(t *testing.T, handler func(params url.Values) (int, string)) (*Client, *[]capturedRequest) {
	t.Helper()

	var requests []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		requests = append(requests, capturedRequest{params: params})

		status, body := handler(params)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL), &requests
}

func envelope(data string) string {
	return `{"success":true,"message":"ok","data":` + data + `,"timestamp":"2024-05-20T10:00:00Z"}`
}

func TestGetAllProductsSendsActionAndSheet(t *testing.T) {
	client, requests := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusOK, envelope(`[
			{"Product_id":"CA","Product Name":"Carrot","Price (Rs.)":450,"Stock":"12"},
			{"Product_id":"TM","Product Name":"Tomato","Price (Rs.)":"300","Stock":"NA"}
		]`)
	})

	rows, err := client.GetAllProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Numeric and string cells both decode; Float smooths the difference.
	assert.Equal(t, "CA", rows[0].ProductID.String())
	assert.Equal(t, "Carrot", rows[0].Name)
	assert.Equal(t, 450.0, rows[0].Price.Float())
	assert.Equal(t, 300.0, rows[1].Price.Float())
	assert.Equal(t, "NA", rows[1].Stock.String())

	require.Len(t, *requests, 1)
	params := (*requests)[0].params
	assert.Equal(t, "getAll", params.Get("action"))
	assert.Equal(t, "products", params.Get("sheet"))
}

func TestGetAllToleratesNullData(t *testing.T) {
	client, _ := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusOK, envelope(`null`)
	})

	rows, err := client.GetAllOrders(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetAllNonSuccessEnvelopeStillReturnsData(t *testing.T) {
	client, _ := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusOK, `{"success":false,"message":"sheet empty","data":[],"timestamp":""}`
	})

	rows, err := client.GetAllFarmers(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetAllHTTPErrorIsAnError(t *testing.T) {
	client, _ := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusBadGateway, `upstream exploded`
	})

	_, err := client.GetAllProducts(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGetProductByIDFiltersClientSide(t *testing.T) {
	client, requests := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusOK, envelope(`[
			{"Product_id":"CA","Product Name":"Carrot"},
			{"Product_id":"TM","Product Name":"Tomato"}
		]`)
	})

	row, err := client.GetProductByID(context.Background(), "TM")

	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Tomato", row.Name)

	// One getAll, no getById round trip.
	require.Len(t, *requests, 1)
	assert.Equal(t, "getAll", (*requests)[0].params.Get("action"))
}

func TestGetProductByIDUnknownIsNil(t *testing.T) {
	client, _ := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusOK, envelope(`[{"Product_id":"CA","Product Name":"Carrot"}]`)
	})

	row, err := client.GetProductByID(context.Background(), "ZZ")

	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestCreateOrderSendsRowAsDataParam(t *testing.T) {
	client, requests := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusOK, envelope(`{"success":true,"id":1042}`)
	})

	id, err := client.CreateOrder(context.Background(), models.NewOrderRow{
		ProductID: "CA",
		Quantity:  2,
		DateTime:  "2024-05-20T10:00:00Z",
		Status:    "Pending",
	})

	require.NoError(t, err)
	assert.Equal(t, "1042", id)

	require.Len(t, *requests, 1)
	params := (*requests)[0].params
	assert.Equal(t, "create", params.Get("action"))
	assert.Equal(t, "orders", params.Get("sheet"))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(params.Get("data")), &sent))
	assert.Equal(t, "CA", sent["Product_id"])
	assert.Equal(t, 2.0, sent["Quantity"])
	assert.Equal(t, "2024-05-20T10:00:00Z", sent["Date and Time"])
	assert.Equal(t, "Pending", sent["Status"])
	assert.Contains(t, sent, "Process Time")
}

func TestCreateOrderWithoutServerIDReturnsEmpty(t *testing.T) {
	client, _ := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusOK, envelope(`{"success":true}`)
	})

	id, err := client.CreateOrder(context.Background(), models.NewOrderRow{ProductID: "CA", Quantity: 1})

	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestUpdateStockSendsNegativeDelta(t *testing.T) {
	client, requests := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusOK, envelope(`{"success":true}`)
	})

	require.NoError(t, client.UpdateStock(context.Background(), "CA", -3))

	require.Len(t, *requests, 1)
	params := (*requests)[0].params
	assert.Equal(t, "updateStock", params.Get("action"))
	assert.Equal(t, "CA", params.Get("productId"))
	assert.Equal(t, "-3", params.Get("quantity"))
}

func TestSubmitContactWritesToContactSheet(t *testing.T) {
	client, requests := sheetServer(t, func(url.Values) (int, string) {
		return http.StatusOK, envelope(`{"success":true}`)
	})

	err := client.SubmitContact(context.Background(), models.ContactRow{
		Email:   "buyer@example.com",
		Message: "Name: Amal | Phone: 0771234567 | Do you deliver to Kandy?",
	})

	require.NoError(t, err)
	require.Len(t, *requests, 1)
	params := (*requests)[0].params
	assert.Equal(t, "create", params.Get("action"))
	assert.Equal(t, "contact", params.Get("sheet"))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(params.Get("data")), &sent))
	assert.Equal(t, "buyer@example.com", sent["email"])
}
