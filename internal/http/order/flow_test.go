package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nastyazhadan/restaurant-order/internal/config"
	"github.com/nastyazhadan/restaurant-order/internal/http/middleware"
	"github.com/nastyazhadan/restaurant-order/internal/infrastructure/kafka"
	"github.com/nastyazhadan/restaurant-order/internal/metrics"
	"github.com/nastyazhadan/restaurant-order/internal/ratelimit"
	"github.com/nastyazhadan/restaurant-order/internal/services/contact"
	orderService "github.com/nastyazhadan/restaurant-order/internal/services/order"
	"github.com/nastyazhadan/restaurant-order/internal/storage/memory"
	"github.com/nastyazhadan/restaurant-order/internal/validation"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

type flow struct {
	router   *gin.Engine
	orders   *memory.OrderStore
	contacts *memory.ContactStore
}

func newFlow(t *testing.T) *flow {
	t.Helper()

	gin.SetMode(gin.TestMode)
	zapLogger.SetNopLogger()

	validator, err := validation.New()
	require.NoError(t, err)

	orderStore := memory.NewOrderStore()
	contactStore := memory.NewContactStore()
	m := metrics.New()

	resolver := orderService.NewResolver(memory.NewDemoCatalogStore(), orderService.NonCatalogPolicy{
		Mode:     config.NonCatalogCap,
		PriceCap: decimal.NewFromInt(200),
	})
	orders := orderService.NewService(resolver, orderStore, kafka.NoopPublisher{}, noop.NewTracerProvider().Tracer("test"), "website")

	handler := NewHandler(
		orders,
		contact.NewService(contactStore),
		ratelimit.NewLimiter(ratelimit.NewMemoryStore(), "order:create:", ratelimit.Policy{MaxRequests: 10, Window: time.Minute}),
		ratelimit.NewLimiter(ratelimit.NewMemoryStore(), "contact:", ratelimit.Policy{MaxRequests: 5, Window: 10 * time.Minute}),
		validator,
		m,
	)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.Metrics(m), middleware.Recovery())
	Register(router, handler)

	return &flow{router: router, orders: orderStore, contacts: contactStore}
}

func (f *flow) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	request.RemoteAddr = "198.51.100.20:50000"

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)

	return recorder
}

func TestOrderFlowIgnoresClientTotals(t *testing.T) {
	f := newFlow(t)

	recorder := f.post(t, "/api/orders/create", map[string]any{
		"locationId":      "downtown",
		"orderType":       "delivery",
		"customerName":    "Jane Doe",
		"customerPhone":   "555-123-4567",
		"deliveryAddress": "12 Harbor Street",
		"deliveryCity":    "Springfield",
		"items": []map[string]any{
			{"id": "margherita", "name": "Margherita Pizza", "price": 0.01, "quantity": 2},
			{"id": "pepperoni", "name": "Pepperoni Pizza", "price": 0.01, "quantity": 1},
		},
		"subtotal": 0.03,
		"total":    0.01,
	})

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	var body struct {
		Success bool `json:"success"`
		Order   struct {
			ID          string  `json:"id"`
			OrderNumber string  `json:"orderNumber"`
			Subtotal    float64 `json:"subtotal"`
			DeliveryFee float64 `json:"deliveryFee"`
			Total       float64 `json:"total"`
			Status      string  `json:"status"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, 38.5, body.Order.Subtotal)
	assert.Equal(t, 4.99, body.Order.DeliveryFee)
	assert.Equal(t, 43.49, body.Order.Total)
	assert.Equal(t, "pending", body.Order.Status)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{6}$`, body.Order.OrderNumber)

	id, err := uuid.Parse(body.Order.ID)
	require.NoError(t, err)

	stored, err := f.orders.GetOrder(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.True(t, decimal.RequireFromString("12.00").Equal(stored.Items[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("43.49").Equal(stored.Total))
	assert.Equal(t, "website", stored.Source)
}

func TestOrderFlowRejections(t *testing.T) {
	tests := []struct {
		name          string
		locationID    string
		orderType     string
		itemID        string
		expectedCode  int
		expectedError string
	}{
		{
			name:          "локация не принимает заказы",
			locationID:    "airport",
			orderType:     "pickup",
			itemID:        "margherita",
			expectedCode:  http.StatusBadRequest,
			expectedError: codeLocationClosed,
		},
		{
			name:          "доставка отключена",
			locationID:    "harbor",
			orderType:     "delivery",
			itemID:        "margherita",
			expectedCode:  http.StatusBadRequest,
			expectedError: codeDeliveryUnavailable,
		},
		{
			name:          "неизвестная локация",
			locationID:    "nowhere",
			orderType:     "pickup",
			itemID:        "margherita",
			expectedCode:  http.StatusBadRequest,
			expectedError: codeInvalidLocation,
		},
		{
			name:          "позиция снята с продажи",
			locationID:    "downtown",
			orderType:     "pickup",
			itemID:        "tiramisu",
			expectedCode:  http.StatusBadRequest,
			expectedError: codeItemUnavailable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFlow(t)

			recorder := f.post(t, "/api/orders/create", map[string]any{
				"locationId":      test.locationID,
				"orderType":       test.orderType,
				"customerName":    "Jane Doe",
				"customerPhone":   "555-123-4567",
				"deliveryAddress": "12 Harbor Street",
				"items": []map[string]any{
					{"id": test.itemID, "name": "Anything", "price": 5, "quantity": 1},
				},
			})

			require.Equal(t, test.expectedCode, recorder.Code, recorder.Body.String())

			var body errorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, test.expectedError, body.Error)
			assert.Zero(t, f.orders.Len(), "nothing is written for a rejected order")
		})
	}
}

func TestOrderFlowRejectsBlankFields(t *testing.T) {
	f := newFlow(t)

	recorder := f.post(t, "/api/orders/create", map[string]any{
		"locationId":    "downtown",
		"orderType":     "pickup",
		"customerName":  "     ",
		"customerPhone": "555-123-4567",
		"items": []map[string]any{
			{"id": "   ", "name": "   ", "price": 5, "quantity": 1},
		},
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())

	var body errorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, codeValidationFailed, body.Error)

	fields := make([]string, 0, len(body.Errors))
	for _, fieldErr := range body.Errors {
		fields = append(fields, fieldErr.Field)
	}
	assert.ElementsMatch(t, []string{"customerName", "items[0].id", "items[0].name"}, fields)
	assert.Zero(t, f.orders.Len())
}

func TestOrderFlowStoresTrimmedValues(t *testing.T) {
	f := newFlow(t)

	recorder := f.post(t, "/api/orders/create", map[string]any{
		"locationId":    " downtown ",
		"orderType":     "pickup",
		"customerName":  "  Jane Doe  ",
		"customerPhone": "555-123-4567",
		"items": []map[string]any{
			{"id": " margherita ", "name": " Margherita Pizza ", "price": 12, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var body struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	id, err := uuid.Parse(body.Order.ID)
	require.NoError(t, err)

	stored, err := f.orders.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", stored.CustomerName)
	assert.Equal(t, "downtown", stored.LocationID)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].CatalogBacked)
}

func TestOrderFlowRateLimit(t *testing.T) {
	f := newFlow(t)

	body := map[string]any{
		"locationId":    "downtown",
		"orderType":     "pickup",
		"customerName":  "Jane Doe",
		"customerPhone": "555-123-4567",
		"items":         []map[string]any{{"id": "caesar-salad", "name": "Caesar Salad", "price": 9.25, "quantity": 1}},
	}

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, f.post(t, "/api/orders/create", body).Code)
	}

	recorder := f.post(t, "/api/orders/create", body)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, 10, f.orders.Len())

	var response errorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Greater(t, response.RetryAfter, 0)
	assert.LessOrEqual(t, response.RetryAfter, 60)
}

func TestContactFlowStoresSubmission(t *testing.T) {
	f := newFlow(t)

	recorder := f.post(t, "/api/contact", map[string]any{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"phone":   "(555) 123-4567",
		"reason":  "feedback",
		"message": "The tiramisu was excellent last week.",
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	submissions := f.contacts.Submissions()
	require.Len(t, submissions, 1)
	assert.NotEqual(t, uuid.Nil, submissions[0].ID)
	require.NotNil(t, submissions[0].Phone)
	assert.Equal(t, "(555) 123-4567", *submissions[0].Phone)
	assert.Equal(t, "198.51.100.20", submissions[0].ClientIP)
}
