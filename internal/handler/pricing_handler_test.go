package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"field-kart/internal/model"
	"field-kart/internal/scheme"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPricingService is a mock implementation of PricingService.
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuoteResponse), args.Error(1)
}

func (m *MockPricingService) ApplicableSchemes(ctx context.Context, req *model.QuoteRequest) ([]scheme.PromotionRule, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheme.PromotionRule), args.Error(1)
}

func TestPricingHandler_Quote(t *testing.T) {
	logger := zerolog.Nop()

	testQuote := &model.QuoteResponse{
		Pricing: scheme.PricingResult{
			Subtotal:      500.00,
			TotalDiscount: 50.00,
			FinalTotal:    450.00,
			AppliedSchemes: []scheme.AppliedScheme{
				{ID: "SCH001", Name: "Cola Promo", Type: scheme.TypePercentage, DiscountAmount: 50.00, DiscountPercentage: 10},
			},
			LineDiscounts: map[string]float64{"line-1": 50.00},
		},
		Summary: "✓ Cola Promo (10% off) - Saved ₹50.00",
	}

	tests := []struct {
		name           string
		method         string
		requestBody    interface{}
		mockReturn     *model.QuoteResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:   "Success",
			method: http.MethodPost,
			requestBody: &model.QuoteRequest{
				Items: []model.OrderItemRequest{
					{ProductID: "P001", Quantity: 5},
				},
			},
			mockReturn:     testQuote,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:   "Product not found",
			method: http.MethodPost,
			requestBody: &model.QuoteRequest{
				Items: []model.OrderItemRequest{
					{ProductID: "P999", Quantity: 1},
				},
			},
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusUnprocessableEntity,
			expectService:  true,
		},
		{
			name:   "Empty items rejected by validation",
			method: http.MethodPost,
			requestBody: &model.QuoteRequest{
				Items: []model.OrderItemRequest{},
			},
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Invalid JSON",
			method:         http.MethodPost,
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
		{
			name:   "Service internal error",
			method: http.MethodPost,
			requestBody: &model.QuoteRequest{
				Items: []model.OrderItemRequest{
					{ProductID: "P001", Quantity: 1},
				},
			},
			mockError:      errors.New("catalog unavailable"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPricingService)
			handler := NewPricingHandler(mockService, logger)

			var body []byte
			if tt.requestBody != nil {
				if str, ok := tt.requestBody.(string); ok {
					body = []byte(str)
				} else {
					var err error
					body, err = json.Marshal(tt.requestBody)
					require.NoError(t, err)
				}
			}

			if tt.expectService {
				mockService.On("Quote", mock.Anything, mock.AnythingOfType("*model.QuoteRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, "/api/pricing/quote", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Quote(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Quote")
			}
		})
	}
}

func TestPricingHandler_Quote_ResponseBody(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockPricingService)
	handler := NewPricingHandler(mockService, logger)

	mockService.On("Quote", mock.Anything, mock.AnythingOfType("*model.QuoteRequest")).
		Return(&model.QuoteResponse{
			Pricing: scheme.PricingResult{
				Subtotal:      500.00,
				TotalDiscount: 50.00,
				FinalTotal:    450.00,
			},
			Summary: "✓ Cola Promo (10% off) - Saved ₹50.00",
		}, nil)

	body, err := json.Marshal(&model.QuoteRequest{
		Items: []model.OrderItemRequest{{ProductID: "P001", Quantity: 5}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/pricing/quote", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.Quote(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.QuoteResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.InDelta(t, 450.00, resp.Pricing.FinalTotal, 1e-9)
	assert.Equal(t, "✓ Cola Promo (10% off) - Saved ₹50.00", resp.Summary)
}

func TestPricingHandler_ApplicableSchemes(t *testing.T) {
	logger := zerolog.Nop()

	rules := []scheme.PromotionRule{
		{ID: "SCH001", Name: "Cola Promo", Type: "percentage", TargetProductID: "P001", DiscountPercentage: 10},
	}

	tests := []struct {
		name           string
		method         string
		requestBody    interface{}
		mockReturn     []scheme.PromotionRule
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:   "Success",
			method: http.MethodPost,
			requestBody: &model.QuoteRequest{
				Items: []model.OrderItemRequest{
					{ProductID: "P001", Quantity: 5},
				},
			},
			mockReturn:     rules,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:   "No matching schemes",
			method: http.MethodPost,
			requestBody: &model.QuoteRequest{
				Items: []model.OrderItemRequest{
					{ProductID: "P002", Quantity: 1},
				},
			},
			mockReturn:     []scheme.PromotionRule{},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
		{
			name:   "Service error",
			method: http.MethodPost,
			requestBody: &model.QuoteRequest{
				Items: []model.OrderItemRequest{
					{ProductID: "P001", Quantity: 1},
				},
			},
			mockError:      errors.New("catalog unavailable"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPricingService)
			handler := NewPricingHandler(mockService, logger)

			var body []byte
			if tt.requestBody != nil {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			if tt.expectService {
				mockService.On("ApplicableSchemes", mock.Anything, mock.AnythingOfType("*model.QuoteRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, "/api/pricing/schemes", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ApplicableSchemes(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}
