package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

func testPricing() checkoutapp.Pricing {
	return checkoutapp.Pricing{
		TaxRate:          decimal.NewFromFloat(0.08),
		ShippingFee:      decimal.NewFromFloat(5.00),
		FreeShippingOver: decimal.NewFromFloat(100.00),
	}
}

func setupCheckoutHandler(
	cartRepo *MockCartRepository,
	productRepo *MockProductRepository,
	orderRepo *MockOrderRepository,
	addressRepo *MockAddressRepository,
) *CheckoutHandler {
	scope := checkoutapp.NewNoOpTransactionScope(productRepo, orderRepo, cartRepo)
	service := checkoutapp.NewCheckoutService(scope, addressRepo, testPricing())
	return NewCheckoutHandler(service)
}

func TestCheckoutHandler_PlaceOrder_Success(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	addressRepo := new(MockAddressRepository)
	handler := setupCheckoutHandler(cartRepo, productRepo, orderRepo, addressRepo)

	product := createTestProduct(t)
	c := emptyTestCart(t)
	require.NoError(t, c.AddLine(product.ID, product.Name, "M", "black", 2, product.EffectivePrice()))

	address := createTestAddress(t, testUserID)
	addressRepo.On("FindDefaultByUser", mock.Anything, testUserID).Return(address, nil)
	cartRepo.On("FindByUser", mock.Anything, testUserID).Return(c, nil)
	orderRepo.On("GenerateOrderNumber", mock.Anything).Return("SO-2026-00001", nil)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Reserve", mock.Anything, product.ID, 2).Return(8, nil)
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	cartRepo.On("Save", mock.Anything, mock.AnythingOfType("*cart.Cart")).Return(nil)

	router := setupTestRouter()
	router.POST("/checkout", handler.PlaceOrder)

	w := doJSON(router, http.MethodPost, "/checkout", checkoutapp.PlaceOrderRequest{
		PaymentMethod: "card",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))

	cartRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestCheckoutHandler_PlaceOrder_InsufficientStock(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	addressRepo := new(MockAddressRepository)
	handler := setupCheckoutHandler(cartRepo, productRepo, orderRepo, addressRepo)

	product := createTestProduct(t)
	c := emptyTestCart(t)
	require.NoError(t, c.AddLine(product.ID, product.Name, "", "", 2, product.EffectivePrice()))

	addressRepo.On("FindDefaultByUser", mock.Anything, testUserID).Return(createTestAddress(t, testUserID), nil)
	cartRepo.On("FindByUser", mock.Anything, testUserID).Return(c, nil)
	orderRepo.On("GenerateOrderNumber", mock.Anything).Return("SO-2026-00002", nil)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Reserve", mock.Anything, product.ID, 2).
		Return(0, &catalog.InsufficientStockError{ProductID: product.ID, Requested: 2, Available: 0})

	router := setupTestRouter()
	router.POST("/checkout", handler.PlaceOrder)

	w := doJSON(router, http.MethodPost, "/checkout", checkoutapp.PlaceOrderRequest{
		PaymentMethod: "card",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errInfo := response["error"].(map[string]any)
	assert.Equal(t, "ERR_INSUFFICIENT_STOCK", errInfo["code"])

	details := errInfo["details"].([]any)
	first := details[0].(map[string]any)
	assert.Equal(t, "product_id", first["field"])
	assert.Equal(t, product.ID.String(), first["message"])
}

func TestCheckoutHandler_PlaceOrder_EmptyCart(t *testing.T) {
	cartRepo := new(MockCartRepository)
	addressRepo := new(MockAddressRepository)
	handler := setupCheckoutHandler(cartRepo, new(MockProductRepository), new(MockOrderRepository), addressRepo)

	addressRepo.On("FindDefaultByUser", mock.Anything, testUserID).Return(createTestAddress(t, testUserID), nil)
	cartRepo.On("FindByUser", mock.Anything, testUserID).Return(emptyTestCart(t), nil)

	router := setupTestRouter()
	router.POST("/checkout", handler.PlaceOrder)

	w := doJSON(router, http.MethodPost, "/checkout", checkoutapp.PlaceOrderRequest{
		PaymentMethod: "card",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckoutHandler_PlaceOrder_NoDefaultAddress(t *testing.T) {
	addressRepo := new(MockAddressRepository)
	handler := setupCheckoutHandler(new(MockCartRepository), new(MockProductRepository), new(MockOrderRepository), addressRepo)

	addressRepo.On("FindDefaultByUser", mock.Anything, testUserID).Return(nil, shared.ErrAddressNotFound)

	router := setupTestRouter()
	router.POST("/checkout", handler.PlaceOrder)

	w := doJSON(router, http.MethodPost, "/checkout", checkoutapp.PlaceOrderRequest{
		PaymentMethod: "card",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutHandler_PlaceOrder_MissingPaymentMethod(t *testing.T) {
	handler := setupCheckoutHandler(new(MockCartRepository), new(MockProductRepository), new(MockOrderRepository), new(MockAddressRepository))

	router := setupTestRouter()
	router.POST("/checkout", handler.PlaceOrder)

	w := doJSON(router, http.MethodPost, "/checkout", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_Quote_Success(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	handler := setupCheckoutHandler(cartRepo, productRepo, new(MockOrderRepository), new(MockAddressRepository))

	product := createTestProduct(t)
	c := emptyTestCart(t)
	require.NoError(t, c.AddLine(product.ID, product.Name, "", "", 2, product.EffectivePrice()))

	cartRepo.On("FindByUser", mock.Anything, testUserID).Return(c, nil)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := setupTestRouter()
	router.GET("/checkout/quote", handler.Quote)

	w := doJSON(router, http.MethodGet, "/checkout/quote", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Subtotal    decimal.Decimal `json:"subtotal"`
			TaxAmount   decimal.Decimal `json:"tax_amount"`
			ShippingFee decimal.Decimal `json:"shipping_fee"`
			TotalAmount decimal.Decimal `json:"total_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	// 2 x 19.99 = 39.98, tax 3.20, shipping 5.00 under the free threshold
	assert.True(t, response.Data.Subtotal.Equal(decimal.NewFromFloat(39.98)))
	assert.True(t, response.Data.TaxAmount.Equal(decimal.NewFromFloat(3.20)))
	assert.True(t, response.Data.ShippingFee.Equal(decimal.NewFromFloat(5.00)))
	assert.True(t, response.Data.TotalAmount.Equal(decimal.NewFromFloat(48.18)))
}
