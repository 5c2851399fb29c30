package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cartai/negotiation-platform/internal/model"
)

func validNegotiateRequest() model.NegotiateRequest {
	return model.NegotiateRequest{
		Product:  "bamboo toothbrush",
		Quantity: 50,
		Budget:   100,
		Priority: model.PriorityPrice,
	}
}

func TestValidateNegotiateRequest(t *testing.T) {
	req := validNegotiateRequest()
	assert.NoError(t, ValidateNegotiateRequest(&req))

	req = validNegotiateRequest()
	req.Product = ""
	assert.Error(t, ValidateNegotiateRequest(&req))

	req = validNegotiateRequest()
	req.Quantity = 0
	assert.Error(t, ValidateNegotiateRequest(&req))

	req = validNegotiateRequest()
	req.Budget = -1
	assert.Error(t, ValidateNegotiateRequest(&req))

	req = validNegotiateRequest()
	req.Priority = "vibes"
	assert.Error(t, ValidateNegotiateRequest(&req))
}

func TestValidateNegotiateStoreRequest(t *testing.T) {
	req := model.NegotiateStoreRequest{
		Product:  "laptop stand",
		Quantity: 3,
		Budget:   100,
		Priority: model.PrioritySpeed,
		StoreID:  "seller_fast_trader",
	}
	assert.NoError(t, ValidateNegotiateStoreRequest(&req))

	req.StoreID = ""
	assert.Error(t, ValidateNegotiateStoreRequest(&req))
}

func TestValidateProduct(t *testing.T) {
	assert.NoError(t, ValidateProduct("toothbrush"))
	assert.Error(t, ValidateProduct(""))
	assert.Error(t, ValidateProduct(strings.Repeat("x", 513)))
	assert.Error(t, ValidateProduct("bad\xff\xfe"))
}

func TestValidateConversationID(t *testing.T) {
	assert.NoError(t, ValidateConversationID("0191e3a0-1111-7abc-8def-0123456789ab"))
	assert.Error(t, ValidateConversationID("not-a-uuid"))
	assert.Error(t, ValidateConversationID(""))
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle(""))
	assert.NoError(t, ValidateTitle("Weekly restock"))
	assert.Error(t, ValidateTitle(strings.Repeat("t", 257)))
}
