package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/latinum-ai/mercator/internal/models"
)

const BuyProductsToolName = "buy_products"

// BuyProductsRequest represents the tool input.
type BuyProductsRequest struct {
	ProductIDs  []int64 `json:"productIDs" jsonschema:"title=Product IDs,description=List of product IDs (integers) to purchase."`
	SignedTxHex string  `json:"signed_tx_hex" jsonschema:"title=Signed transaction,description=Hex-encoded signed payment transaction."`
}

// BuyProductsTool purchases products via a signed payment transaction,
// delegating to the checkout flow.
type BuyProductsTool struct {
	checkout models.CheckoutService
}

var _ Tool = (*BuyProductsTool)(nil)

func NewBuyProductsTool(checkout models.CheckoutService) *BuyProductsTool {
	return &BuyProductsTool{checkout: checkout}
}

func (t *BuyProductsTool) Name() string {
	return BuyProductsToolName
}

func (t *BuyProductsTool) Description() string {
	return "Attempts to purchase one or more products via a signed payment transaction. " +
		"Returns payment details if a valid payment is still required."
}

func (t *BuyProductsTool) Parameters() *jsonschema.Schema {
	return inputSchema(&BuyProductsRequest{})
}

func (t *BuyProductsTool) Call(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req BuyProductsRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input: %w", err)
	}
	return t.checkout.BuyProducts(ctx, req.ProductIDs, req.SignedTxHex), nil
}
